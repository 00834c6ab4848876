/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"regexp"

	"github.com/suparena/userlookup/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema describes where a point lookup reads from: the table, its unique
// key field and the fields a record carries.
type Schema struct {
	// Name is the registry name of the schema, e.g. "users".
	Name string
	// Table is the table (or DynamoDB table-level entity) holding the records.
	Table string
	// KeyField is the unique field compared against the lookup key.
	KeyField string
	// Fields lists the fields read into a record. KeyField is always read.
	Fields []string
}

// UserSchema is the users(username, email) schema.
var UserSchema = Schema{
	Name:     "users",
	Table:    "users",
	KeyField: FieldUsername,
	Fields:   []string{FieldUsername, FieldEmail},
}

// Validate checks that every identifier can be placed in query text safely.
func (s Schema) Validate() error {
	if !identifierPattern.MatchString(s.Table) {
		return errors.NewValidationError("table", fmt.Sprintf("%q is not a valid identifier", s.Table))
	}
	if !identifierPattern.MatchString(s.KeyField) {
		return errors.NewValidationError("key_field", fmt.Sprintf("%q is not a valid identifier", s.KeyField))
	}
	for _, f := range s.Fields {
		if !identifierPattern.MatchString(f) {
			return errors.NewValidationError("fields", fmt.Sprintf("%q is not a valid identifier", f))
		}
	}
	return nil
}

// Columns returns the fields to read, key field first, without duplicates.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Fields)+1)
	cols = append(cols, s.KeyField)
	seen := map[string]bool{s.KeyField: true}
	for _, f := range s.Fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		cols = append(cols, f)
	}
	return cols
}

// Clone returns a copy of the schema that shares no slices with s.
func (s Schema) Clone() Schema {
	out := s
	out.Fields = append([]string(nil), s.Fields...)
	return out
}
