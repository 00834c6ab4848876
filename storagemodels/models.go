/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/suparena/userlookup/errors"
)

// Field names of the default users schema.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

// Record is a single row returned by a point lookup, keyed by field name.
// A Record is built fresh per lookup and holds no reference to the store.
type Record map[string]any

// String returns the named field rendered as text, or "" if it is absent or NULL.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch tv := v.(type) {
	case string:
		return tv
	case []byte:
		return string(tv)
	default:
		return fmt.Sprintf("%v", tv)
	}
}

// Has reports whether the record carries the named field.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// User is the typed view of a record from the users schema.
type User struct {

	// Unique login name.
	// Required: true
	Username string `json:"username"`

	// Contact address.
	// Format: email
	Email strfmt.Email `json:"email"`
}

// UserFromRecord maps a users-schema record onto a User.
func UserFromRecord(r Record) (*User, error) {
	if !r.Has(FieldUsername) {
		return nil, errors.NewValidationError(FieldUsername, "field missing from record")
	}
	if !r.Has(FieldEmail) {
		return nil, errors.NewValidationError(FieldEmail, "field missing from record")
	}

	email := r.String(FieldEmail)
	if email != "" && !strfmt.IsEmail(email) {
		return nil, errors.NewValidationError(FieldEmail, fmt.Sprintf("%q is not a valid email address", email))
	}

	return &User{
		Username: r.String(FieldUsername),
		Email:    strfmt.Email(email),
	}, nil
}
