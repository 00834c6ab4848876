/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/suparena/userlookup/errors"
)

// Schemes understood by the built-in store backends.
const (
	SchemeSQLite   = "sqlite"
	SchemePostgres = "postgres"
	SchemeDynamoDB = "dynamodb"
)

// Locator is a parsed store locator. It is built per call and never cached.
type Locator struct {
	// Raw is the locator exactly as the caller supplied it.
	Raw string
	// Scheme selects the backend.
	Scheme string
	// Target is the backend-specific address: a file path, a DSN or a table name.
	Target string
	// Params holds query parameters of URL-shaped locators.
	Params url.Values
}

// ParseLocator interprets a store locator.
//
// Bare paths and the file: and sqlite:// forms address SQLite files,
// postgres:// and postgresql:// URLs address PostgreSQL, and
// dynamodb://<table>?region=...&endpoint=... addresses a DynamoDB table.
// Other URL schemes parse successfully and are rejected when no backend
// is registered for them.
func ParseLocator(raw string) (Locator, error) {
	if raw == "" {
		return Locator{}, errors.NewValidationError("locator", "store locator is empty")
	}

	loc := Locator{Raw: raw, Params: url.Values{}}

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		loc.Scheme = SchemePostgres
		loc.Target = raw
		return loc, nil

	case strings.HasPrefix(raw, "sqlite://"):
		loc.Scheme = SchemeSQLite
		loc.Target = strings.TrimPrefix(raw, "sqlite://")

	case strings.HasPrefix(raw, "file:"):
		loc.Scheme = SchemeSQLite
		loc.Target = strings.TrimPrefix(strings.TrimPrefix(raw, "file:"), "//")

	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Locator{}, errors.NewValidationError("locator", fmt.Sprintf("cannot parse %q: %v", raw, err))
		}
		loc.Scheme = strings.ToLower(u.Scheme)
		loc.Params = u.Query()
		if loc.Scheme == SchemeDynamoDB {
			loc.Target = u.Host
		} else {
			loc.Target = raw
		}

	default:
		loc.Scheme = SchemeSQLite
		loc.Target = raw
	}

	if loc.Target == "" {
		return Locator{}, errors.NewValidationError("locator", fmt.Sprintf("%q names no store", raw))
	}
	return loc, nil
}

// Redacted returns the locator with any password replaced, for logging.
func (l Locator) Redacted() string {
	if !strings.Contains(l.Raw, "://") {
		return l.Raw
	}
	u, err := url.Parse(l.Raw)
	if err != nil {
		return l.Raw
	}
	return u.Redacted()
}

func (l Locator) String() string {
	return l.Redacted()
}
