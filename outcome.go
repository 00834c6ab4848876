/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package userlookup

import (
	"fmt"

	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// Status is the discriminant of an Outcome.
type Status int

const (
	// StatusUnknown is the zero value and never returned by Lookup.
	StatusUnknown Status = iota
	StatusFound
	StatusNotFound
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Outcome is the result of a lookup. Exactly one of the following holds:
// Status is StatusFound and Record is set, Status is StatusNotFound, or
// Status is StatusError and Err is set.
type Outcome struct {
	Status Status
	Record storagemodels.Record
	Err    error
}

// Found returns a found outcome carrying rec.
func Found(rec storagemodels.Record) Outcome {
	return Outcome{Status: StatusFound, Record: rec}
}

// NotFound returns a not-found outcome.
func NotFound() Outcome {
	return Outcome{Status: StatusNotFound}
}

// Failed returns an error outcome carrying err.
func Failed(err error) Outcome {
	return Outcome{Status: StatusError, Err: err}
}

// Kind reports the failure class of an error outcome, KindNone otherwise.
func (o Outcome) Kind() errors.Kind {
	if o.Status != StatusError {
		return errors.KindNone
	}
	return errors.KindOf(o.Err)
}

// Reason is the human-readable failure message of an error outcome.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// User returns the typed users-schema view of a found record.
func (o Outcome) User() (*storagemodels.User, error) {
	if o.Status != StatusFound {
		return nil, fmt.Errorf("outcome is %s, not found", o.Status)
	}
	return storagemodels.UserFromRecord(o.Record)
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusFound:
		return fmt.Sprintf("found(%v)", map[string]any(o.Record))
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return fmt.Sprintf("error(%s: %s)", o.Kind(), o.Reason())
	}
	return "unknown"
}
