/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"context"
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when no record matches the lookup key
	ErrNotFound = errors.New("record not found")

	// ErrConnection is returned when the store cannot be reached or opened
	ErrConnection = errors.New("store unreachable")

	// ErrQuery is returned when the store is reachable but rejects the query
	ErrQuery = errors.New("query rejected by store")

	// ErrMalformedStore is returned when the store contents are not a valid database
	ErrMalformedStore = errors.New("malformed store contents")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// Kind names the failure class of an error.
type Kind string

const (
	KindNone       Kind = ""
	KindNotFound   Kind = "not_found"
	KindConnection Kind = "connection"
	KindQuery      Kind = "query"
	KindMalformed  Kind = "malformed_store"
	KindInput      Kind = "input"
	KindUnknown    Kind = "unknown"
)

// Phase is the step of a lookup an error originated in.
type Phase int

const (
	PhaseConnect Phase = iota
	PhaseQuery
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConnectionError represents a failure to acquire a handle to the store
type ConnectionError struct {
	Locator string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Locator == "" {
		return fmt.Sprintf("connect to store: %v", e.Err)
	}
	return fmt.Sprintf("connect to store %q: %v", e.Locator, e.Err)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError represents a query the store accepted a connection for but failed to run
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("query failed: %v", e.Err)
	}
	return fmt.Sprintf("query on %q failed: %v", e.Table, e.Err)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// MalformedStoreError represents a store whose contents cannot be read as a database
type MalformedStoreError struct {
	Locator string
	Err     error
}

func (e *MalformedStoreError) Error() string {
	if e.Locator == "" {
		return fmt.Sprintf("malformed store: %v", e.Err)
	}
	return fmt.Sprintf("malformed store %q: %v", e.Locator, e.Err)
}

func (e *MalformedStoreError) Is(target error) bool {
	return target == ErrMalformedStore
}

func (e *MalformedStoreError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(recordType, key string) error {
	return &NotFoundError{Type: recordType, Key: key}
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(locator string, err error) error {
	return &ConnectionError{Locator: locator, Err: err}
}

// NewQueryError creates a new QueryError
func NewQueryError(table string, err error) error {
	return &QueryError{Table: table, Err: err}
}

// NewMalformedStoreError creates a new MalformedStoreError
func NewMalformedStoreError(locator string, err error) error {
	return &MalformedStoreError{Locator: locator, Err: err}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConnection checks if an error is a connection error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsQuery checks if an error is a query error
func IsQuery(err error) bool {
	return errors.Is(err, ErrQuery)
}

// IsMalformedStore checks if an error is a malformed store error
func IsMalformedStore(err error) bool {
	return errors.Is(err, ErrMalformedStore)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// KindOf reports the failure class of err. A nil error has KindNone and
// an error outside the taxonomy has KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case IsNotFound(err):
		return KindNotFound
	case IsMalformedStore(err):
		return KindMalformed
	case IsConnection(err):
		return KindConnection
	case IsQuery(err):
		return KindQuery
	case IsValidationError(err):
		return KindInput
	}
	return KindUnknown
}

// Classify returns err unchanged when it already belongs to the taxonomy.
// An expired or canceled context means the store did not answer and is a
// connection error in either phase. Anything else is wrapped as a
// connection or query error depending on the phase it surfaced in.
func Classify(phase Phase, locator, table string, err error) error {
	if err == nil {
		return nil
	}
	if k := KindOf(err); k != KindUnknown {
		return err
	}
	if IsContextDone(err) || phase == PhaseConnect {
		return NewConnectionError(locator, err)
	}
	return NewQueryError(table, err)
}

// IsContextDone reports whether err stems from a deadline or cancellation.
func IsContextDone(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
