/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the datastore Opener for testing
package mock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/suparena/userlookup/datastore"
	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// DataStore is an in-memory store that hands out counted connections
type DataStore struct {
	mu         sync.RWMutex
	data       map[string]storagemodels.Record
	openError  error
	getError   error
	closeError error
	getFunc    func(ctx context.Context, key any) (storagemodels.Record, error)

	opens  atomic.Int64
	closes atomic.Int64
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		data: make(map[string]storagemodels.Record),
	}
}

// WithOpenError makes Open return an error
func (m *DataStore) WithOpenError(err error) *DataStore {
	m.openError = err
	return m
}

// WithGetError makes GetOne return an error
func (m *DataStore) WithGetError(err error) *DataStore {
	m.getError = err
	return m
}

// WithCloseError makes Close return an error
func (m *DataStore) WithCloseError(err error) *DataStore {
	m.closeError = err
	return m
}

// WithGetFunc sets a custom lookup function for testing
func (m *DataStore) WithGetFunc(f func(ctx context.Context, key any) (storagemodels.Record, error)) *DataStore {
	m.getFunc = f
	return m
}

// Open acquires a connection to the in-memory data
func (m *DataStore) Open(ctx context.Context, loc storagemodels.Locator) (datastore.Conn, error) {
	if m.openError != nil {
		return nil, m.openError
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewConnectionError(loc.Redacted(), err)
	}
	m.opens.Add(1)
	return &conn{store: m}, nil
}

// Put stores a record under the schema key field's value
func (m *DataStore) Put(schema storagemodels.Schema, rec storagemodels.Record) error {
	if !rec.Has(schema.KeyField) {
		return errors.NewValidationError(schema.KeyField, "record has no key field")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[rec.String(schema.KeyField)] = rec.Clone()
	return nil
}

// Helper methods for testing

// Opens returns the number of connections acquired
func (m *DataStore) Opens() int64 {
	return m.opens.Load()
}

// Closes returns the number of connections released
func (m *DataStore) Closes() int64 {
	return m.closes.Load()
}

// Outstanding returns the number of acquired connections not yet released
func (m *DataStore) Outstanding() int64 {
	return m.opens.Load() - m.closes.Load()
}

// Count returns the number of stored records
func (m *DataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

type conn struct {
	store  *DataStore
	closed atomic.Bool
}

// GetOne retrieves a record by exact key match
func (c *conn) GetOne(ctx context.Context, schema storagemodels.Schema, key any) (storagemodels.Record, error) {
	m := c.store
	if c.closed.Load() {
		return nil, errors.NewQueryError(schema.Table, fmt.Errorf("connection already released"))
	}
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	if m.getError != nil {
		return nil, m.getError
	}

	s, ok := key.(string)
	if !ok {
		return nil, errors.NewNotFoundError(schema.Table, fmt.Sprintf("%v", key))
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.data[s]
	if !exists {
		return nil, errors.NewNotFoundError(schema.Table, s)
	}

	out := make(storagemodels.Record, len(schema.Fields)+1)
	for _, f := range schema.Columns() {
		v, ok := rec[f]
		if !ok {
			return nil, errors.NewQueryError(schema.Table, fmt.Errorf("field %q missing from record", f))
		}
		out[f] = v
	}
	return out, nil
}

// Close releases the connection; releasing twice is an error
func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("connection released twice")
	}
	c.store.closes.Add(1)
	return c.store.closeError
}
