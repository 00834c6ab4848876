/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/userlookup/storagemodels"
)

// Conn is a handle to a store acquired for the duration of one lookup.
type Conn interface {
	// GetOne reads the single record whose schema key field equals key.
	// A missing record is reported with errors.ErrNotFound.
	GetOne(ctx context.Context, schema storagemodels.Schema, key any) (storagemodels.Record, error)

	// Close releases the handle. It is called exactly once per acquired Conn.
	Close() error
}

// Opener acquires connections to the stores of one locator scheme.
type Opener interface {
	// Open acquires a Conn for loc. When Open fails it has already released
	// anything it partially acquired.
	Open(ctx context.Context, loc storagemodels.Locator) (Conn, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, loc storagemodels.Locator) (Conn, error)

// Open calls f(ctx, loc).
func (f OpenerFunc) Open(ctx context.Context, loc storagemodels.Locator) (Conn, error) {
	return f(ctx, loc)
}
