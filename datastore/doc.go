/*
Package datastore defines the store boundary of the lookup service.

A lookup acquires a Conn from the Opener registered for the locator's
scheme, runs one point query through it and closes it before returning:

	type Opener interface {
	    Open(ctx context.Context, loc storagemodels.Locator) (Conn, error)
	}

	type Conn interface {
	    GetOne(ctx context.Context, schema storagemodels.Schema, key any) (storagemodels.Record, error)
	    Close() error
	}

Implementations:
  - sqlstore: SQLite files and PostgreSQL through database/sql
  - ddb: DynamoDB tables
  - mock: In-memory opener for testing

Implementations report faults with the kinds of the errors package so the
caller can tell an unreachable store from a rejected query.
*/
package datastore
