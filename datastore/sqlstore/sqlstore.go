/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/suparena/userlookup/datastore"
	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	Name       string
	DriverName string
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
}

var (
	// SQLite reads database files through modernc.org/sqlite.
	SQLite = Dialect{
		Name:        storagemodels.SchemeSQLite,
		DriverName:  "sqlite",
		placeholder: func(int) string { return "?" },
	}

	// Postgres reads PostgreSQL databases through pgx.
	Postgres = Dialect{
		Name:        storagemodels.SchemePostgres,
		DriverName:  "pgx",
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

// pointQuery builds the single-row select for schema. Only validated
// identifiers reach the query text; the key is always bind parameter 1.
func (d Dialect) pointQuery(schema storagemodels.Schema) string {
	cols := schema.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s LIMIT 1",
		strings.Join(quoted, ", "),
		quoteIdent(schema.Table),
		quoteIdent(schema.KeyField),
		d.placeholder(1),
	)
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Opener implements datastore.Opener on top of database/sql. Every Open
// creates a private single-connection pool that Conn.Close tears down.
type Opener struct {
	dialect Dialect
	log     zerolog.Logger
}

// Option configures an Opener.
type Option func(*Opener)

// WithLogger sets the logger used for connection lifecycle events.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Opener) {
		o.log = log
	}
}

// NewOpener constructs an Opener for the given dialect.
func NewOpener(dialect Dialect, opts ...Option) *Opener {
	o := &Opener{
		dialect: dialect,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewSQLiteOpener constructs an Opener for SQLite database files.
func NewSQLiteOpener(opts ...Option) *Opener {
	return NewOpener(SQLite, opts...)
}

// NewPostgresOpener constructs an Opener for PostgreSQL DSNs.
func NewPostgresOpener(opts ...Option) *Opener {
	return NewOpener(Postgres, opts...)
}

// Open acquires a connection to the store behind loc and pings it.
// A pool that was created but failed its ping is closed before returning.
func (o *Opener) Open(ctx context.Context, loc storagemodels.Locator) (datastore.Conn, error) {
	dsn, err := o.dsn(loc)
	if err != nil {
		return nil, errors.NewConnectionError(loc.Redacted(), err)
	}

	db, err := sql.Open(o.dialect.DriverName, dsn)
	if err != nil {
		return nil, errors.NewConnectionError(loc.Redacted(), fmt.Errorf("failed to open database: %w", err))
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(errors.PhaseConnect, loc, "", fmt.Errorf("failed to ping database: %w", err))
	}

	o.log.Debug().
		Str("dialect", o.dialect.Name).
		Str("locator", loc.Redacted()).
		Msg("store connection acquired")

	return &Conn{db: db, dialect: o.dialect, loc: loc, log: o.log}, nil
}

func (o *Opener) dsn(loc storagemodels.Locator) (string, error) {
	if o.dialect.Name != storagemodels.SchemeSQLite {
		return loc.Target, nil
	}
	return sqliteDSN(loc.Target)
}

// sqliteDSN turns a file path into a read-only SQLite URI. The file must
// already exist: opening never creates a store.
func sqliteDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", abs)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

// Conn is a single acquired database/sql connection pool.
type Conn struct {
	db      *sql.DB
	dialect Dialect
	loc     storagemodels.Locator
	log     zerolog.Logger
}

// GetOne runs the parameterized point query for key and maps the first
// row by column name. Fields of the schema missing from the row are a
// query error rather than a silently partial record.
func (c *Conn) GetOne(ctx context.Context, schema storagemodels.Schema, key any) (storagemodels.Record, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, c.dialect.pointQuery(schema), key)
	if err != nil {
		return nil, classify(errors.PhaseQuery, c.loc, schema.Table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, classify(errors.PhaseQuery, c.loc, schema.Table, err)
		}
		return nil, errors.NewNotFoundError(schema.Table, fmt.Sprintf("%v", key))
	}

	names, err := rows.Columns()
	if err != nil {
		return nil, classify(errors.PhaseQuery, c.loc, schema.Table, err)
	}
	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, classify(errors.PhaseQuery, c.loc, schema.Table, fmt.Errorf("failed to scan row: %w", err))
	}

	byName := make(map[string]any, len(names))
	for i, n := range names {
		byName[n] = values[i]
	}

	rec := make(storagemodels.Record, len(names))
	for _, f := range schema.Columns() {
		v, ok := byName[f]
		if !ok {
			return nil, errors.NewQueryError(schema.Table, fmt.Errorf("column %q missing from result", f))
		}
		if b, isBytes := v.([]byte); isBytes {
			v = string(b)
		}
		rec[f] = v
	}

	// Collations such as NOCASE match more than the exact key.
	if s, ok := key.(string); ok && rec.String(schema.KeyField) != s {
		return nil, errors.NewNotFoundError(schema.Table, s)
	}

	return rec, nil
}

// Close releases the connection pool.
func (c *Conn) Close() error {
	err := c.db.Close()
	c.log.Debug().
		Str("dialect", c.dialect.Name).
		Str("locator", c.loc.Redacted()).
		Err(err).
		Msg("store connection released")
	return err
}
