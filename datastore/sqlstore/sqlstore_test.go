/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// seedUsers creates a SQLite file with the users table and the given rows.
func seedUsers(t *testing.T, ddl string, rows map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for username, email := range rows {
		if _, err := db.Exec(`INSERT INTO users (username, email) VALUES (?, ?)`, username, email); err != nil {
			t.Fatalf("insert %s: %v", username, err)
		}
	}
	return path
}

const usersDDL = `CREATE TABLE users (username TEXT PRIMARY KEY, email TEXT NOT NULL)`

func aliceAndBob(t *testing.T) string {
	return seedUsers(t, usersDDL, map[string]string{
		"alice": "alice@example.com",
		"bob":   "bob@example.com",
	})
}

func mustLocator(t *testing.T, raw string) storagemodels.Locator {
	t.Helper()
	loc, err := storagemodels.ParseLocator(raw)
	if err != nil {
		t.Fatalf("ParseLocator(%q): %v", raw, err)
	}
	return loc
}

func lookup(t *testing.T, path string, schema storagemodels.Schema, key any) (storagemodels.Record, error) {
	t.Helper()
	ctx := context.Background()

	conn, err := NewSQLiteOpener().Open(ctx, mustLocator(t, path))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()
	return conn.GetOne(ctx, schema, key)
}

func TestPointQuery(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{
			name:    "sqlite",
			dialect: SQLite,
			want:    `SELECT "username", "email" FROM "users" WHERE "username" = ? LIMIT 1`,
		},
		{
			name:    "postgres",
			dialect: Postgres,
			want:    `SELECT "username", "email" FROM "users" WHERE "username" = $1 LIMIT 1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.pointQuery(storagemodels.UserSchema); got != tt.want {
				t.Errorf("pointQuery() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSQLiteGetOne(t *testing.T) {
	path := aliceAndBob(t)

	t.Run("Found", func(t *testing.T) {
		rec, err := lookup(t, path, storagemodels.UserSchema, "alice")
		if err != nil {
			t.Fatalf("GetOne failed: %v", err)
		}
		if rec.String("username") != "alice" || rec.String("email") != "alice@example.com" {
			t.Errorf("unexpected record: %v", rec)
		}
	})

	notFound := []struct {
		name string
		key  any
	}{
		{"absent key", "carol"},
		{"empty key", ""},
		{"different case", "Alice"},
		{"trailing space", "alice "},
		{"injection", "alice'; DROP TABLE users;--"},
		{"tautology", "' OR '1'='1"},
		{"numeric key", int64(7)},
	}
	for _, tt := range notFound {
		t.Run("NotFound/"+tt.name, func(t *testing.T) {
			_, err := lookup(t, path, storagemodels.UserSchema, tt.key)
			if !errors.IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}

	t.Run("TableUntouched", func(t *testing.T) {
		rec, err := lookup(t, path, storagemodels.UserSchema, "alice")
		if err != nil {
			t.Fatalf("GetOne after injection attempt failed: %v", err)
		}
		if rec.String("username") != "alice" {
			t.Errorf("unexpected record: %v", rec)
		}
	})
}

func TestSQLiteExactMatchUnderNocase(t *testing.T) {
	path := seedUsers(t,
		`CREATE TABLE users (username TEXT PRIMARY KEY COLLATE NOCASE, email TEXT NOT NULL)`,
		map[string]string{"alice": "alice@example.com"},
	)

	if _, err := lookup(t, path, storagemodels.UserSchema, "ALICE"); !errors.IsNotFound(err) {
		t.Fatalf("case-insensitive collation must not produce a match, got %v", err)
	}
	if _, err := lookup(t, path, storagemodels.UserSchema, "alice"); err != nil {
		t.Fatalf("exact key should match: %v", err)
	}
}

func TestSQLiteOpenErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no", "such", "store.db")
		_, err := NewSQLiteOpener().Open(ctx, mustLocator(t, path))
		if !errors.IsConnection(err) {
			t.Fatalf("expected connection error, got %v", err)
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Error("opening a missing store must not create it")
		}
	})

	t.Run("Directory", func(t *testing.T) {
		_, err := NewSQLiteOpener().Open(ctx, mustLocator(t, t.TempDir()))
		if !errors.IsConnection(err) {
			t.Fatalf("expected connection error, got %v", err)
		}
	})

	t.Run("NotADatabase", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.db")
		if err := os.WriteFile(path, []byte(strings.Repeat("not a sqlite database ", 64)), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := lookup(t, path, storagemodels.UserSchema, "alice")
		if !errors.IsMalformedStore(err) {
			t.Fatalf("expected malformed store error, got %v", err)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewSQLiteOpener().Open(cctx, mustLocator(t, aliceAndBob(t)))
		if err == nil {
			t.Fatal("expected an error for a canceled context")
		}
		if k := errors.KindOf(err); k != errors.KindConnection {
			t.Errorf("KindOf() = %q, want connection", k)
		}
	})
}

func TestSQLiteSchemaErrors(t *testing.T) {
	path := aliceAndBob(t)

	t.Run("MissingTable", func(t *testing.T) {
		schema := storagemodels.UserSchema.Clone()
		schema.Table = "accounts"
		_, err := lookup(t, path, schema, "alice")
		if !errors.IsQuery(err) {
			t.Fatalf("expected query error, got %v", err)
		}
	})

	t.Run("MissingColumn", func(t *testing.T) {
		schema := storagemodels.UserSchema.Clone()
		schema.Fields = append(schema.Fields, "phone")
		_, err := lookup(t, path, schema, "alice")
		if !errors.IsQuery(err) {
			t.Fatalf("expected query error, got %v", err)
		}
	})

	t.Run("InvalidIdentifier", func(t *testing.T) {
		schema := storagemodels.UserSchema.Clone()
		schema.Table = "users; DROP TABLE users"
		_, err := lookup(t, path, schema, "alice")
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestSQLiteConnReleased(t *testing.T) {
	path := aliceAndBob(t)
	ctx := context.Background()

	conn, err := NewSQLiteOpener().Open(ctx, mustLocator(t, path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := conn.GetOne(ctx, storagemodels.UserSchema, "carol"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if open := conn.(*Conn).db.Stats().OpenConnections; open != 0 {
		t.Errorf("OpenConnections after Close = %d, want 0", open)
	}

	// A write can only commit when no reader still holds a lock on the file.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Exec(`INSERT INTO users (username, email) VALUES ('carol', 'carol@example.com')`); err != nil {
		t.Fatalf("write after release failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit after release failed: %v", err)
	}

	rec, err := lookup(t, path, storagemodels.UserSchema, "carol")
	if err != nil {
		t.Fatalf("lookup after write failed: %v", err)
	}
	if rec.String("email") != "carol@example.com" {
		t.Errorf("unexpected record: %v", rec)
	}
}
