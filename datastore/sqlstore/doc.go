/*
Package sqlstore provides database/sql implementations of the datastore Opener.

Two dialects are supported:
  - SQLite files through modernc.org/sqlite (pure Go, no cgo)
  - PostgreSQL through github.com/jackc/pgx/v5/stdlib

Each Open builds a private single-connection pool and pings it, so a
lookup owns its connection from acquisition to Close. SQLite files are
opened read-only and must already exist; a missing path is a connection
error rather than a freshly created empty database.

The point query is assembled from validated schema identifiers only and
binds the key as a parameter:

	SELECT "username", "email" FROM "users" WHERE "username" = ? LIMIT 1

Driver errors are translated into the kinds of the errors package:
unreadable database files become malformed-store errors, refused or
unauthorized connections become connection errors and anything the
engine rejects at query time becomes a query error.
*/
package sqlstore
