/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	stderrors "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/storagemodels"
)

// classify maps a driver error onto the lookup error kinds. Errors the
// drivers do not describe fall back to the phase they surfaced in.
func classify(phase errors.Phase, loc storagemodels.Locator, table string, err error) error {
	if err == nil {
		return nil
	}
	locator := loc.Redacted()

	if errors.IsContextDone(err) {
		return errors.NewConnectionError(locator, err)
	}

	var liteErr *sqlite.Error
	if stderrors.As(err, &liteErr) {
		// Extended result codes carry the primary code in the low byte.
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return errors.NewMalformedStoreError(locator, err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH:
			return errors.NewConnectionError(locator, err)
		default:
			return errors.NewQueryError(table, err)
		}
	}

	var connectErr *pgconn.ConnectError
	if stderrors.As(err, &connectErr) {
		return errors.NewConnectionError(locator, err)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch {
		// 08: connection exception, 28: invalid authorization, 3D000: unknown database
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "28"), pgErr.Code == "3D000":
			return errors.NewConnectionError(locator, err)
		// XX001: data corrupted, XX002: index corrupted
		case pgErr.Code == "XX001", pgErr.Code == "XX002":
			return errors.NewMalformedStoreError(locator, err)
		default:
			return errors.NewQueryError(table, err)
		}
	}

	return errors.Classify(phase, locator, table, err)
}
