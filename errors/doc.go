/*
Package errors provides semantic error types for the userlookup module.

Every fault a store backend can raise is translated into one of the kinds
below before it leaves the lookup boundary. Kinds are checked with the
standard errors.Is() function or the provided helper functions; the
original driver error stays reachable through errors.Unwrap for logging.

Common Errors:

	var (
	    ErrNotFound       = errors.New("record not found")
	    ErrConnection     = errors.New("store unreachable")
	    ErrQuery          = errors.New("query rejected by store")
	    ErrMalformedStore = errors.New("malformed store contents")
	    ErrInvalidInput   = errors.New("invalid input")
	)

Usage:

	rec, err := conn.GetOne(ctx, schema, "alice")
	if err != nil {
	    switch {
	    case errors.IsNotFound(err):
	        // negative result, not a failure
	    case errors.IsConnection(err):
	        // store unreachable
	    default:
	        return err
	    }
	}

	// Create typed errors
	err := errors.NewConnectionError("/data/users.db", os.ErrNotExist)
	err := errors.NewQueryError("users", cause)
	err := errors.NewValidationError("key", "nil is not a valid lookup key")
*/
package errors
