/*
Package userlookup looks up a single record by its unique key in a
persistent store and reports the result as a tagged Outcome.

Every lookup acquires its own connection, runs one parameterized point
query and releases the connection before returning, whatever the result:

  - Found: exactly one record matched the key, compared exactly
  - NotFound: no record matched; this is an expected result, not a fault
  - Error: the store could not be reached, rejected the query or is not
    a valid database

Stores are addressed by locator:

	/var/lib/app/users.db                       SQLite file
	postgres://app:secret@db:5432/app           PostgreSQL
	dynamodb://users?region=eu-west-1           DynamoDB table

Basic Usage:

	out := userlookup.Lookup(ctx, "/var/lib/app/users.db", "alice")
	switch out.Status {
	case userlookup.StatusFound:
	    user, _ := out.User()
	    fmt.Println(user.Username, user.Email)
	case userlookup.StatusNotFound:
	    fmt.Println("user not found")
	case userlookup.StatusError:
	    fmt.Println("lookup failed:", out.Kind(), out.Reason())
	}

A Service carries the schema, timeout, logger and backends:

	svc, err := userlookup.NewService(
	    userlookup.WithTimeout(2*time.Second),
	    userlookup.WithOpener("mem", mock.New()),
	)
*/
package userlookup
