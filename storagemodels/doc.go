/*
Package storagemodels defines the data structures shared by the lookup service and its store backends.

Key Types:

Locator:
A parsed store address. The scheme picks the backend:

	loc, _ := ParseLocator("/var/lib/app/users.db")                 // sqlite
	loc, _ := ParseLocator("postgres://app:secret@db:5432/app")      // postgres
	loc, _ := ParseLocator("dynamodb://users?region=eu-west-1")      // dynamodb

Schema:
The table, unique key field and record fields a lookup reads:

	schema := Schema{
	    Table:    "users",
	    KeyField: "username",
	    Fields:   []string{"username", "email"},
	}

Record:
One row keyed by field name, with a typed view for the users schema:

	user, err := UserFromRecord(rec)

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
