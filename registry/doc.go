/*
Package registry resolves store locators to Openers and names record schemas.

Opener Registry:
Maps locator schemes to the backend that serves them:

	reg := registry.New()
	reg.Register(storagemodels.SchemeSQLite, sqlstore.NewSQLiteOpener())
	opener, loc, err := reg.Resolve("sqlite:///var/lib/app/users.db")

Schema Registry:
Maps record type names to the table and fields read for them. The "users"
schema is registered at init:

	schema, err := registry.GetSchema("users")

Both registries are thread-safe. Schemas should be registered during
initialization, typically in init() functions.
*/
package registry
