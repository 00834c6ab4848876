/*
Package ddb provides a DynamoDB implementation of the datastore Opener.

Locators take the form:

	dynamodb://<table>?region=eu-west-1&endpoint=http://localhost:8000&key_template=USER%23{key}&index=<gsi>

Key Features:

Point lookups:
GetOne issues a strongly consistent GetItem on the schema key field and
projects only the schema fields.

Macro Expansion:
Stored keys can decorate the lookup key with a template:

	ddb.NewOpener(ddb.WithKeyTemplate("USER#{key}"))  // "alice" is read as "USER#alice"

The record returned to callers carries the undecorated key.

Secondary Indexes:
Tables keyed by something other than the lookup field can be read through
a global secondary index partitioned by it:

	dynamodb://accounts?index=UsernameIndex

Index reads are eventually consistent, and a key matching two items is
reported as a query error.

Errors:
Transport failures and rejected credentials are connection errors; a
missing table or a rejected request is a query error.
*/
package ddb
