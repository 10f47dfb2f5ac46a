// Package sqlitefk registers a sqlite driver that runs hooks on every new
// connection, and ships one such hook enabling foreign-key enforcement.
//
// sqlite ignores declared REFERENCES clauses unless "PRAGMA foreign_keys"
// is on, and the setting is per connection. A pool opened through
// DriverName gets it on every connection it creates, so ON DELETE CASCADE
// and dangling-reference checks hold no matter which connection serves a
// statement.
//
//	db, err := sqlitefk.Open(ctx, "file:booktest.db")
package sqlitefk
