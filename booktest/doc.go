// Package booktest declares the booktest data model (tags, authors, books
// and the book/tag association) on top of shelf, together with the sqlite
// migrations that create it and a Store to read and write it.
//
// Foreign keys are only enforced when the database is opened through
// sqlitefk, which every constructor here expects.
package booktest
