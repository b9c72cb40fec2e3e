// Package catalog persists extracted audio metadata in a SQLite database.
// Rows are keyed on absolute path; a (size, mod time) fingerprint per row
// lets the indexer skip files that have not changed since the last run.
package catalog
