// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It handles query
// execution, data mapping between domain entities and database records, and
// the translation of PostgreSQL error codes into store sentinel errors.
package postgres
