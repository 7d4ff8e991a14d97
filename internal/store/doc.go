// Package store defines the persistence contracts for users and products
// together with the error vocabulary every implementation must speak.
// Implementations live in internal/platform/sqlstore (Postgres and MySQL)
// and internal/store/memstore (in-process).
package store
