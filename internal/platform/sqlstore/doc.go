// Package sqlstore implements the store interfaces on top of database/sql.
//
// Two dialects are supported: Postgres through the pgx stdlib driver and
// MySQL through go-sql-driver/mysql. Queries are written once with '?'
// placeholders and rebound per dialect. All queries are parameterized;
// only column names from fixed tables are ever spliced into SQL text.
// Schema changes are goose migrations embedded in the binary.
package sqlstore
