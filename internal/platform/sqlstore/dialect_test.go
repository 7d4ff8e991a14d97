package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	t.Parallel()

	d, err := DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "pgx", d.DriverName)
	assert.True(t, d.SupportsReturning())

	d, err = DialectFor("mysql")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.DriverName)
	assert.False(t, d.SupportsReturning())

	_, err = DialectFor("memory")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	t.Parallel()

	query := "UPDATE users SET name = ?, email = ? WHERE id = ?"
	assert.Equal(t, "UPDATE users SET name = $1, email = $2 WHERE id = $3", Postgres.Rebind(query))
	assert.Equal(t, query, MySQL.Rebind(query))
	assert.Equal(t, "SELECT 1", Postgres.Rebind("SELECT 1"))
}

func TestPrepareDSN(t *testing.T) {
	t.Parallel()

	pg := "postgres://u:p@localhost:5432/db?sslmode=disable"
	assert.Equal(t, pg, Postgres.PrepareDSN(pg))

	assert.Equal(t,
		"u:p@tcp(localhost:3306)/db?parseTime=true&clientFoundRows=true",
		MySQL.PrepareDSN("u:p@tcp(localhost:3306)/db"))

	assert.Equal(t,
		"u:p@tcp(localhost:3306)/db?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		MySQL.PrepareDSN("u:p@tcp(localhost:3306)/db?parseTime=true&charset=utf8mb4"))
}
