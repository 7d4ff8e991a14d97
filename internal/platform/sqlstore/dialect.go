package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// Dialect captures the differences between the supported SQL databases.
type Dialect struct {
	// Name is the configured driver name and the migrations sub-directory.
	Name string
	// DriverName is the database/sql driver registered for this dialect.
	DriverName string
	// GooseDialect is the dialect name understood by goose.
	GooseDialect string

	placeholder byte
	returning   bool
}

var (
	// Postgres uses $n placeholders and INSERT ... RETURNING.
	Postgres = Dialect{
		Name:         "postgres",
		DriverName:   "pgx",
		GooseDialect: "postgres",
		placeholder:  '$',
		returning:    true,
	}

	// MySQL uses ? placeholders and LastInsertId.
	MySQL = Dialect{
		Name:         "mysql",
		DriverName:   "mysql",
		GooseDialect: "mysql",
		placeholder:  '?',
		returning:    false,
	}
)

// DialectFor returns the dialect for a configured database driver.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.Name:
		return Postgres, nil
	case MySQL.Name:
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Rebind rewrites '?' placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d.placeholder == '?' {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		b.WriteByte(d.placeholder)
		b.WriteString(strconv.Itoa(n))
		n++
	}
	return b.String()
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
func (d Dialect) SupportsReturning() bool {
	return d.returning
}

// PrepareDSN adjusts a configured URL so the driver behaves the way the
// stores expect. For MySQL that means parsed time values and "rows matched"
// semantics for RowsAffected, so an UPDATE that leaves a row unchanged is
// not mistaken for a missing row.
func (d Dialect) PrepareDSN(dsn string) string {
	if d.Name != MySQL.Name {
		return dsn
	}
	for _, opt := range []string{"parseTime=true", "clientFoundRows=true"} {
		key := opt[:strings.IndexByte(opt, '=')+1]
		if strings.Contains(dsn, key) {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + opt
		} else {
			dsn += "?" + opt
		}
	}
	return dsn
}
