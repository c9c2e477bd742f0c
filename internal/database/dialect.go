package database

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Dialect selects the SQL flavour spoken by the configured driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect validates a configured driver name.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(name); d {
	case DialectSQLite, DialectPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// likeOperator is case-insensitive on both backends for ASCII input.
func (d Dialect) likeOperator() string {
	if d == DialectPostgres {
		return "ILIKE"
	}
	return "LIKE"
}

func (d Dialect) maintenanceStatement() string {
	if d == DialectPostgres {
		return "VACUUM ANALYZE"
	}
	return "VACUUM"
}

// migrationsDir is the directory inside migrations.FS holding this dialect's files.
func (d Dialect) migrationsDir() string {
	return string(d)
}
