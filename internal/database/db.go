// Package database provides database setup, models, and the data access layer (Store).
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" //revive:disable:blank-imports
	"github.com/jmoiron/sqlx"

	"github.com/edgard/loandesk/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// Options configures the connection pool.
type Options struct {
	Dialect         Dialect
	Path            string // SQLite file path
	DSN             string // Postgres connection string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// dataSource returns the driver-specific connection string.
func (o Options) dataSource() (string, error) {
	switch o.Dialect {
	case DialectSQLite:
		if o.Path == "" {
			return "", errors.New("sqlite path is empty")
		}
		return o.Path, nil
	case DialectPostgres:
		if o.DSN == "" {
			return "", errors.New("postgres dsn is empty")
		}
		return o.DSN, nil
	default:
		return "", fmt.Errorf("unsupported database dialect %q", o.Dialect)
	}
}

// Connect opens a connection pool without touching the schema.
func Connect(opts Options) (*sqlx.DB, error) {
	dsn, err := opts.dataSource()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(opts.Dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Dialect == DialectSQLite {
		// SQLite serializes writers; a single connection also keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Open connects, applies pending migrations, and returns the pool.
func Open(opts Options) (*sqlx.DB, error) {
	db, err := Connect(opts)
	if err != nil {
		return nil, err
	}

	if err := ApplyMigrations(db.DB, opts.Dialect); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Error closing database after migration failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	slog.Info("Database connected and migrations applied successfully", "dialect", opts.Dialect)
	return db, nil
}

// CloseDB closes the database connection pool.
func CloseDB(db *sqlx.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Error("Error closing database connection", "error", err)
	} else {
		slog.Info("Database connection closed successfully.")
	}
}

// NewMigrator builds a migrate instance over the embedded migrations for the dialect.
// Closing the migrator closes db.
func NewMigrator(db *sql.DB, dialect Dialect) (*migrate.Migrate, error) {
	if db == nil {
		return nil, errors.New("database connection is nil, cannot run migrations")
	}

	sourceDriver, err := iofs.New(migrations.FS, dialect.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to create embed source driver instance: %w", err)
	}

	var migrator *migrate.Migrate
	switch dialect {
	case DialectSQLite:
		dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		migrator, err = migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
	case DialectPostgres:
		dbDriver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx migration driver: %w", err)
		}
		migrator, err = migrate.NewWithInstance("iofs", sourceDriver, "pgx5", dbDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}
	return migrator, nil
}

// ApplyMigrations runs every pending up migration.
func ApplyMigrations(db *sql.DB, dialect Dialect) error {
	slog.Info("Applying database migrations...", "dialect", dialect)

	migrator, err := NewMigrator(db, dialect)
	if err != nil {
		return err
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("No database migrations to apply.")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	slog.Info("Database migrations applied successfully.")
	return nil
}
