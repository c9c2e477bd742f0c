package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrCaseIDTaken is returned by CreateApplication when the id already exists.
	ErrCaseIDTaken = errors.New("case id already taken")
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
)

// Store defines the interface for database operations.
// Reads that find nothing return nil, nil.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// FindPartnerByChannel returns the partner bound to a chat channel.
	FindPartnerByChannel(ctx context.Context, channelID string) (*Partner, error)

	// CreatePartner inserts a partner, ignoring the insert when the channel is already bound.
	CreatePartner(ctx context.Context, partner *Partner) error

	// FindPartnerByID returns a partner by primary key.
	FindPartnerByID(ctx context.Context, id int64) (*Partner, error)

	// CreateApplication inserts a new case. Returns ErrCaseIDTaken on id collision.
	CreateApplication(ctx context.Context, app *Application) error

	// FindApplication looks a case up by exact id or by a customer name substring.
	// An exact id match wins over name matches.
	FindApplication(ctx context.Context, query string) (*Application, error)

	// GetApplicationByID returns a case by id.
	GetApplicationByID(ctx context.Context, id string) (*Application, error)

	// ListApplications returns all cases newest first, optionally restricted to a status group.
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]Application, error)

	// UpdateApplicationStatus writes officer-controlled fields. Returns ErrNotFound when the case is missing.
	UpdateApplicationStatus(ctx context.Context, update StatusUpdate) error

	// AppendConversationLog appends a conversation log line.
	AppendConversationLog(ctx context.Context, entry *ConversationLog) error

	// ResolveChannelsForCase returns the distinct partner channels that talked about a case.
	ResolveChannelsForCase(ctx context.Context, caseID string) ([]Channel, error)

	// ListConversationLogs returns the log lines tagged with a case, oldest first.
	ListConversationLogs(ctx context.Context, caseID string) ([]ConversationLog, error)

	// DeleteApplication removes a case. Returns ErrNotFound when the case is missing.
	DeleteApplication(ctx context.Context, id string) error

	// DeleteLogsForCase removes every log line tagged with a case.
	DeleteLogsForCase(ctx context.Context, caseID string) error

	// DeletePartner removes a partner and the log lines of its channel in one transaction.
	DeletePartner(ctx context.Context, id int64) error

	// RunMaintenance performs database maintenance such as VACUUM.
	RunMaintenance(ctx context.Context) error
}

// ApplicationFilter narrows ListApplications. The zero value lists everything.
type ApplicationFilter struct {
	StatusGroup string
}

// sqlxStore implements Store on top of sqlx with squirrel-built queries.
type sqlxStore struct {
	db      *sqlx.DB
	dialect Dialect
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

// NewStore creates a new Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, dialect Dialect, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.placeholder()),
		logger:  logger.With("component", "store", "dialect", string(dialect)),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// get runs a single-row select. Returns false when no row matched.
func (s *sqlxStore) get(ctx context.Context, dest any, query sq.Sqlizer) (bool, error) {
	stmt, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}
	err = s.db.GetContext(ctx, dest, stmt, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqlxStore) selectAll(ctx context.Context, dest any, query sq.Sqlizer) error {
	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return s.db.SelectContext(ctx, dest, stmt, args...)
}

func (s *sqlxStore) exec(ctx context.Context, ext sqlx.ExecerContext, query sq.Sqlizer) (int64, error) {
	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	result, err := ext.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (s *sqlxStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// logFailure logs a failed operation at warn for cancellations and error otherwise.
func (s *sqlxStore) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, msg+" (cancelled)", args...)
		return
	}
	s.logger.ErrorContext(ctx, msg, args...)
}

// RunMaintenance reclaims space and refreshes planner statistics.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	stmt := s.dialect.maintenanceStatement()
	s.logger.InfoContext(ctx, "Starting database maintenance", "statement", stmt)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		s.logFailure(ctx, "Database maintenance failed", err)
		return fmt.Errorf("failed to execute %s: %w", stmt, err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
