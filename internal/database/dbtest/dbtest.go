// Package dbtest provides migrated in-memory stores and failure-injecting
// wrappers for tests.
package dbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/loandesk/internal/database"
)

// ErrInjected is returned by the failing wrappers.
var ErrInjected = errors.New("injected failure")

// NewSQLite returns a Store over a private in-memory SQLite database with
// all migrations applied. The database is closed when the test ends.
func NewSQLite(tb testing.TB) (database.Store, *sqlx.DB) {
	tb.Helper()

	db, err := database.Open(database.Options{
		Dialect: database.DialectSQLite,
		Path:    ":memory:",
	})
	if err != nil {
		tb.Fatalf("open in-memory sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	return database.NewStore(db, database.DialectSQLite, nil), db
}

// FailingCreateApplication fails every CreateApplication call.
type FailingCreateApplication struct {
	database.Store
}

func (FailingCreateApplication) CreateApplication(context.Context, *database.Application) error {
	return ErrInjected
}

// FailingPartners fails partner lookup and creation.
type FailingPartners struct {
	database.Store
}

func (FailingPartners) FindPartnerByChannel(context.Context, string) (*database.Partner, error) {
	return nil, ErrInjected
}

func (FailingPartners) CreatePartner(context.Context, *database.Partner) error {
	return ErrInjected
}

// FailingLookup fails every case lookup.
type FailingLookup struct {
	database.Store
}

func (FailingLookup) FindApplication(context.Context, string) (*database.Application, error) {
	return nil, ErrInjected
}

func (FailingLookup) GetApplicationByID(context.Context, string) (*database.Application, error) {
	return nil, ErrInjected
}

// FailingUpdate fails every status update.
type FailingUpdate struct {
	database.Store
}

func (FailingUpdate) UpdateApplicationStatus(context.Context, database.StatusUpdate) error {
	return ErrInjected
}

// FailingLogs fails every conversation log append.
type FailingLogs struct {
	database.Store
}

func (FailingLogs) AppendConversationLog(context.Context, *database.ConversationLog) error {
	return ErrInjected
}

// CollidingIDs reports ErrCaseIDTaken for the first Collisions inserts and
// then delegates.
type CollidingIDs struct {
	database.Store
	Collisions int
	Attempts   []string
}

func (c *CollidingIDs) CreateApplication(ctx context.Context, app *database.Application) error {
	c.Attempts = append(c.Attempts, app.ID)
	if len(c.Attempts) <= c.Collisions {
		return database.ErrCaseIDTaken
	}
	return c.Store.CreateApplication(ctx, app)
}
