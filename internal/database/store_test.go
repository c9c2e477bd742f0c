package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/database/dbtest"
	"github.com/edgard/loandesk/internal/loan"
)

var baseTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func seedPartner(t *testing.T, store database.Store, channelID, kind string) *database.Partner {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.CreatePartner(ctx, &database.Partner{
		Name:        "partner-" + channelID,
		ChannelID:   channelID,
		ChannelKind: kind,
		CreatedAt:   baseTime,
	}))
	partner, err := store.FindPartnerByChannel(ctx, channelID)
	require.NoError(t, err)
	require.NotNil(t, partner)
	return partner
}

func seedApplication(t *testing.T, store database.Store, id, customer string, partnerID int64, created time.Time) {
	t.Helper()
	require.NoError(t, store.CreateApplication(context.Background(), &database.Application{
		ID:           id,
		CreatedAt:    created,
		UpdatedAt:    created,
		PartnerID:    partnerID,
		CustomerName: customer,
		LoanAmount:   decimal.NewNullDecimal(decimal.NewFromInt(5000000)),
		Status:       loan.InitialStatus,
		StatusGroup:  loan.GroupPending,
	}))
}

func appendLog(t *testing.T, store database.Store, caseID, channelID string) {
	t.Helper()
	require.NoError(t, store.AppendConversationLog(context.Background(), &database.ConversationLog{
		CaseID:      sql.NullString{String: caseID, Valid: caseID != ""},
		ChannelID:   channelID,
		Role:        database.RolePartner,
		Direction:   database.DirectionIncoming,
		ChannelKind: database.KindIndividualChat,
		MessageText: "#เช็คเคส " + caseID,
	}))
}

func TestPartners(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("insert is idempotent per channel", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)

		first := seedPartner(t, store, "U100", database.ChannelIndividual)
		require.NoError(t, store.CreatePartner(ctx, &database.Partner{
			Name: "someone else", ChannelID: "U100", ChannelKind: database.ChannelIndividual, CreatedAt: baseTime,
		}))

		again, err := store.FindPartnerByChannel(ctx, "U100")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, "partner-U100", again.Name)
	})

	t.Run("missing partner reads as nil", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)

		partner, err := store.FindPartnerByChannel(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, partner)

		byID, err := store.FindPartnerByID(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, byID)
	})

	t.Run("delete cascades to channel logs", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)

		partner := seedPartner(t, store, "U200", database.ChannelIndividual)
		seedApplication(t, store, "HL-2025-0001", "นายสมชาย", partner.ID, baseTime)
		appendLog(t, store, "HL-2025-0001", "U200")

		require.NoError(t, store.DeletePartner(ctx, partner.ID))

		gone, err := store.FindPartnerByID(ctx, partner.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		logs, err := store.ListConversationLogs(ctx, "HL-2025-0001")
		require.NoError(t, err)
		assert.Empty(t, logs)

		assert.ErrorIs(t, store.DeletePartner(ctx, partner.ID), database.ErrNotFound)
	})
}

func TestApplications(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip keeps amounts and nulls", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)
		partner := seedPartner(t, store, "U1", database.ChannelIndividual)

		require.NoError(t, store.CreateApplication(ctx, &database.Application{
			ID:            "HL-2025-1234",
			CreatedAt:     baseTime,
			UpdatedAt:     baseTime,
			PartnerID:     partner.ID,
			PartnerName:   sql.NullString{String: partner.Name, Valid: true},
			BankName:      sql.NullString{String: "KBank", Valid: true},
			CustomerName:  "นายสมชาย",
			MonthlyIncome: decimal.NewNullDecimal(decimal.RequireFromString("85000.50")),
			Status:        loan.InitialStatus,
			StatusGroup:   loan.GroupPending,
		}))

		app, err := store.GetApplicationByID(ctx, "HL-2025-1234")
		require.NoError(t, err)
		require.NotNil(t, app)
		assert.Equal(t, "นายสมชาย", app.CustomerName)
		assert.Equal(t, "KBank", app.BankName.String)
		assert.True(t, app.MonthlyIncome.Valid)
		assert.True(t, app.MonthlyIncome.Decimal.Equal(decimal.RequireFromString("85000.5")))
		assert.False(t, app.LoanAmount.Valid)
		assert.False(t, app.CollateralValue.Valid)
		assert.False(t, app.LTV.Valid)
		assert.False(t, app.CreditScore.Valid)
		assert.Equal(t, loan.GroupPending, app.StatusGroup)
		assert.True(t, app.CreatedAt.Equal(baseTime))
	})

	t.Run("id collision is reported", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)
		partner := seedPartner(t, store, "U1", database.ChannelIndividual)
		seedApplication(t, store, "HL-2025-0007", "A", partner.ID, baseTime)

		err := store.CreateApplication(ctx, &database.Application{
			ID: "HL-2025-0007", CreatedAt: baseTime, UpdatedAt: baseTime, PartnerID: partner.ID,
			CustomerName: "B", Status: loan.InitialStatus, StatusGroup: loan.GroupPending,
		})
		assert.ErrorIs(t, err, database.ErrCaseIDTaken)

		app, err := store.GetApplicationByID(ctx, "HL-2025-0007")
		require.NoError(t, err)
		assert.Equal(t, "A", app.CustomerName)
	})

	t.Run("find prefers exact id then name substring", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)
		partner := seedPartner(t, store, "U1", database.ChannelIndividual)
		seedApplication(t, store, "HL-2025-0001", "นายสมชาย ใจดี", partner.ID, baseTime)
		seedApplication(t, store, "HL-2025-0002", "Jane HL-2025-0001", partner.ID, baseTime.Add(time.Hour))

		byID, err := store.FindApplication(ctx, "HL-2025-0001")
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "HL-2025-0001", byID.ID)

		byName, err := store.FindApplication(ctx, "สมชาย")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, "HL-2025-0001", byName.ID)

		ci, err := store.FindApplication(ctx, "jane")
		require.NoError(t, err)
		require.NotNil(t, ci)
		assert.Equal(t, "HL-2025-0002", ci.ID)

		wildcard, err := store.FindApplication(ctx, "%")
		require.NoError(t, err)
		assert.Nil(t, wildcard)

		none, err := store.FindApplication(ctx, "ไม่มีคนนี้")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("list is newest first and filters by group", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)
		partner := seedPartner(t, store, "U1", database.ChannelIndividual)
		seedApplication(t, store, "HL-2025-0001", "A", partner.ID, baseTime)
		seedApplication(t, store, "HL-2025-0002", "B", partner.ID, baseTime.Add(time.Minute))
		seedApplication(t, store, "HL-2025-0003", "C", partner.ID, baseTime.Add(2*time.Minute))

		require.NoError(t, store.UpdateApplicationStatus(ctx, database.StatusUpdate{
			ID: "HL-2025-0002", Status: loan.StatusApproved, StatusGroup: loan.GroupApproved, UpdatedAt: baseTime,
		}))

		all, err := store.ListApplications(ctx, database.ApplicationFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"HL-2025-0003", "HL-2025-0002", "HL-2025-0001"},
			[]string{all[0].ID, all[1].ID, all[2].ID})

		approved, err := store.ListApplications(ctx, database.ApplicationFilter{StatusGroup: string(loan.GroupApproved)})
		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, "HL-2025-0002", approved[0].ID)
	})

	t.Run("status update keeps collateral and ltv when absent", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)
		partner := seedPartner(t, store, "U1", database.ChannelIndividual)
		seedApplication(t, store, "HL-2025-0001", "A", partner.ID, baseTime)
		later := baseTime.Add(time.Hour)

		require.NoError(t, store.UpdateApplicationStatus(ctx, database.StatusUpdate{
			ID:              "HL-2025-0001",
			Status:          loan.StatusAwaitingAppraise,
			StatusGroup:     loan.GroupPending,
			CreditScore:     sql.NullString{String: "720", Valid: true},
			CollateralValue: decimal.NewNullDecimal(decimal.NewFromInt(5460000)),
			LTV:             sql.NullString{String: "91.6%", Valid: true},
			UpdatedAt:       later,
		}))
		require.NoError(t, store.UpdateApplicationStatus(ctx, database.StatusUpdate{
			ID:          "HL-2025-0001",
			Status:      "ไม่อนุมัติ เนื่องจากรายได้ไม่พอ",
			StatusGroup: loan.GroupRejected,
			OfficerName: sql.NullString{String: "คุณวิภา", Valid: true},
			UpdatedAt:   later,
		}))

		app, err := store.GetApplicationByID(ctx, "HL-2025-0001")
		require.NoError(t, err)
		assert.Equal(t, loan.GroupRejected, app.StatusGroup)
		assert.Equal(t, "91.6%", app.LTV.String)
		assert.True(t, app.CollateralValue.Decimal.Equal(decimal.NewFromInt(5460000)))
		assert.False(t, app.CreditScore.Valid)
		assert.Equal(t, "คุณวิภา", app.OfficerName.String)
		assert.True(t, app.LastStatusUpdated.Valid)
	})

	t.Run("writes on missing cases report not found", func(t *testing.T) {
		t.Parallel()
		store, _ := dbtest.NewSQLite(t)

		err := store.UpdateApplicationStatus(ctx, database.StatusUpdate{ID: "HL-2025-9999", Status: "x", UpdatedAt: baseTime})
		assert.True(t, errors.Is(err, database.ErrNotFound))
		assert.ErrorIs(t, store.DeleteApplication(ctx, "HL-2025-9999"), database.ErrNotFound)
		assert.NoError(t, store.DeleteLogsForCase(ctx, "HL-2025-9999"))
	})
}

func TestResolveChannelsForCase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := dbtest.NewSQLite(t)

	owner := seedPartner(t, store, "U1", database.ChannelIndividual)
	seedPartner(t, store, "C9", database.ChannelGroup)
	seedApplication(t, store, "HL-2025-0001", "A", owner.ID, baseTime)

	appendLog(t, store, "HL-2025-0001", "U1")
	appendLog(t, store, "HL-2025-0001", "U1")
	appendLog(t, store, "HL-2025-0001", "C9")
	appendLog(t, store, "HL-2025-0002", "U1")
	appendLog(t, store, "HL-2025-0001", "U-unknown")

	channels, err := store.ResolveChannelsForCase(ctx, "HL-2025-0001")
	require.NoError(t, err)
	assert.Equal(t, []database.Channel{
		{ID: "C9", Kind: database.ChannelGroup},
		{ID: "U1", Kind: database.ChannelIndividual},
	}, channels)
	assert.Equal(t, database.KindGroupChat, channels[0].ConversationKind())

	none, err := store.ResolveChannelsForCase(ctx, "HL-2025-0404")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, store.DeleteLogsForCase(ctx, "HL-2025-0001"))
	after, err := store.ResolveChannelsForCase(ctx, "HL-2025-0001")
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestRunMaintenance(t *testing.T) {
	t.Parallel()
	store, _ := dbtest.NewSQLite(t)

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.RunMaintenance(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, store.RunMaintenance(ctx))
}
