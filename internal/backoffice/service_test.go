package backoffice_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/loandesk/internal/backoffice"
	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/database/dbtest"
	"github.com/edgard/loandesk/internal/loan"
	"github.com/edgard/loandesk/internal/messenger/messengertest"
	"github.com/edgard/loandesk/internal/notify"
)

var now = time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)

type env struct {
	store   database.Store
	rec     *messengertest.Recorder
	service *backoffice.Service
	owner   *database.Partner
}

func newEnv(t *testing.T, wrap func(database.Store) database.Store, rec *messengertest.Recorder) env {
	t.Helper()
	ctx := context.Background()
	base, _ := dbtest.NewSQLite(t)

	require.NoError(t, base.CreatePartner(ctx, &database.Partner{
		Name: "owner", ChannelID: "U-owner", ChannelKind: database.ChannelIndividual, CreatedAt: now,
	}))
	require.NoError(t, base.CreatePartner(ctx, &database.Partner{
		Name: "bank", ChannelID: "C-bank", ChannelKind: database.ChannelGroup, CreatedAt: now,
	}))
	owner, err := base.FindPartnerByChannel(ctx, "U-owner")
	require.NoError(t, err)

	require.NoError(t, base.CreateApplication(ctx, &database.Application{
		ID: "HL-2025-0100", CreatedAt: now, UpdatedAt: now, PartnerID: owner.ID,
		CustomerName: "นายสมชาย",
		LoanAmount:   decimal.NewNullDecimal(decimal.NewFromInt(5000000)),
		Status:       loan.InitialStatus, StatusGroup: loan.GroupPending,
	}))

	store := base
	if wrap != nil {
		store = wrap(base)
	}
	if rec == nil {
		rec = &messengertest.Recorder{}
	}
	clock := func() time.Time { return now.Add(time.Hour) }
	fanout := notify.NewFanout(notify.NewResolver(store, nil), store, rec, nil, clock)
	return env{
		store:   base,
		rec:     rec,
		service: backoffice.NewService(store, fanout, nil, clock),
		owner:   owner,
	}
}

func (e env) tag(t *testing.T, channelID string) {
	t.Helper()
	require.NoError(t, e.store.AppendConversationLog(context.Background(), &database.ConversationLog{
		CaseID:      sql.NullString{String: "HL-2025-0100", Valid: true},
		ChannelID:   channelID,
		Role:        database.RolePartner,
		Direction:   database.DirectionIncoming,
		ChannelKind: database.KindIndividualChat,
		MessageText: "#เช็คเคส HL-2025-0100",
		CreatedAt:   now,
	}))
}

func collateral(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestApplyStatusUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("approval computes ltv and notifies owner", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, nil)

		err := e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{
			ID:              "HL-2025-0100",
			Status:          loan.StatusApproved,
			CreditScore:     "745",
			OfficerName:     "คุณวิภา",
			CollateralValue: collateral(5460000),
		})
		require.NoError(t, err)

		app, err := e.store.GetApplicationByID(ctx, "HL-2025-0100")
		require.NoError(t, err)
		assert.Equal(t, loan.GroupApproved, app.StatusGroup)
		assert.Equal(t, "91.6%", app.LTV.String)
		assert.Equal(t, "745", app.CreditScore.String)

		assert.Equal(t, []messengertest.Delivery{{
			Target: "U-owner",
			Text: "📢 อัปเดตเคส\n" +
				"เลขเคส: HL-2025-0100\n" +
				"สถานะ: อนุมัติแล้ว\n" +
				"เครดิตสกอร์: 745\n" +
				"โดย: คุณวิภา",
		}}, e.rec.Pushes())
	})

	t.Run("negated approval without collateral keeps ltv", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, nil)
		require.NoError(t, e.store.UpdateApplicationStatus(ctx, database.StatusUpdate{
			ID: "HL-2025-0100", Status: loan.StatusAwaitingAppraise, StatusGroup: loan.GroupPending,
			CollateralValue: collateral(5000000), LTV: sql.NullString{String: "100%", Valid: true}, UpdatedAt: now,
		}))
		e.tag(t, "U-owner")
		e.tag(t, "C-bank")

		err := e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{
			ID:     "HL-2025-0100",
			Status: "ไม่อนุมัติ (รายได้ไม่พอ)",
		})
		require.NoError(t, err)

		app, err := e.store.GetApplicationByID(ctx, "HL-2025-0100")
		require.NoError(t, err)
		assert.Equal(t, loan.GroupRejected, app.StatusGroup)
		assert.Equal(t, "100%", app.LTV.String)
		assert.True(t, app.CollateralValue.Decimal.Equal(decimal.NewFromInt(5000000)))

		pushes := e.rec.Pushes()
		require.Len(t, pushes, 2)
		assert.Equal(t, "C-bank", pushes[0].Target)
		assert.Equal(t, "U-owner", pushes[1].Target)
		assert.Equal(t, "📢 อัปเดตเคส\nเลขเคส: HL-2025-0100\nสถานะ: ไม่อนุมัติ (รายได้ไม่พอ)\nเครดิตสกอร์: -\n", pushes[0].Text)

		logs, err := e.store.ListConversationLogs(ctx, "HL-2025-0100")
		require.NoError(t, err)
		assert.Len(t, logs, 4)
	})

	t.Run("empty status is pending", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, nil)

		require.NoError(t, e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{ID: "HL-2025-0100"}))

		app, err := e.store.GetApplicationByID(ctx, "HL-2025-0100")
		require.NoError(t, err)
		assert.Equal(t, loan.GroupPending, app.StatusGroup)
	})

	t.Run("unknown case", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, nil)

		err := e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{ID: "HL-2025-9999", Status: loan.StatusApproved})
		assert.ErrorIs(t, err, backoffice.ErrCaseNotFound)
		assert.Empty(t, e.rec.Pushes())
	})

	t.Run("missing id is invalid", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, nil)

		err := e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{Status: loan.StatusApproved})
		assert.ErrorIs(t, err, backoffice.ErrInvalidUpdate)
	})

	t.Run("persistence failure sends nothing", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, func(s database.Store) database.Store {
			return dbtest.FailingUpdate{Store: s}
		}, nil)

		err := e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{ID: "HL-2025-0100", Status: loan.StatusApproved})
		assert.ErrorIs(t, err, dbtest.ErrInjected)
		assert.Empty(t, e.rec.Pushes())
	})

	t.Run("delivery failure still succeeds", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, &messengertest.Recorder{FailPush: true})

		err := e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{ID: "HL-2025-0100", Status: loan.StatusAwaitingDocs})
		require.NoError(t, err)

		app, err := e.store.GetApplicationByID(ctx, "HL-2025-0100")
		require.NoError(t, err)
		assert.Equal(t, loan.StatusAwaitingDocs, app.Status)
	})
}

func TestListAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv(t, nil, nil)
	require.NoError(t, e.service.ApplyStatusUpdate(ctx, backoffice.StatusUpdate{ID: "HL-2025-0100", Status: loan.StatusApproved}))

	approved, err := e.service.List(ctx, "approved")
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	rejected, err := e.service.List(ctx, "rejected")
	require.NoError(t, err)
	assert.Empty(t, rejected)

	all, err := e.service.List(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	view, err := e.service.Get(ctx, "HL-2025-0100")
	require.NoError(t, err)
	assert.Equal(t, e.owner.ID, view.Partner.ID)
	assert.Len(t, view.Logs, 1)

	_, err = e.service.Get(ctx, "HL-2025-0404")
	assert.ErrorIs(t, err, backoffice.ErrCaseNotFound)
}

func TestPurge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("case and its logs", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, nil)
		e.tag(t, "U-owner")

		require.NoError(t, e.service.DeleteCase(ctx, "HL-2025-0100"))

		app, err := e.store.GetApplicationByID(ctx, "HL-2025-0100")
		require.NoError(t, err)
		assert.Nil(t, app)
		logs, err := e.store.ListConversationLogs(ctx, "HL-2025-0100")
		require.NoError(t, err)
		assert.Empty(t, logs)

		assert.NoError(t, e.service.DeleteCase(ctx, "HL-2025-0100"))
	})

	t.Run("partner", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t, nil, nil)

		require.NoError(t, e.service.DeletePartner(ctx, e.owner.ID))
		assert.ErrorIs(t, e.service.DeletePartner(ctx, e.owner.ID), backoffice.ErrPartnerNotFound)
	})
}
