package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/loandesk/internal/bot/tasks"
	"github.com/edgard/loandesk/internal/config"
	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/database/dbtest"
	"github.com/edgard/loandesk/internal/logger"
)

type failingMaintenance struct {
	database.Store
}

func (failingMaintenance) RunMaintenance(context.Context) error {
	return dbtest.ErrInjected
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store, _ := dbtest.NewSQLite(t)
	cfg := &config.Config{}

	tests := []struct {
		name    string
		store   database.Store
		wantErr bool
	}{
		{name: "vacuum succeeds", store: store},
		{name: "store failure is reported", store: failingMaintenance{Store: store}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registered := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: logger.Discard(), Store: tt.store, Config: cfg})
			task, ok := registered[tasks.SQLMaintenance]
			require.True(t, ok)

			err := task(context.Background())
			if tt.wantErr {
				assert.True(t, errors.Is(err, dbtest.ErrInjected))
				return
			}
			assert.NoError(t, err)
		})
	}
}
