package cli

import (
	"context"
	"testing"
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runningController starts a controller over an empty feed.
func runningController(t *testing.T) *session.Controller {
	t.Helper()
	empty := session.FetcherFunc(func(ctx context.Context) (feed.Batch, error) {
		return feed.Batch{}, nil
	})
	ctrl := session.NewController(empty, session.NewStore(), session.WithInterval(time.Hour))
	require.NoError(t, ctrl.Start(context.Background()))
	t.Cleanup(ctrl.Stop)
	return ctrl
}

func TestApplyConfigChange(t *testing.T) {
	ctrl := runningController(t)
	log := logger.NewBufferLogger()

	t.Run("new interval applies", func(t *testing.T) {
		edited := config.DefaultConfig()
		edited.Poll.Interval = 12 * time.Second

		applyConfigChange(ctrl, log, edited, nil)
		assert.Equal(t, 12*time.Second, ctrl.Interval())
	})

	t.Run("invalid edit keeps the interval", func(t *testing.T) {
		log.Clear()
		applyConfigChange(ctrl, log, nil, errors.New(errors.ErrConfig, "Invalid config format", ""))

		assert.Equal(t, 12*time.Second, ctrl.Interval())
		assert.True(t, log.Contains("warn", "config reload rejected"))
	})

	t.Run("too short interval is refused", func(t *testing.T) {
		log.Clear()
		edited := config.DefaultConfig()
		edited.Poll.Interval = 10 * time.Millisecond

		applyConfigChange(ctrl, log, edited, nil)
		assert.Equal(t, 12*time.Second, ctrl.Interval())
		assert.True(t, log.Contains("warn", "poll interval not changed"))
	})
}

func TestApplyConfigChange_AfterStop(t *testing.T) {
	ctrl := runningController(t)
	ctrl.Stop()
	log := logger.NewBufferLogger()

	edited := config.DefaultConfig()
	edited.Poll.Interval = 12 * time.Second
	applyConfigChange(ctrl, log, edited, nil)

	assert.Equal(t, time.Hour, ctrl.Interval())
	assert.True(t, log.Contains("debug", "config change ignored"))
}

func TestDashboardCommand_NeedsTerminal(t *testing.T) {
	// go test's stdout is not a terminal
	err := dashboardCommand(t.Context(), DashboardOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}
