package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var simNow = time.Date(2025, 3, 4, 14, 37, 42, 0, time.UTC)

// simulatedFeed serves the default simulated fleet and returns a config
// pointing at it.
func simulatedFeed(t *testing.T) *config.Config {
	t.Helper()
	gen := simulator.NewGenerator(7)
	srv := httptest.NewServer(simulator.NewServer(gen, simulator.WithClock(func() time.Time { return simNow })).Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Feed.URL = srv.URL
	cfg.Feed.Timeout = 5 * time.Second
	return cfg
}

func withMachineMode(t *testing.T, on bool) {
	t.Helper()
	old := machineMode
	machineMode = on
	t.Cleanup(func() { machineMode = old })
}

func TestRunSnapshot_Table(t *testing.T) {
	withMachineMode(t, false)
	cfg := simulatedFeed(t)

	var stdout, stderr bytes.Buffer
	err := runSnapshot(context.Background(), cfg, SnapshotOptions{}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "PLANT")
	assert.Contains(t, out, "Power Plant 1")
	assert.Contains(t, out, "Power Plant 6")
	assert.NotContains(t, out, "Power Plant 1 *", "no plant is marked without --plant")
	assert.Contains(t, stderr.String(), "Polling "+cfg.Feed.URL)
}

func TestRunSnapshot_Plant(t *testing.T) {
	withMachineMode(t, false)
	cfg := simulatedFeed(t)

	var stdout, stderr bytes.Buffer
	err := runSnapshot(context.Background(), cfg, SnapshotOptions{Plant: "powerplant2"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Power Plant 2 *")
	assert.Contains(t, out, "measurements)")
	assert.Contains(t, out, "Net MW")
}

func TestRunSnapshot_UnknownPlant(t *testing.T) {
	withMachineMode(t, false)
	cfg := simulatedFeed(t)

	var stdout, stderr bytes.Buffer
	err := runSnapshot(context.Background(), cfg, SnapshotOptions{Plant: "powerplant42"}, &stdout, &stderr)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "powerplant1")
	assert.Empty(t, stdout.String())
}

func TestRunSnapshot_JSON(t *testing.T) {
	withMachineMode(t, true)
	cfg := simulatedFeed(t)

	var stdout, stderr bytes.Buffer
	err := runSnapshot(context.Background(), cfg, SnapshotOptions{Plant: "powerplant3"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stderr.String(), "machine mode prints no progress")

	var env struct {
		Success bool           `json:"success"`
		Data    SnapshotOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Equal(t, cfg.Feed.URL, env.Data.Feed)
	assert.Len(t, env.Data.Plants, len(simulator.DefaultPlants))
	assert.Greater(t, env.Data.Total, 0.0)
	require.NotNil(t, env.Data.Selected)
	assert.Equal(t, "powerplant3", env.Data.Selected.Plant.ID)
	assert.NotEmpty(t, env.Data.Selected.Points)
	for _, p := range env.Data.Selected.Points {
		assert.Equal(t, "powerplant3", p.PlantID)
	}
}

func TestRunSnapshot_FeedDown(t *testing.T) {
	withMachineMode(t, false)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Feed.URL = srv.URL

	var stdout, stderr bytes.Buffer
	err := runSnapshot(context.Background(), cfg, SnapshotOptions{}, &stdout, &stderr)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrStatus))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Polling")
}

func TestSnapshotOutput_EmptyFeedHasPlantsArray(t *testing.T) {
	withMachineMode(t, true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Feed.URL = srv.URL

	var stdout, stderr bytes.Buffer
	require.NoError(t, runSnapshot(context.Background(), cfg, SnapshotOptions{}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), `"plants": []`)
}
