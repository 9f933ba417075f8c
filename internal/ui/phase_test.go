package ui

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseDisplayRenderProgress(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.RenderProgress("Fetching feed")

	output := buf.String()
	assert.Contains(t, output, SymbolProgress)
	assert.Contains(t, output, "Fetching feed...")
}

func TestPhaseDisplayRenderSuccess(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.RenderSuccess("Fetching feed", 300*time.Millisecond)

	output := buf.String()
	assert.Contains(t, output, SymbolComplete)
	assert.Contains(t, output, "Fetching feed")
	assert.Contains(t, output, "0.3s")
}

func TestPhaseDisplayRenderFailed(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	err := errors.New(errors.ErrTransport, "No response from feed at localhost:8000", "Is the feed running?")
	pd.RenderFailed("Fetching feed", 2300*time.Millisecond, err)

	output := buf.String()
	assert.Contains(t, output, SymbolFail)
	assert.Contains(t, output, "Fetching feed")
	assert.Contains(t, output, "2.3s")
	assert.Contains(t, output, "TRANSPORT: No response from feed at localhost:8000")
}

func TestPhaseDisplayRenderSkipped(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.RenderSkipped("Aggregating", "feed was empty")
	pd.RenderSkipped("Dispatch", "")

	output := buf.String()
	assert.Equal(t, 2, strings.Count(output, SymbolSkipped))
	assert.Contains(t, output, "(feed was empty)")
	assert.Equal(t, 1, strings.Count(output, "("))
}

func TestPhaseDisplayRenderSubStatus(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.RenderSubStatus(SymbolWarning, `record 3 (plant "powerplant2")`, "malformed time")

	output := buf.String()
	assert.Contains(t, output, SymbolWarning)
	assert.Contains(t, output, "powerplant2")
	assert.Contains(t, output, "malformed time")
	assert.True(t, strings.HasPrefix(output, "  "))
}

func TestPhaseDisplayRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		pd := NewPhaseDisplay(&buf)

		err := pd.Run("Aggregating", func() error { return nil })

		require.NoError(t, err)
		assert.Contains(t, buf.String(), SymbolComplete)
	})

	t.Run("failure is returned unchanged", func(t *testing.T) {
		var buf bytes.Buffer
		pd := NewPhaseDisplay(&buf)
		boom := stderrors.New("boom")

		err := pd.Run("Fetching feed", func() error { return boom })

		assert.Same(t, boom, err)
		assert.Contains(t, buf.String(), SymbolFail)
		assert.Contains(t, buf.String(), "boom")
	})
}

func TestPhaseDisplayDivider(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.Divider()

	assert.GreaterOrEqual(t, strings.Count(buf.String(), "━"), DividerWidth)
}

func TestFormatPhase(t *testing.T) {
	withTiming := FormatPhase(SymbolComplete, ColorSuccess, "Fetching feed", "0.3s")
	assert.Contains(t, withTiming, "Fetching feed")
	assert.Contains(t, withTiming, "0.3s")

	noTiming := FormatPhase(SymbolProgress, ColorSecondary, "Fetching feed", "")
	assert.True(t, strings.HasSuffix(noTiming, "Fetching feed"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}
