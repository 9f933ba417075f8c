package dashboard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMinMax(t *testing.T) {
	minVal, maxVal := findMinMax(nil)
	assert.Equal(t, 0.0, minVal)
	assert.Equal(t, 0.0, maxVal)

	minVal, maxVal = findMinMax([]float64{320, -5, 470.5, 12})
	assert.Equal(t, -5.0, minVal)
	assert.Equal(t, 470.5, maxVal)
}

func TestChartBounds(t *testing.T) {
	tests := []struct {
		name           string
		data           []float64
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{"inside limits", []float64{250, 300}, 200, 500, 200, 500},
		{"above upper", []float64{250, 550}, 200, 500, 200, 550},
		{"below lower", []float64{150, 300}, 200, 500, 150, 500},
		{"no data", nil, 200, 500, 200, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := chartBounds(tt.data, tt.lo, tt.hi)
			assert.Equal(t, tt.wantLo, lo)
			assert.Equal(t, tt.wantHi, hi)
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, 0.0, normalizeValue(200, 200, 500))
	assert.Equal(t, 1.0, normalizeValue(500, 200, 500))
	assert.InDelta(t, 0.5, normalizeValue(350, 200, 500), 1e-9)
	assert.Equal(t, 0.5, normalizeValue(42, 10, 10), "flat range maps to the middle")
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, clampInt(-3, 8))
	assert.Equal(t, 5, clampInt(5, 8))
	assert.Equal(t, 8, clampInt(12, 8))
}

func TestResampleData(t *testing.T) {
	tests := []struct {
		name   string
		data   []float64
		target int
		want   []float64
	}{
		{"empty", nil, 4, nil},
		{"zero target", []float64{1, 2}, 0, nil},
		{"same size", []float64{1, 2, 3}, 3, []float64{1, 2, 3}},
		{"single value fills", []float64{7}, 3, []float64{7, 7, 7}},
		{"downsample keeps peaks", []float64{1, 5, 2, 8}, 2, []float64{5, 8}},
		{"upsample interpolates", []float64{0, 10}, 3, []float64{0, 5, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resampleData(tt.data, tt.target)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RenderSparkline(nil, 10, 0, 100))
		assert.Empty(t, RenderSparkline([]float64{1}, 0, 0, 100))
	})

	t.Run("scales between limits", func(t *testing.T) {
		out := RenderSparkline([]float64{200, 500}, 2, 200, 500)
		assert.Contains(t, out, "▁█")
		assert.Equal(t, 2, lipgloss.Width(out))
	})

	t.Run("fills the width", func(t *testing.T) {
		data := []float64{300, 310, 320, 330, 340, 350, 360, 370, 380, 390, 400, 410}
		out := RenderSparkline(data, 30, 200, 500)
		assert.Equal(t, 30, lipgloss.Width(out))
	})

	t.Run("colored by last value", func(t *testing.T) {
		// 210 sits inside the lower margin of a 200-500 band
		out := RenderSparkline([]float64{350, 210}, 4, 200, 500)
		assert.Contains(t, out, "38;2;255;170;0")
	})
}

func TestRenderBrailleChart(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RenderBrailleChart(nil, 10, 2, 0, 100, ColorGraph))
		assert.Empty(t, RenderBrailleChart([]float64{1}, 10, 0, 0, 100, ColorGraph))
	})

	t.Run("dimensions", func(t *testing.T) {
		out := RenderBrailleChart([]float64{250, 300, 280, 400}, 12, 3, 200, 500, ColorGraph)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.Equal(t, 12, lipgloss.Width(line))
		}
	})

	t.Run("values at the top fill every dot", func(t *testing.T) {
		out := RenderBrailleChart([]float64{100, 100}, 1, 2, 0, 100, ColorGraph)
		assert.Equal(t, 2, strings.Count(out, "⣿"))
	})

	t.Run("values at the floor stay visible", func(t *testing.T) {
		out := RenderBrailleChart([]float64{0, 0}, 1, 1, 0, 100, ColorGraph)
		assert.Contains(t, out, "⣀")
	})

	t.Run("short series is right aligned", func(t *testing.T) {
		out := RenderBrailleChart([]float64{100, 100}, 3, 1, 0, 100, ColorGraph)
		assert.Contains(t, out, "\u2800\u2800⣿")
	})
}
