package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSelection(t *testing.T) {
	res := result(
		raw("alpha", "10:00:00", 1),
		raw("beta", "10:00:00", 2),
		raw("alpha", "10:01:00", 3),
	)

	tests := []struct {
		name        string
		selected    string
		wantSummary string
		wantGen     []float64
	}{
		{name: "nothing selected", selected: ""},
		{name: "unknown plant", selected: "gamma"},
		{name: "alpha", selected: "alpha", wantSummary: "alpha", wantGen: []float64{1, 3}},
		{name: "beta", selected: "beta", wantSummary: "beta", wantGen: []float64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{Summaries: res.Summaries, Details: res.Details, SelectedPlantID: tt.selected}

			sel := GetSelection(st)

			require.NotNil(t, sel.Details)
			if tt.wantSummary == "" {
				assert.Nil(t, sel.Summary)
				assert.Empty(t, sel.Details)
				return
			}
			require.NotNil(t, sel.Summary)
			assert.Equal(t, tt.wantSummary, sel.Summary.ID)
			gens := make([]float64, 0, len(sel.Details))
			for _, d := range sel.Details {
				assert.Equal(t, tt.selected, d.PlantID)
				gens = append(gens, d.NetGeneration)
			}
			assert.Equal(t, tt.wantGen, gens)
		})
	}
}

func TestGetSelection_EmptyState(t *testing.T) {
	sel := GetSelection(State{SelectedPlantID: "alpha"})

	assert.Nil(t, sel.Summary)
	assert.Empty(t, sel.Details)
}

func TestGetSelection_SummaryIsACopy(t *testing.T) {
	res := result(raw("alpha", "10:00:00", 1))
	st := State{Summaries: res.Summaries, Details: res.Details, SelectedPlantID: "alpha"}

	sel := st.Selection()
	sel.Summary.NetGeneration = 999

	assert.Equal(t, 1.0, st.Summaries[0].NetGeneration)
}

func TestState_SelectedIndex(t *testing.T) {
	res := result(raw("alpha", "10:00:00", 1), raw("beta", "10:00:00", 2))

	assert.Equal(t, 1, State{Summaries: res.Summaries, SelectedPlantID: "beta"}.SelectedIndex())
	assert.Equal(t, -1, State{Summaries: res.Summaries, SelectedPlantID: "gamma"}.SelectedIndex())
	assert.Equal(t, -1, State{Summaries: res.Summaries}.SelectedIndex())
}
