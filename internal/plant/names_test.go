package plant

import (
	"testing"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"powerplant1", "Power Plant 1"},
		{"powerplant12", "Power Plant 12"},
		{"alpha", "Alpha"},
		{"bigplant", "Big Plant"},
		{"plant", "Plant"},
		{"éclair", "Éclair"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.key))
		})
	}
}

func TestClockTime(t *testing.T) {
	tests := []struct {
		name    string
		ts      string
		want    string
		wantErr bool
	}{
		{name: "dash date", ts: "2024-01-01 10:05:00", want: "10:05"},
		{name: "slash date", ts: "2025/03/04 23:59:59", want: "23:59"},
		{name: "minute precision input", ts: "2025/03/04 07:30", want: "07:30"},
		{name: "fractional seconds", ts: "2025/03/04 07:30:12.345", want: "07:30"},
		{name: "no space", ts: "2025-03-04T07:30:00", wantErr: true},
		{name: "empty", ts: "", wantErr: true},
		{name: "too short", ts: "2025/03/04 7:30", wantErr: true},
		{name: "non numeric", ts: "2025/03/04 ab:cd:ef", wantErr: true},
		{name: "missing colon", ts: "2025/03/04 1030", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClockTime(tt.ts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrPayload))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
