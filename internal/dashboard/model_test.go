package dashboard

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	pderrors "github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/session"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Force TrueColor output in tests so we can verify ANSI color codes
	lipgloss.SetColorProfile(termenv.TrueColor)
}

var t0 = time.Date(2025, 3, 4, 14, 37, 30, 0, time.UTC)

func measurement(key, clock string, gen float64) plant.RawMeasurement {
	return plant.RawMeasurement{
		PlantKey:       key,
		Timestamp:      "2025/03/04 " + clock,
		NetGeneration:  gen,
		DispatchTarget: 400,
		MaxCapability:  600,
		UpperLimit:     500,
		LowerLimit:     200,
		RampRate:       50,
	}
}

func fleet() []plant.RawMeasurement {
	return []plant.RawMeasurement{
		measurement("powerplant1", "14:36:00", 350),
		measurement("powerplant1", "14:37:00", 360),
		measurement("powerplant2", "14:36:00", 450),
		measurement("powerplant2", "14:37:00", 470),
		measurement("powerplant3", "14:37:00", 210),
	}
}

func newTestModel(t *testing.T, records ...plant.RawMeasurement) (Model, *session.Store) {
	t.Helper()
	store := session.NewStore()
	if len(records) > 0 {
		require.True(t, store.ApplySuccess(plant.Aggregate(records), t0))
	}
	fetch := session.FetcherFunc(func(ctx context.Context) (feed.Batch, error) {
		return feed.Batch{}, nil
	})
	ctrl := session.NewController(fetch, store)
	m := NewModel(ctrl, WithClock(func() time.Time { return t0.Add(5 * time.Second) }))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), store
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_ReadsStore(t *testing.T) {
	m, _ := newTestModel(t, fleet()...)

	st := m.State()
	assert.Len(t, st.Summaries, 3)
	assert.Equal(t, "powerplant1", st.SelectedPlantID)
	assert.Equal(t, ViewList, m.viewMode)
	assert.NotNil(t, m.Init())
}

func TestView_Cards(t *testing.T) {
	m, _ := newTestModel(t, fleet()...)

	view := m.View()

	assert.Contains(t, view, Title)
	assert.Contains(t, view, "3 plants")
	assert.Contains(t, view, "1040.0 MW total")
	assert.Contains(t, view, "last update 5s ago")
	assert.Contains(t, view, "Power Plant 1")
	assert.Contains(t, view, "Power Plant 3")
	assert.Contains(t, view, "360.0 MW")
	assert.Contains(t, view, "60.0%")
	assert.Contains(t, view, "Online")
	assert.Contains(t, view, SimulatedMark)
	assert.Contains(t, view, "14:36")
	assert.NotContains(t, view, "malformed")
}

func TestView_UnknownCapacityFactor(t *testing.T) {
	rec := measurement("powerplant1", "14:37:00", 0)
	rec.MaxCapability = 0
	m, _ := newTestModel(t, rec)

	assert.Contains(t, m.View(), "n/a")
}

func TestView_BeforeFirstPoll(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()

	assert.Contains(t, view, "0 plants")
	assert.Contains(t, view, "last update never")
	assert.Contains(t, view, "waiting for first poll")
	assert.Contains(t, view, "Waiting for the first poll")
}

func TestView_EmptyFeed(t *testing.T) {
	m, store := newTestModel(t)
	require.True(t, store.ApplySuccess(plant.Aggregate(nil), t0))

	m, _ = send(t, m, stateMsg(store.Snapshot()))

	assert.Contains(t, m.View(), "The feed returned no plants")
}

func TestView_ErrorBannerKeepsCards(t *testing.T) {
	m, store := newTestModel(t, fleet()...)
	cause := &feed.StatusError{StatusCode: 503, Status: "503 Service Unavailable", Body: "down"}
	require.True(t, store.ApplyFailure(pderrors.WrapWithCode(cause, pderrors.ErrStatus,
		"Feed answered 503", "Check the feed service")))

	m, cmd := send(t, m, stateMsg(store.Snapshot()))

	assert.NotNil(t, cmd, "listener should be re-armed")
	view := m.View()
	assert.Contains(t, view, "✗ STATUS")
	assert.Contains(t, view, "Feed answered 503")
	assert.Contains(t, view, "Check the feed service")
	assert.Contains(t, view, "Press r to retry")
	assert.Contains(t, view, "last successful poll")
	assert.Contains(t, view, "Power Plant 1")
}

func TestView_ErrorWithoutData(t *testing.T) {
	m, store := newTestModel(t)
	require.True(t, store.ApplyFailure(pderrors.New(pderrors.ErrTransport, "No response from feed at localhost:8000", "")))

	m, _ = send(t, m, stateMsg(store.Snapshot()))

	view := m.View()
	assert.Contains(t, view, "TRANSPORT")
	assert.Contains(t, view, "No data yet")
	assert.NotContains(t, view, "last successful poll")
}

func TestView_SkippedRecordsInFooter(t *testing.T) {
	records := append(fleet(), plant.RawMeasurement{PlantKey: "powerplant4", Timestamp: "garbage"})
	m, _ := newTestModel(t, records...)

	assert.Contains(t, m.View(), "1 malformed record skipped")
}

func TestView_LoadingIndicator(t *testing.T) {
	m, store := newTestModel(t, fleet()...)
	require.True(t, store.BeginLoading())

	m, _ = send(t, m, stateMsg(store.Snapshot()))

	assert.Contains(t, m.View(), "refreshing")
}

func TestKeys_SelectionGoesThroughStore(t *testing.T) {
	m, store := newTestModel(t, fleet()...)
	require.Equal(t, 2, m.cardsPerRow())

	steps := []struct {
		key  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, "powerplant2"},
		{keyRunes("l"), "powerplant3"},
		{tea.KeyMsg{Type: tea.KeyRight}, "powerplant3"},
		{keyRunes("h"), "powerplant2"},
		{tea.KeyMsg{Type: tea.KeyHome}, "powerplant1"},
		{keyRunes("j"), "powerplant3"},
		{tea.KeyMsg{Type: tea.KeyUp}, "powerplant1"},
		{tea.KeyMsg{Type: tea.KeyEnd}, "powerplant3"},
		{tea.KeyMsg{Type: tea.KeyLeft}, "powerplant2"},
	}

	for _, step := range steps {
		m, _ = send(t, m, step.key)
		assert.Equal(t, step.want, store.Snapshot().SelectedPlantID, "after %s", step.key)
		assert.Equal(t, step.want, m.State().SelectedPlantID, "after %s", step.key)
	}
}

func TestKeys_SelectionWithoutPlants(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, store.Snapshot().SelectedPlantID)
	assert.Equal(t, ViewList, m.viewMode)
}

func TestKeys_DetailView(t *testing.T) {
	m, _ := newTestModel(t, fleet()...)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, m.viewMode)

	view := m.View()
	assert.Contains(t, view, "Power Plant 1")
	assert.Contains(t, view, "Net generation")
	assert.Contains(t, view, "Measurements (2)")
	assert.Contains(t, view, "14:36")
	assert.Contains(t, view, "350.00")
	assert.Contains(t, view, "-40.00")
	assert.NotContains(t, view, "Power Plant 2")

	// in detail view down moves to the next plant, not the next row
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "powerplant2", m.State().SelectedPlantID)
	assert.Contains(t, m.View(), "Power Plant 2")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.viewMode)
}

func TestKeys_DetailViewClosesWhenPlantDisappears(t *testing.T) {
	m, store := newTestModel(t, fleet()...)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, m.viewMode)

	require.True(t, store.ApplySuccess(plant.Aggregate([]plant.RawMeasurement{
		measurement("powerplant9", "14:38:00", 300),
	}), t0.Add(time.Minute)))
	m, _ = send(t, m, stateMsg(store.Snapshot()))

	assert.Equal(t, ViewList, m.viewMode)
	assert.Contains(t, m.View(), "Power Plant 9")
}

func TestKeys_Help(t *testing.T) {
	m, _ := newTestModel(t, fleet()...)

	m, _ = send(t, m, keyRunes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestKeys_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m, _ := newTestModel(t, fleet()...)

			m, cmd := send(t, m, key)

			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestKeys_RetryRefusedWhenNotPolling(t *testing.T) {
	m, _ := newTestModel(t, fleet()...)

	m, cmd := send(t, m, keyRunes("r"))

	assert.Nil(t, cmd)
	assert.True(t, m.retryRefused)
}

func TestWaitForChange(t *testing.T) {
	m, store := newTestModel(t, fleet()...)

	// the pending notification from the first poll comes through first
	msg := m.waitForChange()()
	st, ok := msg.(stateMsg)
	require.True(t, ok)
	assert.Len(t, st.Summaries, 3)

	store.Close()
	var last tea.Msg
	for i := 0; i < 3; i++ {
		last = m.waitForChange()()
		if _, closed := last.(storeClosedMsg); closed {
			break
		}
	}
	assert.IsType(t, storeClosedMsg{}, last)

	_, cmd := send(t, m, storeClosedMsg{})
	assert.Nil(t, cmd)
}

func TestTickReschedules(t *testing.T) {
	m, _ := newTestModel(t, fleet()...)

	_, cmd := send(t, m, tickMsg(t0))

	assert.NotNil(t, cmd)
}

func TestSecondsSinceUpdate(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, 0, m.SecondsSinceUpdate())

	m, _ = newTestModel(t, fleet()...)
	assert.Equal(t, 5, m.SecondsSinceUpdate())

	m.now = func() time.Time { return t0.Add(-time.Second) }
	assert.Equal(t, 0, m.SecondsSinceUpdate(), "clock skew never goes negative")
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutMinimal},
		{79, LayoutMinimal},
		{80, LayoutCompact},
		{120, LayoutStandard},
		{160, LayoutWide},
		{200, LayoutWide},
	}

	for _, tt := range tests {
		m := Model{width: tt.width}
		assert.Equal(t, tt.want, m.LayoutMode(), "width %d", tt.width)
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t, fleet()...)
	require.True(t, m.viewportReady)
	assert.Equal(t, 35, m.detailViewport.Height)

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 3})

	assert.Equal(t, 60, m.detailViewport.Width)
	assert.Equal(t, 1, m.detailViewport.Height)
	assert.False(t, m.ShowFooter())
	assert.Equal(t, 1, m.cardsPerRow())
}
