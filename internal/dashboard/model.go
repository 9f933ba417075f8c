package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/session"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/ui"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: no sparklines, single column
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns
	LayoutCompact
	// LayoutStandard is for terminals 120-160 columns
	LayoutStandard
	// LayoutWide is for terminals 160+ columns
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
	BreakpointWide     = 160
)

// HeightMinimal is the shortest terminal that still gets a footer.
const HeightMinimal = 24

// clockInterval drives the "last update" counter in the header.
const clockInterval = time.Second

// Model is the Bubble Tea model for the plant dashboard. It renders
// snapshots of a session.Store and sends user actions back through the
// store and the controller; it never fetches on its own.
type Model struct {
	ctrl  *session.Controller
	store *session.Store
	state session.State
	now   func() time.Time

	width    int
	height   int
	quitting bool
	viewMode ViewMode
	showHelp bool

	// retryRefused is set when r was pressed while a poll was in flight
	retryRefused bool

	spinner spinner.Model

	detailViewport viewport.Model
	viewportReady  bool
}

// tickMsg advances the clock shown in the header.
type tickMsg time.Time

// stateMsg carries a fresh store snapshot.
type stateMsg session.State

// storeClosedMsg reports that the store will publish no more changes.
type storeClosedMsg struct{}

// Option configures a Model.
type Option func(*Model)

// WithClock sets the clock used for the "last update" counter.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// NewModel creates a dashboard over ctrl and its store. The caller starts
// and stops the controller.
func NewModel(ctrl *session.Controller, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = ui.SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorGraph)

	m := Model{
		ctrl:    ctrl,
		store:   ctrl.Store(),
		state:   ctrl.Store().Snapshot(),
		now:     time.Now,
		spinner: sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the clock, the spinner and the store listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.waitForChange(),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		if m.viewMode == ViewDetail && m.viewportReady {
			var vpCmd tea.Cmd
			m.detailViewport, vpCmd = m.detailViewport.Update(msg)
			return m, vpCmd
		}

	case tea.MouseMsg:
		if m.viewMode == ViewDetail && m.viewportReady {
			var vpCmd tea.Cmd
			m.detailViewport, vpCmd = m.detailViewport.Update(msg)
			return m, vpCmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve space for header and footer
		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.viewportReady {
			m.detailViewport = viewport.New(m.width, viewportHeight)
			m.detailViewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.detailViewport.Width = m.width
			m.detailViewport.Height = viewportHeight
		}

		if m.viewMode == ViewDetail {
			m.updateDetailViewportContent()
		}

	case tickMsg:
		return m, m.tickCmd()

	case stateMsg:
		m.applyState(session.State(msg))
		return m, m.waitForChange()

	case storeClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// State returns the snapshot the model is currently rendering.
func (m Model) State() session.State {
	return m.state
}

func (m *Model) applyState(st session.State) {
	if st.Polls != m.state.Polls || st.LastError == nil {
		m.retryRefused = false
	}
	m.state = st
	if m.viewMode == ViewDetail {
		if st.Selection().Summary == nil {
			m.viewMode = ViewList
			return
		}
		m.updateDetailViewportContent()
	}
}

// refresh re-reads the store after a local mutation so the next frame
// reflects it without waiting for the change notification.
func (m *Model) refresh() {
	m.applyState(m.store.Snapshot())
}

// tickCmd returns a command that sends a tick after clockInterval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks on the store's change channel and delivers the
// snapshot that follows.
func (m Model) waitForChange() tea.Cmd {
	changes := m.store.Changes()
	store := m.store
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return storeClosedMsg{}
		}
		return stateMsg(store.Snapshot())
	}
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// successful poll, 0 before the first one.
func (m Model) SecondsSinceUpdate() int {
	if m.state.LastUpdate.IsZero() {
		return 0
	}
	secs := int(m.now().Sub(m.state.LastUpdate).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard:
		return LayoutStandard
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutMinimal
	}
}

// ShowFooter returns true if the terminal is tall enough to show the footer.
func (m Model) ShowFooter() bool {
	return m.height == 0 || m.height >= HeightMinimal
}
