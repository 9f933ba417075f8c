package dashboard

import tea "github.com/charmbracelet/bubbletea"

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRetry       = "r"
	KeySelectLeft  = "left"
	KeySelectLeftH = "h"
	KeySelectRight = "right"
	KeySelectRgtL  = "l"
	KeySelectUp    = "up"
	KeySelectUpK   = "k"
	KeySelectDown  = "down"
	KeySelectDownJ = "j"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyExpand      = "enter"
	KeyCollapse    = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	if m.viewMode == ViewDetail && key == KeyCollapse {
		m.viewMode = ViewList
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRetry:
		m.retryRefused = !m.ctrl.RetryNow()
		m.refresh()
		return true, nil

	case KeySelectLeft, KeySelectLeftH:
		m.moveSelection(-1)
		return true, nil

	case KeySelectRight, KeySelectRgtL:
		m.moveSelection(1)
		return true, nil

	case KeySelectUp, KeySelectUpK:
		m.moveSelection(-m.rowStep())
		return true, nil

	case KeySelectDown, KeySelectDownJ:
		m.moveSelection(m.rowStep())
		return true, nil

	case KeySelectFirst:
		m.selectIndex(0)
		return true, nil

	case KeySelectLast:
		m.selectIndex(len(m.state.Summaries) - 1)
		return true, nil

	case KeyExpand:
		if m.viewMode == ViewList && m.state.Selection().Summary != nil {
			m.viewMode = ViewDetail
			m.updateDetailViewportContent()
			if m.viewportReady {
				m.detailViewport.GotoTop()
			}
		}
		return true, nil

	case KeyCollapse:
		m.viewMode = ViewList
		return true, nil
	}

	return false, nil
}

// rowStep is how far up/down moves: one card row in the grid, one plant in
// the detail view.
func (m Model) rowStep() int {
	if m.viewMode == ViewDetail {
		return 1
	}
	return m.cardsPerRow()
}

// moveSelection moves the selection by delta plants, clamped to the ends.
// With nothing selected any move lands on the first plant.
func (m *Model) moveSelection(delta int) {
	idx := m.state.SelectedIndex()
	if idx < 0 {
		m.selectIndex(0)
		return
	}
	m.selectIndex(idx + delta)
}

func (m *Model) selectIndex(idx int) {
	n := len(m.state.Summaries)
	if n == 0 {
		return
	}
	idx = clampInt(idx, n-1)
	if m.store.Select(m.state.Summaries[idx].ID) {
		m.refresh()
	}
}
