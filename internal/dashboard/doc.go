// Package dashboard implements the terminal dashboard for the power-plant
// feed.
//
// The dashboard shows one card per plant with generation, capacity factor,
// dispatch and a short sparkline of the poll window, plus a drill-down view
// for the selected plant with a braille chart and a measurement table.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: holds the latest session snapshot and the view state (layout,
//     detail mode, help overlay)
//   - Update: processes keystrokes, store changes and clock ticks
//   - View: renders the current snapshot to a string
//
// The model never fetches. A session.Controller polls the feed in the
// background and publishes into a session.Store; the model only reads
// snapshots and sends two kinds of action back: Store.Select for selection
// and Controller.RetryNow for the r key.
//
// # Message Flow
//
//  1. waitForChange blocks on Store.Changes()
//  2. stateMsg arrives carrying a fresh Snapshot, replacing Model.state
//  3. View() re-renders; the listener is re-armed
//  4. tickMsg fires every second so "last update Ns ago" stays current
//
// When the store is closed the listener stops and the last snapshot stays
// on screen.
//
// # Failures
//
// A failed poll shows a banner with the error code, message and suggestion
// above the cards. The cards keep showing the last successful poll.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C        - Quit
//	r                - Retry now
//	h/l, ←/→         - Previous / next plant
//	k/j, ↑/↓         - Plant above / below (next / previous in detail view)
//	Home, End        - First / last plant
//	Enter            - Open plant detail
//	PgUp, PgDn       - Scroll the detail view
//	Esc              - Back / close help
//	?                - Toggle help overlay
package dashboard
