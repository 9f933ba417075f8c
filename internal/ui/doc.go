// Package ui provides terminal output components for plantdash's one-shot
// commands.
//
// # Components Overview
//
//	PhaseDisplay  - Renders command steps (fetch, aggregate) with timing
//	Tables        - Plant summaries and dispatch records as aligned tables
//	Header        - Branded name/version header
//	SpinnerFrames - Spinner frames shared with the dashboard
//
// # Color Scheme
//
// Colors are hex values from the dashboard's neon palette. Semantic names
// map onto it:
//
//	ColorSuccess   (green)  - Successful steps
//	ColorError     (red)    - Failures
//	ColorWarning   (amber)  - Warnings and skipped records
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color).
//
// # Phase Display
//
//	pd := ui.NewPhaseDisplay(os.Stderr)
//	err := pd.Run("Fetching feed", func() error { ... })
//
// Phases go to stderr so that stdout carries only the command's data.
package ui
