// Package cli implements the plantdash command-line interface.
//
// Each Cobra command parses its flags, loads the config and hands off to a
// run function that takes its writers explicitly, so the work can be tested
// without a terminal.
//
// # Command Structure
//
//	plantdash dashboard           - Live TUI dashboard
//	plantdash snapshot            - Poll once and print the plant table
//	plantdash dispatch <plant>    - Dispatch records for one plant
//	plantdash simulate            - Serve a local feed with generated data
//	plantdash init                - Create .plantdash.yaml
//	plantdash config [show|set-interval] - Inspect or edit the config
//	plantdash version             - Version and build info
//
// # Session Wiring
//
// dashboard and snapshot build the same pipeline: a feed.Client is the
// session.Fetcher behind a session.Controller, which publishes into a
// session.Store. The dashboard starts the refresh loop and lets the TUI read
// the store; snapshot runs a single PollOnce and prints the result.
//
// The dashboard watches the config file and applies poll.interval edits to
// the running controller, unless --interval pinned it.
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command. --verbose sets PLANTDASH_DEBUG so every component logger prints
// debug lines; in the dashboard those go to plantdash-debug.log because the
// TUI owns the terminal.
//
// snapshot and dispatch accept --json, which switches the package into
// machine mode: progress output is suppressed and results and errors are
// written as a JSONEnvelope on stdout.
package cli
