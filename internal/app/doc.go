// Package app provides the orchestration layer for kiosk.
//
// # Overview
//
// This package is the composition root. Open turns configuration into a
// ready Session: a slog logger writing to the session log file, a private
// Prometheus registry, the catalog API client and the catalog.Manager that
// owns session state. Run opens a session and hands it to the TUI; the list
// command uses Open directly for a one-shot fetch.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         TOML file + KIOSK_* environment
//	       ├─────> openLogger()          slog text handler on the log file
//	       ├─────> storeapi.NewClient()  HTTP client with metrics
//	       ├─────> catalog.NewManager()  session state
//	       └─────> ui.Run()              TUI (blocks)
//
// # Error Handling
//
// Only startup errors are returned: unreadable config, an unusable log path
// or an invalid API URL. Failures of catalog operations are recorded in the
// session state and shown by the UI; none of them ends the program.
//
// Close writes the metrics textfile when metrics_file is configured, then
// closes the log file.
package app
