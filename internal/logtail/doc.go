// Package logtail reads the tail of kiosk's session log for the TUI log pane.
//
// Read uses a ring buffer so only the last maxLines are kept in memory no
// matter how large the file grows. Parse and Filter understand the
// log/slog TextHandler format that kiosk writes:
//
//	time=2026-01-02T10:00:02.000Z level=WARN msg="delete failed" id=5
//
// Lines in any other format pass through untouched.
package logtail
