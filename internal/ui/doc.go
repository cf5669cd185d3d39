// Package ui provides the kiosk terminal interface, built on Bubble Tea.
//
// # Architecture Overview
//
// Model is the root Bubble Tea model. It never owns catalog data: every
// mutation goes through catalog.Manager and the model re-reads a
// catalog.State snapshot after each operation result and on every poll tick.
// Remote operations run as tea.Cmd functions so the interface stays
// responsive while a request is in flight.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key dispatch and operation commands
//   - list.go: item list, detail pane and the titled box frame
//   - home.go: landing screen shown before the first fetch
//   - modal.go: create/edit form and delete confirmation
//   - header.go: status bar and command hints
//   - logs.go: session log pane with level filter and regex search
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Views
//
//   - Home: "See products" landing screen; enter loads the catalog
//   - Catalog: list of items beside the selected item's details
//   - Log: tail of the slog file written by this session
//
// # Key Bindings
//
//   - j/k, g/G, ctrl+d/u: Move the cursor
//   - space/enter: Toggle selection of the item under the cursor
//   - a / e / d: Add, edit, delete
//   - r: Reload the catalog
//   - H: Home screen
//   - L: Toggle the session log
//   - T: Cycle theme (saved to prefs)
//   - h/?: Help
//   - q or ctrl+c: Quit
//
// In the form, tab moves between fields, enter submits and esc cancels.
// A failed submit keeps the form open with the error shown beneath it.
package ui
