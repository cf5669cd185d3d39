// Package cli defines kiosk's cobra command tree.
//
// The root command runs the TUI. The list subcommand performs one fetch
// through the same catalog session and prints the result as a table, JSON or
// YAML. Both load a .env file from the working directory before reading the
// configuration, so KIOSK_* variables can live there.
package cli
