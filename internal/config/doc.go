// Package config loads kiosk's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kiosk/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. Fields missing or empty in the file keep their defaults
//  5. KIOSK_API_URL, KIOSK_LOG_LEVEL and KIOSK_METRICS_FILE override the file
//
// # Default Values
//
//   - API: https://fakestoreapi.com
//   - Request timeout: 10s
//   - Log file: ~/.local/state/kiosk/kiosk.log
//   - Log level: info
//   - Metrics file: none
//
// # TOML Format
//
//	api_url = "https://fakestoreapi.com"
//	request_timeout = "10s"
//	log_file = "~/.local/state/kiosk/kiosk.log"
//	log_level = "info"
//	metrics_file = "~/.local/state/kiosk/kiosk.prom"
//
// All fields are optional. Tilde expansion is performed on paths.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors, durations
// that do not parse or are not positive, and unknown log levels. A missing
// config file is not an error.
package config
