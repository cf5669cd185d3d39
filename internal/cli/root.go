package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/kiosk/internal/app"
)

type rootOptions struct {
	configPath string
	prefsPath  string
	apiURL     string
	version    string
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: o.configPath,
		PrefsPath:  o.prefsPath,
		APIURL:     o.apiURL,
		Version:    o.version,
	}
}

// NewRootCmd builds the kiosk command tree. Running it without a subcommand
// starts the TUI.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	cmd := &cobra.Command{
		Use:   "kiosk",
		Short: "Terminal client for a product catalog REST API",
		Long: `kiosk browses, adds, edits and deletes items of a fakestoreapi.com-style
product catalog from the terminal.

Changes live for the current session only. The remote service acknowledges
writes without persisting them.`,
		Example: `  # Open the TUI against the public demo API
  kiosk

  # Point at another deployment
  kiosk --api-url http://localhost:3000

  # Print the catalog as YAML
  kiosk list --format yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/kiosk/config.toml)")
	flags.StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/kiosk/prefs.toml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "catalog API base URL (overrides config and KIOSK_API_URL)")

	cmd.AddCommand(newListCmd(opts))

	return cmd
}
