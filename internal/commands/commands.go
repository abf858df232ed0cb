// Package commands defines the subdeck command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/five82/subdeck/internal/app"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	ConfigPath string
	PrefsPath  string
	Poll       int
}

// New returns the subdeck root command. Without a subcommand it runs the TUI.
func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "subdeck",
		Short: "Manage Open5GS subscribers from the terminal.",
		Example: `
subdeck
subdeck --config ~/lab/subdeck.toml --poll 10
subdeck list --search 00101
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: ro.ConfigPath,
				PrefsPath:  ro.PrefsPath,
				PollEvery:  ro.Poll,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "", "config file path (default ~/.config/subdeck/config.toml)")
	cmd.Flags().StringVar(&ro.PrefsPath, "prefs", "", "preferences file path (default ~/.config/subdeck/prefs.toml)")
	cmd.Flags().IntVar(&ro.Poll, "poll", 0, "refresh interval in seconds (default from config)")

	addCommands(cmd, ro)
	return cmd
}

// addCommands attaches the subcommands to topLevel.
func addCommands(topLevel *cobra.Command, ro *rootOptions) {
	addList(topLevel, ro)
	addVersion(topLevel)
}
