package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/conduit/pkg/api"
	"github.com/killallgit/conduit/pkg/config"
	"github.com/killallgit/conduit/pkg/logger"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "conduit",
	Short: "Dashboard client for a remote agent runtime",
	Long: `Conduit drives a remote conversational-agent runtime: list and
create agents, chat with them over streamed runs, and manage their
recurring cron schedules.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(cfgFile); err != nil {
			return err
		}
		if err := logger.Init(); err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./.conduit and $XDG_CONFIG_HOME/conduit)")
}

// newAPIClient builds a client from the loaded config.
func newAPIClient() *api.Client {
	settings := config.Get()
	return api.NewClientWithTimeout(settings.Server.URL, settings.Server.Timeout)
}
