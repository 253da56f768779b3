package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/killallgit/conduit/pkg/config"
	"github.com/killallgit/conduit/pkg/runs"
	"github.com/spf13/cobra"
)

var runWatch bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Inspect runs",
}

var runStatusCmd = &cobra.Command{
	Use:   "status <thread-id> <run-id>",
	Short: "Show a run's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		threadID, runID := args[0], args[1]
		client := newAPIClient()

		if !runWatch {
			snapshot, err := client.GetRun(cmd.Context(), threadID, runID)
			if err != nil {
				return err
			}
			fmt.Printf("Run %s: %s\n", snapshot.RunID, snapshot.Status)
			return nil
		}

		poller := runs.NewPoller(client.GetRun, config.Get().Polling.Interval)
		final, err := poller.Poll(cmd.Context(), threadID, runID, func(snap runs.Snapshot) {
			fmt.Printf("Run %s: %s\n", snap.RunID, snap.Status)
		})

		var runErr *runs.RunFailedError
		if errors.As(err, &runErr) {
			fmt.Fprintf(os.Stderr, "Run failed: %s\n", runErr.Error())
			os.Exit(1)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Run %s completed\n", final.RunID)
		if len(final.Output) > 0 {
			fmt.Println(string(final.Output))
		}
		return nil
	},
}

func init() {
	runStatusCmd.Flags().BoolVar(&runWatch, "watch", false, "poll until the run reaches a terminal state")

	runCmd.AddCommand(runStatusCmd)
	rootCmd.AddCommand(runCmd)
}
