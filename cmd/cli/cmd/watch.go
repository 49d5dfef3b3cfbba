package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/client"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/tracker"
)

var watchCmd = &cobra.Command{
	Use:   "watch [run_id]",
	Short: "Attach to a run and stream progress",
	Long: `Attach to a discovery run that is already in progress and stream its log
lines until it reaches a terminal state. Detaching with Ctrl+C leaves the run
going on the gateway.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID := args[0]

		c := client.New(viper.GetString("url"))
		t := tracker.New(c)

		if err := t.Attach(context.Background(), runID); err != nil {
			cmd.Printf("Failed to attach: %v\n", err)
			return
		}

		streamRun(cmd, t)
	},
}

// streamRun consumes tracker updates and prints log lines as they appear,
// then renders the terminal outcome. Ctrl+C detaches without touching the
// run on the gateway.
func streamRun(cmd *cobra.Command, t *tracker.Tracker) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	snap := t.Snapshot()
	printed := printNewLogs(cmd, snap.Logs, 0)

	for !snap.Status.Terminal() {
		select {
		case <-sigChan:
			t.Cancel()
			cmd.Println("\nDetached. The run continues on the gateway.")
			if snap.RunID != "" {
				cmd.Printf("Re-attach with:\n  osuka watch %s\n", snap.RunID)
			}
			return
		case snap = <-t.Updates():
			printed = printNewLogs(cmd, snap.Logs, printed)
		}
	}

	printOutcome(cmd, snap)
}

// printNewLogs prints log lines past the already-printed count.
// Every snapshot carries the full timeline, so the count is enough state.
func printNewLogs(cmd *cobra.Command, logs []string, printed int) int {
	for ; printed < len(logs); printed++ {
		cmd.Println(logs[printed])
	}
	return printed
}

func printOutcome(cmd *cobra.Command, snap tracker.Snapshot) {
	cmd.Println("──────────────────────────────")
	if snap.Status == tracker.StatusFailed {
		cmd.Printf("%s✗ Run failed:%s %s\n", colorRed, colorReset, snap.Error)
		return
	}

	cmd.Printf("%s✓ Run completed%s\n", colorGreen, colorReset)
	if snap.Result == nil {
		return
	}

	cmd.Printf("%sNotebook:%s      %s\n", colorDim, colorReset, snap.Result.NotebookID)
	cmd.Printf("%sSources added:%s %d\n", colorDim, colorReset, snap.Result.SourcesAdded)
	if snap.Result.MarkdownTable != "" {
		cmd.Println()
		cmd.Println(snap.Result.MarkdownTable)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
