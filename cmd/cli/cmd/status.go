package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/client"
	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

var showLogs bool

var statusCmd = &cobra.Command{
	Use:   "status [run_id]",
	Short: "Get status of a discovery run",
	Long:  `Retrieve the current state of a discovery run (running, completed, failed), its collected log lines and, for completed runs, the result summary.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID := args[0]

		c := client.New(viper.GetString("url"))
		status, err := c.RunStatus(context.Background(), runID)
		if err != nil {
			if apiErr, ok := err.(*client.APIError); ok {
				cmd.Printf("Request failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Request failed: %v\n", err)
			}
			return
		}

		printRunStatus(cmd, status)
	},
}

func printRunStatus(cmd *cobra.Command, status *api.RunStatusResponse) {
	icon := statusIcon(status.Status)
	cmd.Printf("%s %sRun Details%s\n", icon, colorBold, colorReset)
	cmd.Println("──────────────────────────────")

	cmd.Printf("%sID:%s      %s\n", colorDim, colorReset, status.RunID)
	cmd.Printf("%sStatus:%s  %s\n", colorDim, colorReset, colorizeStatus(status.Status))

	if status.Error != "" {
		cmd.Printf("%sError:%s   %s%s%s\n", colorDim, colorReset, colorRed, status.Error, colorReset)
	}

	if status.Result != nil {
		cmd.Printf("%sNotebook:%s      %s\n", colorDim, colorReset, status.Result.NotebookID)
		cmd.Printf("%sSources added:%s %d\n", colorDim, colorReset, status.Result.SourcesAdded)
		if status.Result.MarkdownTable != "" {
			cmd.Println()
			cmd.Println(status.Result.MarkdownTable)
		}
	}

	if showLogs && len(status.Logs) > 0 {
		cmd.Println()
		cmd.Printf("%sLogs:%s\n", colorDim, colorReset)
		for _, line := range status.Logs {
			cmd.Println("  " + line)
		}
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func statusIcon(status string) string {
	switch status {
	case api.RunStateCompleted:
		return colorGreen + "✓" + colorReset
	case api.RunStateFailed:
		return colorRed + "✗" + colorReset
	case api.RunStateRunning:
		return colorYellow + "⏳" + colorReset
	default:
		return "•"
	}
}

func colorizeStatus(status string) string {
	icon := statusIcon(status)
	switch status {
	case api.RunStateCompleted:
		return icon + " " + colorGreen + status + colorReset
	case api.RunStateFailed:
		return icon + " " + colorRed + status + colorReset
	case api.RunStateRunning:
		return icon + " " + colorYellow + status + colorReset
	default:
		return status
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&showLogs, "logs", "l", false, "Include collected log lines")
}
