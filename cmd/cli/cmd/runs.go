package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/client"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent discovery runs",
	Run: func(cmd *cobra.Command, args []string) {
		c := client.New(viper.GetString("url"))
		runs, err := c.ListRuns(context.Background(), runsLimit)
		if err != nil {
			if apiErr, ok := err.(*client.APIError); ok {
				cmd.Printf("Request failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Request failed: %v\n", err)
			}
			return
		}

		if len(runs) == 0 {
			cmd.Println("No runs found.")
			return
		}

		for _, run := range runs {
			line := statusIcon(run.Status) + " " + run.RunID + "  " + run.Category
			if run.Market != "" {
				line += " (" + run.Market + ")"
			}
			cmd.Println(line)
			if run.Error != "" {
				cmd.Printf("    %s%s%s\n", colorRed, run.Error, colorReset)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
}
