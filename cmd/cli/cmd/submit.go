package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IM-IMPOWER/OSUKA-foresight/internal/client"
	"github.com/IM-IMPOWER/OSUKA-foresight/internal/tracker"
	"github.com/IM-IMPOWER/OSUKA-foresight/pkg/api"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Start a new discovery run",
	Long: `Start a competitor discovery run for a product category.

By default the command returns immediately with the run ID. Use --watch to
stay attached and stream progress until the run finishes.

Example:
  osuka submit --category "running shoes"
  osuka submit --category "running shoes" --market TH --max-total 15 --watch
  osuka submit --category "trail shoes" --brands acme,zenith --prefer-pdfs`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		category, _ := flags.GetString("category")
		market, _ := flags.GetString("market")
		maxTotal, _ := flags.GetInt("max-total")
		maxShopee, _ := flags.GetInt("max-shopee")
		preferPDFs, _ := flags.GetBool("prefer-pdfs")
		allowExternal, _ := flags.GetBool("allow-external")
		brands, _ := flags.GetStringSlice("brands")
		watch, _ := flags.GetBool("watch")

		if category == "" {
			cmd.Println("Error: --category is required")
			return
		}

		req := api.RunRequest{
			Category:            category,
			Market:              market,
			AllowExternalBrands: &allowExternal,
			PreferPDFs:          preferPDFs,
			MaxTotal:            maxTotal,
			MaxShopeeProducts:   maxShopee,
			PreferredBrands:     brands,
		}

		c := client.New(viper.GetString("url"))

		if !watch {
			result, err := c.SubmitRun(context.Background(), req)
			if err != nil {
				if apiErr, ok := err.(*client.APIError); ok {
					cmd.Printf("Submit failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
				} else {
					cmd.Printf("Submit failed: %v\n", err)
				}
				return
			}
			cmd.Printf("✓ Run submitted!\nRun ID: %s\n\nCheck progress with:\n  osuka status %s\n", result.RunID, result.RunID)
			return
		}

		t := tracker.New(c)
		if err := t.Submit(context.Background(), req); err != nil {
			cmd.Printf("Submit failed: %v\n", err)
			return
		}

		streamRun(cmd, t)
	},
}

func init() {
	flags := submitCmd.Flags()
	flags.StringP("category", "c", "", "Product category to discover (required)")
	flags.StringP("market", "m", "", "Market or locale hint (optional)")
	flags.Int("max-total", 0, "Maximum number of product sources to collect")
	flags.Int("max-shopee", 0, "Maximum number of shopee product pages")
	flags.Bool("prefer-pdfs", false, "Rank PDF catalogs above regular pages")
	flags.Bool("allow-external", true, "Include brands outside the preferred list")
	flags.StringSlice("brands", []string{}, "Preferred brand keys, comma separated")
	flags.BoolP("watch", "w", false, "Stay attached and stream progress")

	rootCmd.AddCommand(submitCmd)
}
