package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "osuka",
	Short: "Osuka is a command line tool for running competitor discovery",
	Long: `osuka is the command-line interface for the OSUKA competitor discovery gateway.

The gateway crawls a competitor catalog for a product category, collects the
best source pages into a research notebook and renders a markdown summary
table. Runs execute in the background; the CLI submits them and polls the
gateway until they finish.

Common workflows:

  Start a discovery run and wait for the result:
    osuka submit --category "running shoes" --watch

  Start a run and come back later:
    osuka submit --category "running shoes"
    osuka status <run-id>

  Re-attach to a run in progress:
    osuka watch <run-id>

  List recent runs:
    osuka runs

Configuration:
  Set the gateway endpoint via environment variables or a config file:
    OSUKA_URL    Gateway endpoint (default: http://localhost:5055)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".osuka"
		viper.AddConfigPath(home)
		viper.SetConfigName(".osuka")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "OSUKA_VARNAME"
	viper.SetEnvPrefix("OSUKA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.osuka.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:5055", "Discovery gateway URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}
