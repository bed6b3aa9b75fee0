package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFormat  string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "adcraft",
	Short: "Generate Facebook ads from free-text requests",
	Long: `adcraft turns a free-text ad request into ad copy and a product image.

Modes:
  adcraft            Run the HTTP API (default)
  adcraft serve      Run the HTTP API
  adcraft generate   Generate one ad and print it as JSON
  adcraft mcp        Serve the generate_ad tool over MCP stdio`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logFormat != "" && logFormat != "console" && logFormat != "json" {
			return fmt.Errorf("invalid --log-format %q: use console or json", logFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"Log level: trace, debug, info, warn, error, fatal, panic (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format: console or json (overrides LOG_FORMAT)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default $ADCRAFT_CONFIG or ./adcraft.yaml)")
	addServeFlags(rootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
