package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pulsedesk",
	Short: "Intent-driven message router for customer conversations",
	Long: `Pulsedesk routes inbound customer messages: it classifies intent,
picks the best specialist, synthesizes a personalized response and
executes embedded commands (calls, bulk sends, reports) against the
configured gateways. Arabic and English are first-class.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".pulsedesk.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
