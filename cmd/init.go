package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ysalloum/pulsedesk/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pulsedesk configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure pulsedesk and generates a .pulsedesk.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
