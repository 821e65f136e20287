package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ysalloum/pulsedesk/internal/config"
	"github.com/ysalloum/pulsedesk/internal/db"
	"github.com/ysalloum/pulsedesk/internal/progress"
	"github.com/ysalloum/pulsedesk/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Import customers and pipeline records from a YAML file",
	Long: `Provisions the database from a seed file: customers with their
contacts and pipeline opportunities. Re-importing the same file updates
customers in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		f, err := seed.Load(args[0])
		if err != nil {
			return err
		}
		if len(f.Customers) == 0 {
			return fmt.Errorf("seed file %s contains no customers", args[0])
		}

		dbPath := filepath.Join(cfg.DataDir, "pulsedesk.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := seed.Import(cmd.Context(), database, f, progress.NewReporter()); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Imported %d customer(s) into %s\n", len(f.Customers), dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
