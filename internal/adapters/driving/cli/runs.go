package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/ublkit-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ublkit-cli/internal/adapters/driven/storage/sqlite"
)

var (
	runsConfig string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent batch runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().StringVarP(&runsConfig, "config", "c", "", "configuration file (YAML)")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	cfg, err := configfile.Load(runsConfig)
	if err != nil {
		return err
	}

	store, err := sqlite.NewRunStore(filepath.Join(cfg.Output.SummaryDir, runsDBName))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-36s  %-6s  %6s  %10s  %6s  %s\n",
		"RUN ID", "FORMAT", "FILES", "SUCCESSFUL", "FAILED", "STARTED")
	for _, r := range records {
		cmd.Printf("%-36s  %-6s  %6d  %10d  %6d  %s\n",
			r.ID, r.OutputFormat, r.TotalFiles, r.Successful, r.Failed,
			r.StartTime.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
