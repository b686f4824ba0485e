package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/ublkit-cli/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/ublkit-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/ublkit-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ublkit-cli/internal/core/services"
	"github.com/custodia-labs/ublkit-cli/internal/logger"
)

// runsDBName is the run-history database file inside the summary dir.
const runsDBName = "ublkit_runs.db"

var (
	batchFormat string
	batchConfig string
	batchDryRun bool
	batchWatch  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir> <output-dir>",
	Short: "Convert every XML file in a directory",
	Long: `Converts all XML files directly inside the input directory, writing
one output per file into the output directory. A summary of the run is
written to the configured summary directory and recorded in the run
history. With --watch the command keeps running after the initial pass
and converts files as they appear.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "output format (json or csv)")
	batchCmd.Flags().StringVarP(&batchConfig, "config", "c", "", "configuration file (YAML)")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "list files without converting them")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "keep watching the input directory for new files")
	batchCmd.MarkFlagRequired("format") //nolint:errcheck // flag exists
	batchCmd.MarkFlagRequired("config") //nolint:errcheck // flag exists
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	format, err := domain.ParseFormat(batchFormat)
	if err != nil {
		return err
	}
	cfg, err := configfile.Load(batchConfig)
	if err != nil {
		return err
	}
	inputDir, outputDir := args[0], args[1]
	dryRun := batchDryRun || cfg.Features.EnableDryRun

	converter := services.NewConvertService(cfg, format)
	summaryStore := storagefile.NewSummaryStore(cfg.Output.SummaryDir)

	// Run history is best effort: an unopenable database downgrades to
	// a warning, never a failed batch.
	var runStore driven.RunStore
	if !dryRun {
		store, err := sqlite.NewRunStore(filepath.Join(cfg.Output.SummaryDir, runsDBName))
		if err != nil {
			logger.Warn("Run history unavailable: %v", err)
		} else {
			runStore = store
			defer store.Close()
		}
	}

	batch := services.NewBatchService(converter, inputDir, outputDir, dryRun,
		cfg.Processing.MaxWorkers, summaryStore, runStore)

	summary, err := batch.Run(cmd.Context())
	if err != nil {
		return err
	}

	if dryRun {
		cmd.Printf("Dry run: %d files would be processed\n", summary.TotalFiles)
		return nil
	}

	cmd.Printf("Processed %d files: %d successful, %d failed in %.2fs\n",
		summary.TotalFiles, summary.Successful, summary.Failed,
		summary.Duration().Seconds())

	if batchWatch {
		watcher := services.NewWatchService(converter, inputDir, outputDir)
		if err := watcher.Watch(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.TotalFiles)
	}
	return nil
}
