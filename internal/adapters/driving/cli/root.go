package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ublkit-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ublkit",
	Short: "Convert UBL XML documents to JSON or CSV",
	Long: `ublkit converts UBL-style XML business documents (invoices, orders,
credit notes) into JSON or CSV, preserving document order and handling
mixed input encodings.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
