package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/ublkit-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/core/services"
)

var (
	convertFormat string
	convertOutput string
	convertConfig string
)

var convertCmd = &cobra.Command{
	Use:   "convert <xml-file>",
	Short: "Convert a single XML file",
	Long: `Converts one XML file to the chosen output format and writes the
result to the given output path, creating parent directories as needed.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "output format (json or csv)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file path")
	convertCmd.Flags().StringVarP(&convertConfig, "config", "c", "", "configuration file (YAML)")
	convertCmd.MarkFlagRequired("format") //nolint:errcheck // flag exists
	convertCmd.MarkFlagRequired("output") //nolint:errcheck // flag exists
	convertCmd.MarkFlagRequired("config") //nolint:errcheck // flag exists
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := domain.ParseFormat(convertFormat)
	if err != nil {
		return err
	}
	cfg, err := configfile.Load(convertConfig)
	if err != nil {
		return err
	}

	svc := services.NewConvertService(cfg, format)
	xmlPath := args[0]

	result := svc.Convert(cmd.Context(), xmlPath)
	if !result.Success {
		return fmt.Errorf("conversion failed: %s", result.ErrorMessage)
	}

	if dir := filepath.Dir(convertOutput); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	paths, err := svc.Write(result, convertOutput)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	cmd.Printf("Converted %s (%s) in %.3fs\n",
		xmlPath, result.DocumentType, result.ProcessingTime.Seconds())
	cmd.Printf("Output: %s\n", strings.Join(paths, ", "))
	return nil
}
