package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ublkit-cli/internal/flatten"
	"github.com/custodia-labs/ublkit-cli/internal/logger"
	"github.com/custodia-labs/ublkit-cli/internal/output/csvout"
	"github.com/custodia-labs/ublkit-cli/internal/output/jsonout"
	"github.com/custodia-labs/ublkit-cli/internal/xmldoc"
)

// Ensure ConvertService implements the interface.
var _ driving.Converter = (*ConvertService)(nil)

// ConvertService runs the single-file conversion pipeline: decode,
// validate, parse, map, and shape for the configured output format.
type ConvertService struct {
	format         domain.Format
	preservePrefix bool

	reader       *xmldoc.Reader
	csvFlattener *flatten.Flattener
	jsonWriter   *jsonout.Writer
	csvWriter    *csvout.Writer
}

// NewConvertService creates a converter for one output format. The
// format must already be validated with domain.ParseFormat.
func NewConvertService(cfg domain.Config, format domain.Format) *ConvertService {
	return &ConvertService{
		format:         format,
		preservePrefix: cfg.XML.PreserveNamespacePrefix,
		reader:         xmldoc.NewReader(xmldoc.BuildEncodingPriority(cfg.Processing.Encoding)),
		csvFlattener:   flatten.New(cfg.CSV.KeySeparator),
		jsonWriter:     jsonout.NewWriter(cfg.JSON.Flatten, cfg.JSON.Separator),
		csvWriter:      csvout.NewWriter(cfg.CSV.MaxRecordsPerFile, cfg.CSV.PreservationMethod),
	}
}

// Format returns the output format this service was built for.
func (s *ConvertService) Format() domain.Format {
	return s.format
}

// Convert converts one XML file in memory. Pipeline failures are
// captured in the result rather than returned, so a batch caller can
// treat every file uniformly.
func (s *ConvertService) Convert(ctx context.Context, xmlPath string) *domain.ConversionResult {
	start := time.Now()
	res := &domain.ConversionResult{
		SourceFile:   xmlPath,
		OutputFormat: s.format,
	}
	fail := func(msg string) *domain.ConversionResult {
		res.ErrorMessage = msg
		res.ProcessingTime = time.Since(start)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err.Error())
	}

	if info, err := os.Stat(xmlPath); err == nil {
		res.FileSizeBytes = info.Size()
	}

	content, encoding, err := s.reader.ReadFile(xmlPath)
	if err != nil {
		return fail(err.Error())
	}
	logger.Debug("Read %s with encoding %s", xmlPath, encoding)

	if ok, msg := xmldoc.ValidateWellFormed(content); !ok {
		return fail(msg)
	}

	doc, err := xmldoc.Parse(content)
	if err != nil {
		return fail(err.Error())
	}
	root := doc.Root()

	res.DocumentType = xmldoc.DocumentType(root)
	logger.Debug("Document type: %s", res.DocumentType)

	mapper := xmldoc.NewMapper(xmldoc.NewNamespaceTable(root), s.preservePrefix)
	mapped := mapper.Map(root)

	switch s.format {
	case domain.FormatJSON:
		res.Document = mapped
	case domain.FormatCSV:
		res.Pairs = s.csvFlattener.FlattenPairs(mapped, filepath.Base(xmlPath))
	}

	res.Success = true
	res.ProcessingTime = time.Since(start)
	return res
}

// Write persists a successful conversion result to outputPath and
// returns the paths written. CSV output may span several chunk files.
func (s *ConvertService) Write(result *domain.ConversionResult, outputPath string) ([]string, error) {
	if !result.Success {
		return nil, fmt.Errorf("cannot write failed conversion of %s: %s",
			result.SourceFile, result.ErrorMessage)
	}

	switch result.OutputFormat {
	case domain.FormatJSON:
		if err := s.jsonWriter.WriteFile(result.Document, outputPath); err != nil {
			return nil, err
		}
		return []string{outputPath}, nil

	case domain.FormatCSV:
		return s.csvWriter.Write(outputPath, result.Pairs)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, result.OutputFormat)
	}
}

// OutputFileName derives the output file name for a source file:
// the base name with its extension swapped for the output format.
func (s *ConvertService) OutputFileName(xmlPath string) string {
	base := filepath.Base(xmlPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "." + s.format.String()
}
