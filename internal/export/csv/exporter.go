// Package csv exports a finalized billing as a flat CSV file, the same table
// the workbook keeps in its hidden "BD" sheet.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/export"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/pkg/utils"
)

const (
	Format            = "csv"
	ContentType       = "text/csv; charset=utf-8"
	DefaultFileFormat = "Medições_{measurement}"
)

// Exporter writes the flat table separated by Comma. The default separator
// is ';' so amounts like "1.234,56" need no quoting in pt-BR spreadsheets.
type Exporter struct {
	Comma          rune
	FileNameFormat string

	logger *zap.Logger
}

func New(fileNameFormat string, logger *zap.Logger) *Exporter {
	if fileNameFormat == "" {
		fileNameFormat = DefaultFileFormat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{Comma: ';', FileNameFormat: fileNameFormat, logger: logger}
}

func (e *Exporter) Format() string { return Format }

func (e *Exporter) Export(initial record.InitialFilingRecord, charges []record.FinalizedChargeRecord, _ *catalog.Catalog) (*export.Artifact, error) {
	if len(charges) == 0 {
		return nil, fmt.Errorf("no charges to export")
	}

	var buf bytes.Buffer
	// UTF-8 BOM so spreadsheet tools detect the encoding of accented text.
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	w.Comma = e.Comma

	if err := w.Write(export.TableHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range export.Table(initial, charges) {
		if err := w.Write(r.Cells); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	name := utils.GenerateOutputFileName(e.FileNameFormat, ".csv", map[string]string{
		"measurement": initial.InternalMeasurementNumber,
	})
	e.logger.Info("csv generated", zap.String("file", name), zap.Int("bytes", buf.Len()))

	return &export.Artifact{FileName: name, ContentType: ContentType, Data: buf.Bytes()}, nil
}
