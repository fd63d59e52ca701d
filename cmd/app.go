package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/export"
	"github.com/ginjaninja78/medicao-juridica/internal/export/csv"
	"github.com/ginjaninja78/medicao-juridica/internal/export/xlsx"
	"github.com/ginjaninja78/medicao-juridica/internal/wizard"
	"github.com/ginjaninja78/medicao-juridica/pkg/utils"
)

// formatOverride replaces cfg.ExportFormat when set by --format.
var formatOverride string

// loadCatalog loads the configured catalog, or the built-in one.
func loadCatalog(path string) (*catalog.Catalog, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug("catalog loaded",
		zap.String("file", path),
		zap.Int("companies", len(cat.Companies)),
		zap.Int("lawyers", len(cat.Lawyers)),
	)
	return cat, nil
}

// exporters returns every available exporter configured from cfg.
func exporters() *export.Registry {
	return export.NewRegistry(
		xlsx.New(xlsx.Options{
			SheetPassword:  cfg.SheetPassword,
			FileNameFormat: cfg.FileNameFormat,
		}, log),
		csv.New(cfg.FileNameFormat, log),
	)
}

// newSession wires a wizard session from the configuration.
func newSession() (*wizard.Session, error) {
	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	format := cfg.ExportFormat
	if formatOverride != "" {
		format = formatOverride
	}

	exporter, err := exporters().Get(format)
	if err != nil {
		return nil, fmt.Errorf("failed to select exporter: %w", err)
	}

	return wizard.NewSession(cat, exporter, wizard.WithLogger(log)), nil
}

// newFileManager returns the artifact file manager for cfg.
func newFileManager() *utils.FileManager {
	fm := utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir)
	fm.UseTimestampSubdirs = cfg.ArchiveSubdirs
	return fm
}
