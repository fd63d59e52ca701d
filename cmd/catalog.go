package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// catalogFile overrides cfg.CatalogFile for the 'catalog' command.
var catalogFile string

// catalogCmd represents the 'catalog' command.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the active catalog as YAML",
	Long: `Load the catalog (from --file, the catalog_file setting or the built-in
one), check it and print it as YAML. Converting a workbook catalog to YAML:

  medicao catalog --file catalogo.xlsx > catalogo.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CatalogFile
		if catalogFile != "" {
			path = catalogFile
		}

		cat, err := loadCatalog(path)
		if err != nil {
			return err
		}
		if err := cat.Validate(); err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}

		data, err := yaml.Marshal(cat)
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFile, "file", "", "Catalog file (.yaml or .xlsx)")
	rootCmd.AddCommand(catalogCmd)
}
