package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

// cnpjCmd represents the 'cnpj' command.
var cnpjCmd = &cobra.Command{
	Use:   "cnpj <cnpj>...",
	Short: "Check CNPJ tax IDs",
	Long: `Check one or more CNPJ tax IDs with the modulo-11 check digits. The mask
is optional. Exits with an error if any ID is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invalid := 0
		for _, id := range args {
			status := "válido"
			if !validation.IsValidTaxID(id) {
				status = "inválido"
				invalid++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", validation.FormatTaxID(id), status)
		}

		if invalid > 0 {
			return fmt.Errorf("%d invalid tax ID(s)", invalid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cnpjCmd)
}
