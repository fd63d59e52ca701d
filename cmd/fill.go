// =============================================================================
// Medição Jurídica - Fill Command
// =============================================================================
//
// This file defines the 'fill' command, which runs the whole wizard from a
// YAML answers file without prompting.
//
// COMMAND USAGE:
//   medicao fill <answers.yaml> [--dry-run] [--format xlsx|csv]
//
// PIPELINE:
//   1. Load configuration and catalog
//   2. Parse the answers file
//   3. Submit the initial data, confirm the review, submit the charges
//   4. Finalize (generate the artifact)
//   5. Save the artifact to the output directory
//
// Validation errors of steps 3 are printed as a numbered list and the
// command exits with an error.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/medicao-juridica/internal/console"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
	"github.com/ginjaninja78/medicao-juridica/internal/wizard"
	"github.com/ginjaninja78/medicao-juridica/pkg/utils"
)

// fillDryRun validates and generates without writing the artifact.
var fillDryRun bool

// fillCmd represents the 'fill' command.
var fillCmd = &cobra.Command{
	Use:   "fill <answers.yaml>",
	Short: "Run the wizard from an answers file",
	Long: `Run every stage of the wizard from a YAML answers file. The file has a
"dados" section with the initial data and a "cobrancas" list with the charge
lines, using the same field names as the interactive 'definir' and 'cobranca'
commands. Dates are written as YYYY-MM-DD. Amounts are values, not
keystrokes: 1500, 1500.00 and "1.500,00" are all R$ 1.500,00.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		session, err := newSession()
		if err != nil {
			return err
		}

		answers, err := console.LoadAnswers(args[0])
		if err != nil {
			return err
		}

		if err := console.Apply(session, answers); err != nil {
			var verr *wizard.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(out, "Etapa '%s' bloqueada.\n", verr.Stage.Title())
				fmt.Fprint(out, validation.FormatErrors(verr.Fields))
				return fmt.Errorf("%d validation error(s)", len(verr.Fields))
			}
			return err
		}

		finalized := session.Finalized()
		fmt.Fprintf(out, "Cobranças: %d, linhas: %d, total: R$ %s\n",
			len(finalized),
			len(record.Flatten(finalized)),
			validation.FormatAmount(record.Total(finalized)),
		)

		artifact, err := session.Finalize()
		if err != nil {
			var failure *wizard.ExportFailure
			if errors.As(err, &failure) {
				return fmt.Errorf("export failed: %w", failure.Err)
			}
			return err
		}

		if fillDryRun {
			fmt.Fprintf(out, "[DRY RUN] %s (%d bytes) não foi gravado.\n", artifact.FileName, len(artifact.Data))
			return nil
		}

		path, archived, err := newFileManager().Save(artifact.FileName, artifact.Data)
		if err != nil {
			return err
		}
		if archived != "" {
			fmt.Fprintf(out, "Arquivo anterior arquivado em %s\n", archived)
		}
		fmt.Fprintf(out, "Arquivo salvo em %s\n", path)
		log.Info("artifact saved", zap.String("path", path))

		if retention := cfg.ArchiveRetention(); retention > 0 {
			if _, err := utils.CleanOldArchives(cfg.ArchiveDir, retention); err != nil {
				log.Warn("archive cleanup failed", zap.Error(err))
			}
		}
		return nil
	},
}

func init() {
	fillCmd.Flags().BoolVar(&fillDryRun, "dry-run", false, "Generate the artifact without writing it")
	fillCmd.Flags().StringVar(&formatOverride, "format", "", "Export format (overrides export_format)")
	rootCmd.AddCommand(fillCmd)
}
