// =============================================================================
// Medição Jurídica - Run Command
// =============================================================================
//
// This file defines the 'run' command, the interactive wizard on the
// terminal.
//
// COMMAND USAGE:
//   medicao run [--format xlsx|csv]
//
// =============================================================================

package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/medicao-juridica/internal/console"
)

// runCmd represents the 'run' command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive wizard",
	Long: `Start the interactive wizard. Type 'ajuda' at the prompt for the list of
commands. Generated files are written to the configured output directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		c := console.New(session, newFileManager(), os.Stdin, cmd.OutOrStdout(), log)
		c.ArchiveDir = cfg.ArchiveDir
		c.ArchiveRetention = cfg.ArchiveRetention()

		return c.Run(ctx)
	},
}

func init() {
	runCmd.Flags().StringVar(&formatOverride, "format", "", "Export format (overrides export_format)")
	rootCmd.AddCommand(runCmd)
}
