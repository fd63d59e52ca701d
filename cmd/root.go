// =============================================================================
// Medição Jurídica - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (medicao)
//   ├── runCmd     (medicao run)      interactive wizard
//   ├── fillCmd    (medicao fill)     wizard driven by an answers file
//   ├── cnpjCmd    (medicao cnpj)     tax ID check
//   ├── catalogCmd (medicao catalog)  print the active catalog
//   └── versionCmd (medicao version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads a .env file into the environment (if present)
//   2. Loads the configuration (--config file + MEDICAO_* variables)
//   3. Builds the zap logger (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/medicao-juridica/internal/config"
	"github.com/ginjaninja78/medicao-juridica/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// cfg and log are set by the root command's PersistentPreRunE.
var (
	cfg *config.Config
	log *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "medicao",
	Short: "Medição Jurídica - cadastro guiado de medições jurídicas",
	Long: `Medição Jurídica guides the entry of a legal billing ("medição jurídica"):
the invoice header data, its review, the charge lines with their derived
service codes, a detailed review and finally the generation of the workbook.

Example Usage:
  medicao run                          # Interactive wizard
  medicao fill medicao.yaml            # Run the whole wizard from an answers file
  medicao cnpj 11.222.333/0001-81      # Check tax IDs
  medicao catalog --file catalogo.xlsx # Print a catalog`,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		loaded, used, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level)
		if err != nil {
			return err
		}

		if used != "" {
			log.Debug("config loaded", zap.String("file", used))
		}
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
