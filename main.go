// =============================================================================
// Medição Jurídica - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Medição Jurídica CLI application, a
// guided data-entry wizard that produces legal billing measurement workbooks.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   medicao run             - Run the interactive wizard
//   medicao fill <file>     - Run the wizard from a YAML answers file
//   medicao catalog         - Print the active catalog as YAML
//   medicao cnpj <id>...    - Check CNPJ tax IDs
//   medicao version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/medicao-juridica/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
