// =============================================================================
// Basket Enricher - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Basket Enricher CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   enricher process       - Enrich the transaction tree and write output.json
//   enricher version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loaders, frequency index, enrichment engine, writer
//   - pkg/           : Filesystem utilities (discovery, run reports)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/basket-enricher/cmd"
)

func main() {
	cmd.Execute()
}
