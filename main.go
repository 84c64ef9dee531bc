// =============================================================================
// Uruguay Card Payments - Main Entry Point
// =============================================================================
//
// USAGE:
//   uycards            - Build the annual tables and charts
//   uycards validate   - Check the input without writing outputs
//   uycards version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : loading, cleaning, analysis, output
//   - pkg/utils  : file helpers
//
// =============================================================================

package main

import (
	"github.com/uycards/annual-summary/cmd"
)

func main() {
	cmd.Execute()
}
