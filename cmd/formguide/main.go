// Package main provides the formguide CLI: parse greyhound form guides, score
// runners and size value bets.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yourusername/form-guide/internal/models"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// exitEmpty is returned when a run parsed nothing and output.fail_on_empty is set.
const exitEmpty = 3

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, models.ErrEmptyRun) {
			os.Exit(exitEmpty)
		}
		os.Exit(1)
	}
}
