package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/form-guide/internal/models"
	"github.com/yourusername/form-guide/internal/report"
	"github.com/yourusername/form-guide/internal/service"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file or directory...]",
	Short: "Extract runner rows from form guides",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := service.FromConfig(cfg, appLog, nil)
		if err != nil {
			return err
		}
		rows, err := parseInputs(cmd, p, args)
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(),
			func(w io.Writer) error { return report.WriteRowsCSV(w, rows) },
			nil, rows)
	},
}

// parseInputs parses every input and applies output.fail_on_empty.
func parseInputs(cmd *cobra.Command, p *service.Pipeline, args []string) ([]models.RunnerRow, error) {
	paths, err := resolveInputs(args)
	if err != nil {
		return nil, err
	}
	date, err := runDate()
	if err != nil {
		return nil, err
	}
	outcome, err := p.ParseFiles(cmd.Context(), paths, date)
	if err != nil {
		return nil, err
	}
	if len(outcome.Rows) == 0 && cfg.Output.FailOnEmpty {
		return nil, models.ErrEmptyRun
	}
	return outcome.Rows, nil
}
