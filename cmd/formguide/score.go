package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/form-guide/internal/report"
	"github.com/yourusername/form-guide/internal/scoring"
	"github.com/yourusername/form-guide/internal/service"
)

var strategyName string

var scoreCmd = &cobra.Command{
	Use:   "score [file or directory...]",
	Short: "Parse form guides and score every race",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strategyName != "" {
			cfg.Scoring.Strategy = strategyName
		}
		p, err := service.FromConfig(cfg, appLog, nil)
		if err != nil {
			return err
		}
		rows, err := parseInputs(cmd, p, args)
		if err != nil {
			return err
		}
		scored, err := p.Score(rows)
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(),
			func(w io.Writer) error { return report.WriteScoredCSV(w, scored) },
			func(w io.Writer) { report.RenderPicks(w, scored) },
			scored)
	},
}

func init() {
	scoreCmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "Scoring strategy, one of "+strings.Join(scoring.Names(), ", "))
}
