package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/form-guide/internal/report"
	"github.com/yourusername/form-guide/internal/service"
)

var oddsFile string

var betsCmd = &cobra.Command{
	Use:   "bets [file or directory...]",
	Short: "Parse, score and list value bets against an odds table",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := oddsPath()
		if path == "" {
			return fmt.Errorf("an odds table is required: pass --odds or set staking.odds_file")
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
		quotes, err := p.LoadOdds(path)
		if err != nil {
			return err
		}
		bets := p.Bets(scored, quotes)
		return writeResult(cmd.OutOrStdout(),
			func(w io.Writer) error { return report.WriteBetsCSV(w, bets) },
			func(w io.Writer) { report.RenderBets(w, bets) },
			bets)
	},
}

func init() {
	betsCmd.Flags().StringVar(&oddsFile, "odds", "", "Odds table (.csv or .json); default staking.odds_file")
}

func oddsPath() string {
	if oddsFile != "" {
		return oddsFile
	}
	return cfg.Staking.OddsFile
}
