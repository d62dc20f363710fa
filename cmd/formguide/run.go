package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/form-guide/internal/database"
	"github.com/yourusername/form-guide/internal/report"
	"github.com/yourusername/form-guide/internal/repository"
	"github.com/yourusername/form-guide/internal/service"
)

var (
	inputDir  string
	outputDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline over a directory and write the report artifacts",
	Long: `run parses every form guide in the input directory, scores the races, joins
the odds table when one is configured and writes parsed.csv, probabilities.csv,
value_bets.csv and summary.md into <output.dir>/<date>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		date, err := runDate()
		if err != nil {
			return err
		}

		runs, closeDB, err := openRuns(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		p, err := service.FromConfig(cfg, appLog, runs)
		if err != nil {
			return err
		}

		req := runRequest()
		req.RunDate = date

		res, err := p.Run(ctx, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report.RenderPicks(out, res.Rows)
		if len(res.Bets) > 0 {
			fmt.Fprintln(out)
			report.RenderBets(out, res.Bets)
		}
		appLog.WithFields(logrus.Fields{
			"run_id":    res.Run.ID.String(),
			"artifacts": len(res.Artifacts),
			"stats":     res.Stats.String(),
		}).Info("Run finished")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, watchCmd} {
		c.Flags().StringVarP(&inputDir, "input", "i", "", "Input directory (default parser.input_dir)")
		c.Flags().StringVarP(&outputDir, "out", "o", "", "Report directory (default <output.dir>/<date>)")
		c.Flags().StringVar(&oddsFile, "odds", "", "Odds table (.csv or .json); default staking.odds_file")
	}
}

func runRequest() service.RunRequest {
	req := service.RunRequest{
		InputDir:   cfg.Parser.InputDir,
		OddsFile:   oddsPath(),
		OutputDir:  outputDir,
		OutputRoot: cfg.Output.Dir,
		Trigger:    service.TriggerCLI,
	}
	if inputDir != "" {
		req.InputDir = inputDir
	}
	return req
}

// openRuns connects the run repository when output.persist is set. The
// returned close func is always safe to call.
func openRuns(ctx context.Context) (repository.RunRepository, func(), error) {
	db, err := openDB(ctx)
	if err != nil || db == nil {
		return nil, func() {}, err
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, func() {}, err
	}
	return repos.Run, db.Close, nil
}

func openDB(ctx context.Context) (*database.DB, error) {
	if !cfg.Database.Enabled || !cfg.Output.Persist {
		return nil, nil
	}
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	appLog.WithField("host", cfg.Database.Host).Info("Database connection established")
	return db, nil
}
