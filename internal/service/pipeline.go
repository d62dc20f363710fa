// Package service wires extraction, parsing, scoring and staking into one run.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/form-guide/internal/config"
	"github.com/yourusername/form-guide/internal/health"
	"github.com/yourusername/form-guide/internal/logger"
	"github.com/yourusername/form-guide/internal/metrics"
	"github.com/yourusername/form-guide/internal/models"
	"github.com/yourusername/form-guide/internal/odds"
	"github.com/yourusername/form-guide/internal/pagetext"
	"github.com/yourusername/form-guide/internal/parser"
	"github.com/yourusername/form-guide/internal/report"
	"github.com/yourusername/form-guide/internal/repository"
	"github.com/yourusername/form-guide/internal/scoring"
	"github.com/yourusername/form-guide/internal/staking"
)

const (
	defaultWorkers = 4
	dateLayout     = "2006-01-02"
)

// Trigger values recorded on runs.
const (
	TriggerCLI      = "cli"
	TriggerSchedule = "schedule"
)

// Options configures a Pipeline.
type Options struct {
	Workers int
	// CacheTTL enables the parsed-document memo when positive.
	CacheTTL time.Duration
	// DebugDir receives extracted text of empty documents and extraction errors.
	DebugDir    string
	FailOnEmpty bool
	// Matchers overrides the classifier order by matcher name.
	Matchers  []string
	Extractor pagetext.Extractor
	Runs      repository.RunRepository
	Now       func() time.Time
}

// Pipeline turns a directory of form guides into scored rows, value bets and
// report artifacts.
type Pipeline struct {
	extractor   pagetext.Extractor
	classifier  *parser.Classifier
	scorer      *scoring.Scorer
	calculator  *staking.Calculator
	oddsLoader  *odds.Loader
	validator   *RowValidator
	runs        repository.RunRepository
	cache       *cache.Cache
	workers     int
	debugDir    string
	failOnEmpty bool
	now         func() time.Time

	logger   *logrus.Logger
	parseLog *logger.ParseLogger
	stakeLog *logger.StakeLogger
	audit    *logger.AuditLogger

	mu      sync.RWMutex
	last    health.RunStatus
	hasLast bool
}

// NewPipeline creates a pipeline around an explicit scorer and calculator.
func NewPipeline(scorer *scoring.Scorer, calculator *staking.Calculator, log *logrus.Logger, opts Options) (*Pipeline, error) {
	if scorer == nil || calculator == nil {
		return nil, fmt.Errorf("scorer and calculator are required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	classifier, err := BuildClassifier(opts.Matchers)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		extractor:   opts.Extractor,
		classifier:  classifier,
		scorer:      scorer,
		calculator:  calculator,
		oddsLoader:  odds.NewLoader(),
		validator:   NewRowValidator(),
		runs:        opts.Runs,
		workers:     opts.Workers,
		debugDir:    opts.DebugDir,
		failOnEmpty: opts.FailOnEmpty,
		now:         opts.Now,
		logger:      log,
		parseLog:    logger.NewParseLogger(log),
		stakeLog:    logger.NewStakeLogger(log),
		audit:       logger.NewAuditLogger(log),
	}
	if p.extractor == nil {
		p.extractor = pagetext.ExtractorFunc(pagetext.Extract)
	}
	if p.workers <= 0 {
		p.workers = defaultWorkers
	}
	if p.now == nil {
		p.now = time.Now
	}
	if opts.CacheTTL > 0 {
		p.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return p, nil
}

// FromConfig builds the scorer, calculator and pipeline described by cfg.
func FromConfig(cfg *config.Config, log *logrus.Logger, runs repository.RunRepository) (*Pipeline, error) {
	strategy, err := scoring.New(scoring.Params{
		Name:        cfg.Scoring.Strategy,
		Temperature: cfg.Scoring.Temperature,
		Weights: scoring.Weights{
			Form: cfg.Scoring.Weights.Form,
			Box:  cfg.Scoring.Weights.Box,
			Pace: cfg.Scoring.Weights.Pace,
		},
		BoxValues: cfg.BoxTable(),
	})
	if err != nil {
		return nil, err
	}

	calculator := staking.NewCalculator(staking.Config{
		Bankroll:      cfg.Staking.Bankroll,
		KellyFraction: cfg.Staking.KellyFraction,
		MinEdge:       cfg.Staking.MinEdge,
		MaxStake:      cfg.Staking.MaxStake,
	})

	return NewPipeline(scoring.NewScorer(strategy), calculator, log, Options{
		Workers:     cfg.Parser.Workers,
		CacheTTL:    cfg.CacheTTL(),
		DebugDir:    cfg.Parser.DebugDir,
		FailOnEmpty: cfg.Output.FailOnEmpty,
		Matchers:    cfg.Parser.Matchers,
		Runs:        runs,
	})
}

// BuildClassifier orders the standard matchers by name. No names keeps the
// default order.
func BuildClassifier(names []string) (*parser.Classifier, error) {
	if len(names) == 0 {
		return parser.NewClassifier(), nil
	}
	byName := make(map[string]parser.Matcher)
	for _, m := range parser.DefaultMatchers() {
		byName[m.Name] = m
	}
	ordered := make([]parser.Matcher, 0, len(names))
	for _, name := range names {
		m, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown matcher %q", name)
		}
		ordered = append(ordered, m)
	}
	return parser.NewClassifier(ordered...), nil
}

// Strategy returns the scoring strategy name.
func (p *Pipeline) Strategy() string {
	return p.scorer.Strategy().Name()
}

// Discover lists the supported documents directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !pagetext.Supported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// DocumentReport describes what happened to one input document.
type DocumentReport struct {
	Path     string
	Identity parser.Identity
	Rows     int
	Stats    parser.Stats
	Cached   bool
	Err      error
}

// Name returns the document's file name.
func (d DocumentReport) Name() string {
	return filepath.Base(d.Path)
}

// ParseOutcome is the merged result of parsing a set of documents.
type ParseOutcome struct {
	Rows      []models.RunnerRow
	Documents []DocumentReport
	Lines     parser.Stats
	// Duplicates counts rows dropped because an earlier document already had
	// the same key.
	Duplicates int
	Stats      *RunStats
}

// Parsed returns the names of the documents that were read successfully.
func (o ParseOutcome) Parsed() []string {
	var names []string
	for _, d := range o.Documents {
		if d.Err == nil {
			names = append(names, d.Name())
		}
	}
	return names
}

// ParseFiles parses documents concurrently. Each worker fills its own slot;
// slots are merged in input order and deduplicated across documents.
func (p *Pipeline) ParseFiles(ctx context.Context, paths []string, runDate time.Time) (ParseOutcome, error) {
	stats := NewRunStats(p.now(), len(paths))

	results := make([]parser.Result, len(paths))
	reports := make([]DocumentReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], reports[i] = p.parseDocument(path, runDate, stats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ParseOutcome{}, err
	}

	var all []models.RunnerRow
	var lines parser.Stats
	for _, res := range results {
		all = append(all, res.Rows...)
		lines.Add(res.Stats)
	}
	rows, dups := parser.Dedupe(all)

	return ParseOutcome{
		Rows:       rows,
		Documents:  reports,
		Lines:      lines,
		Duplicates: dups,
		Stats:      stats,
	}, nil
}

func (p *Pipeline) parseDocument(path string, runDate time.Time, stats *RunStats) (parser.Result, DocumentReport) {
	name := filepath.Base(path)
	doc := DocumentReport{Path: path}
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return p.failDocument(doc, fmt.Errorf("failed to read document: %w", err), stats)
	}

	key := cacheKey(data, name, runDate)
	if p.cache != nil {
		if v, ok := p.cache.Get(key); ok {
			res := v.(parser.Result)
			p.parseLog.LogCacheHit(name, key[:12])
			metrics.RecordDocumentCached()
			stats.RecordCached(len(res.Rows))
			doc.Identity, doc.Rows, doc.Stats, doc.Cached = res.Identity, len(res.Rows), res.Stats, true
			return res, doc
		}
	}

	lines, err := p.extractor.Extract(path)
	if err != nil {
		return p.failDocument(doc, err, stats)
	}

	res := parser.ParseDocument(parser.Document{ID: name, Lines: lines}, runDate, p.classifier)
	elapsed := time.Since(start)

	if res.Identity.Track == models.Unknown || res.Identity.Date == models.Unknown {
		p.parseLog.LogUnknownIdentity(name, res.Identity.Track, res.Identity.Date)
	}
	for _, o := range res.Orphans {
		p.parseLog.LogOrphanLine(name, o.LineNo, o.Text)
	}
	p.parseLog.LogDocumentParsed(name, res.Identity.Track, res.Identity.Date,
		res.Stats.Lines, len(res.Rows), res.Stats.Orphans, res.Stats.Duplicates, res.Stats.Unmatched,
		float64(elapsed.Microseconds())/1000.0)
	metrics.RecordDocument(metrics.DocumentStats{
		Noise:       res.Stats.Noise,
		Headers:     res.Stats.Headers,
		Runners:     res.Stats.Runners,
		Annotations: res.Stats.Annotations,
		Unmatched:   res.Stats.Unmatched,
		Rows:        len(res.Rows),
		Orphans:     res.Stats.Orphans,
		Duplicates:  res.Stats.Duplicates,
	}, elapsed.Seconds())
	stats.RecordParsed(len(res.Rows))

	if len(res.Rows) == 0 {
		p.writeDebug(name, ".txt", strings.Join(lines, "\n")+"\n")
	}
	if p.cache != nil {
		p.cache.SetDefault(key, res)
	}

	doc.Identity, doc.Rows, doc.Stats = res.Identity, len(res.Rows), res.Stats
	return res, doc
}

func (p *Pipeline) failDocument(doc DocumentReport, err error, stats *RunStats) (parser.Result, DocumentReport) {
	name := doc.Name()
	p.parseLog.LogExtractionFailed(name, err)
	metrics.RecordDocumentFailed()
	stats.RecordFailed()
	p.writeDebug(name, ".error.txt", err.Error()+"\n")
	doc.Err = err
	return parser.Result{}, doc
}

// cacheKey identifies a parse by content, file name and run date; the name
// and date feed identity resolution.
func cacheKey(data []byte, name string, runDate time.Time) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + "|" + name + "|" + runDate.Format(dateLayout)
}

// writeDebug dumps a file named after the document stem. Failures are logged.
func (p *Pipeline) writeDebug(name, suffix, content string) {
	if p.debugDir == "" {
		return
	}
	if err := os.MkdirAll(p.debugDir, 0o755); err != nil {
		p.logger.WithError(err).Warn("Failed to create debug directory")
		return
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	path := filepath.Join(p.debugDir, stem+suffix)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		p.logger.WithError(err).WithField("path", path).Warn("Failed to write debug dump")
	}
}

// Score turns rows into per-race probabilities.
func (p *Pipeline) Score(rows []models.RunnerRow) ([]models.ScoredRow, error) {
	start := time.Now()
	scored, err := p.scorer.ScoreRows(rows)
	if err != nil {
		return nil, err
	}
	races := countRaces(rows)
	metrics.RecordRacesScored(p.Strategy(), races)
	p.stakeLog.LogRacesScored(p.Strategy(), races, len(rows), float64(time.Since(start).Microseconds())/1000.0)
	return scored, nil
}

func countRaces(rows []models.RunnerRow) int {
	seen := make(map[models.RaceKey]struct{})
	for _, r := range rows {
		seen[r.RaceKey()] = struct{}{}
	}
	return len(seen)
}

// LoadOdds reads an odds table. An empty path yields no quotes.
func (p *Pipeline) LoadOdds(path string) ([]models.OddsQuote, error) {
	if path == "" {
		return nil, nil
	}
	table, err := p.oddsLoader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, r := range table.Rejected {
		p.stakeLog.LogQuoteRejected(path, r.Line, r.Reason)
	}
	metrics.RecordQuotesRejected(len(table.Rejected))
	return table.Quotes, nil
}

// Bets joins quotes onto scored rows and sizes the value bets.
func (p *Pipeline) Bets(scored []models.ScoredRow, quotes []models.OddsQuote) []models.ValueBet {
	bets := p.calculator.ValueBets(scored, quotes)
	for _, b := range bets {
		p.stakeLog.LogValueBet(b.Key().String(), b.Runner, b.OddsDecimal, b.ProbWin, b.Edge, b.Kelly, b.Stake.StringFixed(2))
	}
	summary := staking.Summarize(bets)
	p.stakeLog.LogStakingSummary(len(quotes), summary.Bets, summary.TotalStake.StringFixed(2), summary.ExpectedValue)
	metrics.RecordValueBets(len(bets))
	return bets
}

// RunRequest describes one end-to-end run.
type RunRequest struct {
	InputDir string
	OddsFile string
	// OutputDir receives report artifacts. When empty and OutputRoot is set,
	// artifacts go to OutputRoot/<run date>; with neither, nothing is written.
	OutputDir  string
	OutputRoot string
	Trigger    string
	// RunDate supplies the year for names that omit it; zero means today.
	RunDate time.Time
}

// RunResult is everything a run produced.
type RunResult struct {
	Run       models.Run
	Documents []DocumentReport
	Rows      []models.ScoredRow
	Bets      []models.ValueBet
	Artifacts []string
	Stats     RunCounts
}

// Run discovers, parses, scores and stakes every document in the input
// directory, then writes artifacts and persists the run when configured.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	started := p.now()
	runDate := req.RunDate
	if runDate.IsZero() {
		runDate = started
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerCLI
	}
	run := models.Run{
		ID:        uuid.New(),
		Trigger:   trigger,
		Strategy:  p.Strategy(),
		StartedAt: started,
	}
	runID := run.ID.String()

	paths, err := Discover(req.InputDir)
	if err != nil {
		return nil, p.failRun(run, err)
	}
	run.Documents = len(paths)
	p.audit.LogRunStarted(runID, trigger, run.Strategy, len(paths), started)

	outcome, err := p.ParseFiles(ctx, paths, runDate)
	if err != nil {
		return nil, p.failRun(run, err)
	}
	if len(outcome.Rows) == 0 && p.failOnEmpty {
		return nil, p.failRun(run, fmt.Errorf("%d documents in %s: %w", len(paths), req.InputDir, models.ErrEmptyRun))
	}

	scored, err := p.Score(outcome.Rows)
	if err != nil {
		return nil, p.failRun(run, err)
	}
	if err := p.validator.ValidateRows(scored); err != nil {
		return nil, p.failRun(run, err)
	}

	quotes, err := p.LoadOdds(req.OddsFile)
	if err != nil {
		return nil, p.failRun(run, err)
	}
	bets := p.Bets(scored, quotes)

	run.Rows = len(scored)
	run.Bets = len(bets)
	run.TotalStake = staking.Summarize(bets).TotalStake

	result := &RunResult{
		Documents: outcome.Documents,
		Rows:      scored,
		Bets:      bets,
	}

	outDir := req.OutputDir
	if outDir == "" && req.OutputRoot != "" {
		outDir = filepath.Join(req.OutputRoot, runDate.Format(dateLayout))
	}
	if outDir != "" {
		files, err := report.Save(outDir, report.Summary{
			Date:      runDate.Format(dateLayout),
			Documents: outcome.Parsed(),
			Rows:      scored,
			Bets:      bets,
		})
		if err != nil {
			return nil, p.failRun(run, err)
		}
		result.Artifacts = files
		p.audit.LogArtifactsWritten(runID, outDir, files)
	}

	run.FinishedAt = p.now()
	if p.runs != nil {
		if err := p.persist(ctx, &run, scored, bets); err != nil {
			return nil, p.failRun(run, err)
		}
	}

	outcome.Stats.Finish(run.Rows, countRaces(outcome.Rows), run.Bets, run.Duration())
	result.Stats = outcome.Stats.Snapshot()
	result.Run = run

	metrics.RecordRun("ok", run.Rows, run.TotalStake.InexactFloat64(), run.FinishedAt.Unix(), run.Duration().Seconds())
	p.audit.LogRunCompleted(runID, run.Rows, result.Stats.Races, run.Bets, result.Stats.Failed, run.Duration())
	p.setLast(health.RunStatus{RunID: runID, FinishedAt: run.FinishedAt, Rows: run.Rows, Bets: run.Bets})
	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, run *models.Run, scored []models.ScoredRow, bets []models.ValueBet) error {
	if err := p.runs.SaveRun(ctx, run); err != nil {
		return err
	}
	rows, err := p.runs.SaveScoredRows(ctx, run, scored)
	if err != nil {
		return err
	}
	saved, err := p.runs.SaveValueBets(ctx, run, bets)
	if err != nil {
		return err
	}
	p.audit.LogRowsPersisted(run.ID.String(), rows, saved)
	return nil
}

func (p *Pipeline) failRun(run models.Run, err error) error {
	finished := p.now()
	run.FinishedAt = finished
	status := "error"
	if errors.Is(err, models.ErrEmptyRun) {
		status = "empty"
	}
	metrics.RecordRun(status, 0, 0, finished.Unix(), run.Duration().Seconds())
	p.audit.LogRunFailed(run.ID.String(), err)
	p.setLast(health.RunStatus{RunID: run.ID.String(), FinishedAt: finished, Err: err.Error()})
	return err
}

func (p *Pipeline) setLast(s health.RunStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = s
	p.hasLast = true
}

// RestoreLastRun seeds LastRun from the latest persisted run so a restarted
// process still reports it. It does nothing without a repository or once a
// run has completed in this process.
func (p *Pipeline) RestoreLastRun(ctx context.Context) error {
	if p.runs == nil {
		return nil
	}
	if _, ok := p.LastRun(); ok {
		return nil
	}
	run, err := p.runs.GetLatestRun(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load latest run: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasLast {
		p.last = health.RunStatus{RunID: run.ID.String(), FinishedAt: run.FinishedAt, Rows: run.Rows, Bets: run.Bets}
		p.hasLast = true
	}
	return nil
}

// LastRun reports the most recent run; ok is false before the first one.
func (p *Pipeline) LastRun() (health.RunStatus, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.hasLast
}
