package logger

import (
	"github.com/sirupsen/logrus"
)

// StakeLogger provides dedicated logging for scoring and staking.
type StakeLogger struct {
	*logrus.Entry
}

// NewStakeLogger creates a new stake logger.
func NewStakeLogger(baseLogger *logrus.Logger) *StakeLogger {
	return &StakeLogger{
		Entry: baseLogger.WithField("component", "staking"),
	}
}

// LogRacesScored logs a scoring pass.
func (sl *StakeLogger) LogRacesScored(strategy string, races, runners int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"strategy":    strategy,
		"races":       races,
		"runners":     runners,
		"duration_ms": durationMs,
	}).Info("Races scored")
}

// LogValueBet logs one value bet.
func (sl *StakeLogger) LogValueBet(key, runner string, odds, probability, edge, kelly float64, stake string) {
	sl.WithFields(logrus.Fields{
		"key":         key,
		"runner":      runner,
		"odds":        odds,
		"probability": probability,
		"edge":        edge,
		"kelly":       kelly,
		"stake":       stake,
	}).Info("Value bet found")
}

// LogQuoteRejected logs an odds row that failed to parse or validate.
func (sl *StakeLogger) LogQuoteRejected(source string, line int, reason string) {
	sl.WithFields(logrus.Fields{
		"source": source,
		"line":   line,
		"reason": reason,
	}).Warn("Odds row rejected")
}

// LogStakingSummary logs the totals of a staking pass.
func (sl *StakeLogger) LogStakingSummary(quotes, bets int, totalStake string, expectedValue float64) {
	sl.WithFields(logrus.Fields{
		"quotes":         quotes,
		"bets":           bets,
		"total_stake":    totalStake,
		"expected_value": expectedValue,
	}).Info("Staking complete")
}
