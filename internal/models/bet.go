package models

import (
	"github.com/shopspring/decimal"
)

// ValueBet is a scored runner whose model probability beats the market by at
// least the configured minimum edge.
type ValueBet struct {
	ScoredRow
	OddsDecimal float64         `json:"odds_decimal"`
	Implied     float64         `json:"implied"`
	Edge        float64         `json:"edge"`
	Kelly       float64         `json:"kelly"` // raw (full) Kelly fraction, clipped at 0
	Stake       decimal.Decimal `json:"stake"`
}

// ExpectedValue returns the expected profit of the stake at the quoted price.
func (v ValueBet) ExpectedValue() float64 {
	stake := v.Stake.InexactFloat64()
	if stake <= 0 || v.OddsDecimal <= 1 {
		return 0
	}
	return v.ProbWin*(v.OddsDecimal-1)*stake - (1-v.ProbWin)*stake
}
