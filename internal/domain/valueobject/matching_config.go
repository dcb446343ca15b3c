// Package valueobject contains domain value objects for the reconciliation backend.
package valueobject

import "github.com/shopspring/decimal"

// MatchingConfig contains the configuration for statement-to-ledger matching.
type MatchingConfig struct {
	// DayTolerance widens the date key on the second matching pass.
	// 0 keeps matching strictly same-day.
	DayTolerance int

	// AmountEpsilonCents is the largest absolute difference, in cents, still
	// treated as the same amount when pairing under day tolerance.
	AmountEpsilonCents int64

	// BalanceEpsilonCents bounds the running-balance disagreement tolerated
	// before a BALANCE_MISMATCH is raised.
	BalanceEpsilonCents int64

	// TolerateChartErrors degrades an unusable chart of accounts to "no chart
	// supplied" instead of failing the run.
	TolerateChartErrors bool
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		DayTolerance:        0,
		AmountEpsilonCents:  0,
		BalanceEpsilonCents: 0,
		TolerateChartErrors: false,
	}
}

// SameAmount checks whether two normalized amounts are equal within the
// configured epsilon.
func (c MatchingConfig) SameAmount(a, b decimal.Decimal) bool {
	diffCents := a.Sub(b).Abs().Mul(decimal.NewFromInt(100))
	return diffCents.LessThanOrEqual(decimal.NewFromInt(c.AmountEpsilonCents))
}

// SameBalance checks whether two running balances agree within the
// configured epsilon.
func (c MatchingConfig) SameBalance(a, b decimal.Decimal) bool {
	diffCents := a.Sub(b).Abs().Mul(decimal.NewFromInt(100))
	return diffCents.LessThanOrEqual(decimal.NewFromInt(c.BalanceEpsilonCents))
}
