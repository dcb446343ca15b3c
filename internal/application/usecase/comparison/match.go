// Package comparison implements the statement-to-ledger reconciliation pipeline.
package comparison

import (
	"fmt"
	"sort"

	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
	"github.com/concilia/backend/internal/domain/valueobject"
)

// MatchOutcome is the result of pairing the two sides: one-to-one matches
// plus whatever remained unmatched, in original input order.
type MatchOutcome struct {
	Matched            []entity.MatchResult
	UnmatchedLedger    []*entity.LedgerEntry
	UnmatchedStatement []*entity.StatementEntry
}

// candidatePair is a possible ledger/statement pairing under evaluation.
type candidatePair struct {
	ledgerIdx    int
	statementIdx int
	similarity   float64
	dayDistance  int
}

// MatchEntries pairs ledger entries with statement entries.
//
// Both sides are grouped by (calendar day, amount in cents). Buckets with
// equal counts pair in input order. Buckets with surplus on one side pair
// greedily by descending description similarity, ties resolved by input
// order. When a day tolerance is configured, a second pass pairs leftovers
// whose dates fall within the window, preferring the smallest day distance;
// exact-date matches are never displaced by tolerance matches.
//
// Every input entry lands in exactly one result and no entry appears twice;
// a violation of that guarantee aborts with a ComparisonError.
func MatchEntries(
	ledger []*entity.LedgerEntry,
	statement []*entity.StatementEntry,
	cfg valueobject.MatchingConfig,
) (*MatchOutcome, error) {
	ledgerUsed := make([]bool, len(ledger))
	statementUsed := make([]bool, len(statement))

	ledgerBuckets := make(map[valueobject.NormalizedKey][]int)
	ledgerNorm := make([]string, len(ledger))
	for i, e := range ledger {
		key := valueobject.NewNormalizedKey(e.Date, e.Amount)
		ledgerBuckets[key] = append(ledgerBuckets[key], i)
		ledgerNorm[i] = valueobject.NormalizeDescription(e.Description)
	}

	statementBuckets := make(map[valueobject.NormalizedKey][]int)
	statementNorm := make([]string, len(statement))
	for j, e := range statement {
		key := valueobject.NewNormalizedKey(e.Date, e.Amount)
		statementBuckets[key] = append(statementBuckets[key], j)
		statementNorm[j] = valueobject.NormalizeDescription(e.Description)
	}

	var matched []entity.MatchResult
	pair := func(i, j int) {
		ledgerUsed[i] = true
		statementUsed[j] = true
		matched = append(matched, entity.MatchResult{Ledger: ledger[i], Statement: statement[j]})
	}

	// Exact pass: bucket keys agree on day and cents.
	keys := make([]valueobject.NormalizedKey, 0, len(ledgerBuckets))
	for key := range ledgerBuckets {
		if _, ok := statementBuckets[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(a, b int) bool {
		if !keys[a].Day.Equal(keys[b].Day) {
			return keys[a].Day.Before(keys[b].Day)
		}
		return keys[a].AmountCents < keys[b].AmountCents
	})

	for _, key := range keys {
		ledgerIdxs := ledgerBuckets[key]
		statementIdxs := statementBuckets[key]

		if len(ledgerIdxs) == len(statementIdxs) {
			for n := range ledgerIdxs {
				pair(ledgerIdxs[n], statementIdxs[n])
			}
			continue
		}

		// Surplus bucket: rank every cross pair by similarity, then input order.
		candidates := make([]candidatePair, 0, len(ledgerIdxs)*len(statementIdxs))
		for _, i := range ledgerIdxs {
			for _, j := range statementIdxs {
				candidates = append(candidates, candidatePair{
					ledgerIdx:    i,
					statementIdx: j,
					similarity:   valueobject.DescriptionSimilarity(ledgerNorm[i], statementNorm[j]),
				})
			}
		}
		takeGreedy(candidates, ledgerUsed, statementUsed, pair)
	}

	// Tolerance pass: leftovers may pair across nearby days.
	if cfg.DayTolerance > 0 {
		var candidates []candidatePair
		for i, e := range ledger {
			if ledgerUsed[i] {
				continue
			}
			ledgerKey := valueobject.NewNormalizedKey(e.Date, e.Amount)
			for j, s := range statement {
				if statementUsed[j] {
					continue
				}
				if !cfg.SameAmount(e.Amount.RoundBank(2), s.Amount.RoundBank(2)) {
					continue
				}
				statementKey := valueobject.NewNormalizedKey(s.Date, s.Amount)
				distance := dayDistance(ledgerKey, statementKey)
				if distance > cfg.DayTolerance {
					continue
				}
				candidates = append(candidates, candidatePair{
					ledgerIdx:    i,
					statementIdx: j,
					similarity:   valueobject.DescriptionSimilarity(ledgerNorm[i], statementNorm[j]),
					dayDistance:  distance,
				})
			}
		}
		takeGreedy(candidates, ledgerUsed, statementUsed, pair)
	}

	out := &MatchOutcome{Matched: matched}
	for i, e := range ledger {
		if !ledgerUsed[i] {
			out.UnmatchedLedger = append(out.UnmatchedLedger, e)
		}
	}
	for j, e := range statement {
		if !statementUsed[j] {
			out.UnmatchedStatement = append(out.UnmatchedStatement, e)
		}
	}

	accounted := 2*len(out.Matched) + len(out.UnmatchedLedger) + len(out.UnmatchedStatement)
	if accounted != len(ledger)+len(statement) {
		return nil, domainerror.NewComparisonError(
			domainerror.ErrCodeComparisonInvariant,
			fmt.Sprintf("matching accounted for %d of %d entries", accounted, len(ledger)+len(statement)),
			domainerror.ErrComparisonInvariant,
		)
	}
	return out, nil
}

// takeGreedy consumes candidate pairs best-first, skipping any whose side
// was already taken. Ordering: smallest day distance, highest similarity,
// then original input order on each side.
func takeGreedy(candidates []candidatePair, ledgerUsed, statementUsed []bool, pair func(i, j int)) {
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.dayDistance != cb.dayDistance {
			return ca.dayDistance < cb.dayDistance
		}
		if ca.similarity != cb.similarity {
			return ca.similarity > cb.similarity
		}
		if ca.ledgerIdx != cb.ledgerIdx {
			return ca.ledgerIdx < cb.ledgerIdx
		}
		return ca.statementIdx < cb.statementIdx
	})

	for _, c := range candidates {
		if ledgerUsed[c.ledgerIdx] || statementUsed[c.statementIdx] {
			continue
		}
		pair(c.ledgerIdx, c.statementIdx)
	}
}

func dayDistance(a, b valueobject.NormalizedKey) int {
	diff := int(a.Day.Sub(b.Day).Hours() / 24)
	if diff < 0 {
		return -diff
	}
	return diff
}
