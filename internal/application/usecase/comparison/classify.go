package comparison

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/concilia/backend/internal/domain/entity"
	"github.com/concilia/backend/internal/domain/valueobject"
)

// ClassifyDivergences maps a match outcome to the divergence list.
//
// Unmatched entries become MISSING_IN_LEDGER / MISSING_IN_STATEMENT.
// Matched pairs whose amounts still differ at cent level (possible when the
// tolerance pass paired near-miss amounts) become VALUE_MISMATCH. Keyword
// rules run over every ledger entry regardless of match status. Each
// divergence snapshots the original field values of the side(s) involved.
func ClassifyDivergences(outcome *MatchOutcome, rules []*entity.KeywordRule) []*entity.Divergence {
	var divergences []*entity.Divergence

	for _, e := range outcome.UnmatchedStatement {
		divergences = append(divergences, entity.NewDivergence(
			entity.DivergenceMissingInLedger,
			fmt.Sprintf("statement entry of %s on %s has no ledger counterpart",
				e.Amount.StringFixed(2), e.Date.Format("2006-01-02")),
			e, nil,
		))
	}

	for _, e := range outcome.UnmatchedLedger {
		divergences = append(divergences, entity.NewDivergence(
			entity.DivergenceMissingInStatement,
			fmt.Sprintf("ledger entry of %s on %s has no statement counterpart",
				e.Amount.StringFixed(2), e.Date.Format("2006-01-02")),
			nil, e,
		))
	}

	for _, m := range outcome.Matched {
		lCents := m.Ledger.Amount.RoundBank(2)
		sCents := m.Statement.Amount.RoundBank(2)
		if !lCents.Equal(sCents) {
			divergences = append(divergences, entity.NewDivergence(
				entity.DivergenceValueMismatch,
				fmt.Sprintf("matched pair differs by %s",
					lCents.Sub(sCents).Abs().StringFixed(2)),
				m.Statement, m.Ledger,
			))
		}
	}

	ordered := orderedRules(rules)
	appendRuleDivergence := func(e *entity.LedgerEntry) {
		rule := firstMatchingRule(ordered, valueobject.NormalizeDescription(e.Description))
		if rule == nil || e.AccountCode == "" || rule.AllowsAccount(e.AccountCode) {
			return
		}
		divergences = append(divergences, entity.NewDivergence(
			entity.DivergenceSuspiciousClassification,
			fmt.Sprintf("description matches %q but account %s is outside %v",
				rule.Keyword, e.AccountCode, rule.ExpectedPrefixes),
			nil, e,
		))
	}
	for _, m := range outcome.Matched {
		appendRuleDivergence(m.Ledger)
	}
	for _, e := range outcome.UnmatchedLedger {
		appendRuleDivergence(e)
	}

	return divergences
}

// CheckBalances compares the closing running balances of the two sides. The
// check needs balance snapshots on both sides; when either side carries
// none it is skipped rather than approximated from net movement.
func CheckBalances(
	ledger []*entity.LedgerEntry,
	statement []*entity.StatementEntry,
	cfg valueobject.MatchingConfig,
) *entity.Divergence {
	var ledgerClosing, statementClosing *decimal.Decimal
	for _, e := range ledger {
		if e.Balance != nil {
			ledgerClosing = e.Balance
		}
	}
	for _, e := range statement {
		if e.Balance != nil {
			statementClosing = e.Balance
		}
	}
	if ledgerClosing == nil || statementClosing == nil {
		return nil
	}
	if cfg.SameBalance(*ledgerClosing, *statementClosing) {
		return nil
	}
	return entity.NewDivergence(
		entity.DivergenceBalanceMismatch,
		fmt.Sprintf("closing balances disagree: ledger %s, statement %s",
			ledgerClosing.StringFixed(2), statementClosing.StringFixed(2)),
		nil, nil,
	)
}

// orderedRules returns the active rules sorted by priority, stable on the
// incoming order for equal priorities.
func orderedRules(rules []*entity.KeywordRule) []*entity.KeywordRule {
	active := make([]*entity.KeywordRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(a, b int) bool {
		return active[a].Priority < active[b].Priority
	})
	return active
}

// firstMatchingRule applies first-match-wins over the ordered rule list.
func firstMatchingRule(ordered []*entity.KeywordRule, normalizedDescription string) *entity.KeywordRule {
	for _, r := range ordered {
		if r.MatchesDescription(normalizedDescription) {
			return r
		}
	}
	return nil
}
