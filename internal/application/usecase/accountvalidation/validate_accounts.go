// Package accountvalidation contains the deterministic account-code validator.
package accountvalidation

import (
	"context"
	"fmt"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
	"github.com/concilia/backend/internal/domain/valueobject"
)

// ValidateAccountsInput carries the ledger entries to validate and the
// reference data to validate them against. A nil chart means no chart was
// uploaded; rules may be empty.
type ValidateAccountsInput struct {
	Entries []*entity.LedgerEntry
	Chart   *entity.ChartOfAccounts
	Rules   []*entity.KeywordRule
}

// ValidateAccountsOutput carries per-entry verdicts plus summary counts.
type ValidateAccountsOutput struct {
	Results []*entity.AccountValidationResult
	Summary entity.ValidationSummary
}

// ValidateAccountsUseCase decides ok / invalid / unknown for every ledger
// entry. Verdicts are purely deterministic: the same entries, chart and
// rules always produce the same output.
type ValidateAccountsUseCase struct{}

// NewValidateAccountsUseCase creates a new ValidateAccountsUseCase instance.
func NewValidateAccountsUseCase() *ValidateAccountsUseCase {
	return &ValidateAccountsUseCase{}
}

// Execute validates every entry.
//
// unknown: no chart supplied, or the code exists but no rule asserts
// anything about its description. invalid: the code is absent from the
// chart (entries with no code included) or a matching rule vetoes it.
// ok: the code is in the chart and the first matching rule allows it.
func (uc *ValidateAccountsUseCase) Execute(ctx context.Context, input ValidateAccountsInput) (*ValidateAccountsOutput, error) {
	out := &ValidateAccountsOutput{
		Results: make([]*entity.AccountValidationResult, 0, len(input.Entries)),
	}

	for _, e := range input.Entries {
		result := uc.validateEntry(e, input.Chart, input.Rules)
		out.Results = append(out.Results, result)
		out.Summary.Total++
		switch result.Status {
		case entity.AccountStatusOK:
			out.Summary.OK++
		case entity.AccountStatusInvalid:
			out.Summary.Invalid++
		default:
			out.Summary.Unknown++
		}
	}

	return out, nil
}

func (uc *ValidateAccountsUseCase) validateEntry(
	e *entity.LedgerEntry,
	chart *entity.ChartOfAccounts,
	rules []*entity.KeywordRule,
) *entity.AccountValidationResult {
	if chart == nil || chart.Len() == 0 {
		return &entity.AccountValidationResult{
			Entry:  e,
			Status: entity.AccountStatusUnknown,
			Reason: "no chart of accounts available",
		}
	}

	if e.AccountCode == "" {
		return &entity.AccountValidationResult{
			Entry:  e,
			Status: entity.AccountStatusInvalid,
			Reason: "entry carries no account code",
		}
	}

	if _, ok := chart.Lookup(e.AccountCode); !ok {
		return &entity.AccountValidationResult{
			Entry:  e,
			Status: entity.AccountStatusInvalid,
			Reason: fmt.Sprintf("account %s not found in chart", e.AccountCode),
		}
	}

	rule := firstApplicableRule(rules, e)
	if rule == nil {
		return &entity.AccountValidationResult{
			Entry:  e,
			Status: entity.AccountStatusUnknown,
			Reason: "account exists but no rule covers this description",
		}
	}

	if !rule.AllowsAccount(e.AccountCode) {
		return &entity.AccountValidationResult{
			Entry:  e,
			Status: entity.AccountStatusInvalid,
			Reason: fmt.Sprintf("account %s conflicts with rule %q", e.AccountCode, rule.Keyword),
			Rule:   rule,
		}
	}

	return &entity.AccountValidationResult{
		Entry:  e,
		Status: entity.AccountStatusOK,
		Reason: fmt.Sprintf("account %s allowed by rule %q", e.AccountCode, rule.Keyword),
		Rule:   rule,
	}
}

// firstApplicableRule applies first-match-wins over rules sorted by priority.
func firstApplicableRule(rules []*entity.KeywordRule, e *entity.LedgerEntry) *entity.KeywordRule {
	normalized := valueobject.NormalizeDescription(e.Description)
	best := (*entity.KeywordRule)(nil)
	for _, r := range rules {
		if !r.IsActive || !r.MatchesDescription(normalized) {
			continue
		}
		if best == nil || r.Priority < best.Priority {
			best = r
		}
	}
	return best
}

// LoadRules returns the stored rules, seeding and reloading the defaults on
// first use.
func LoadRules(ctx context.Context, repo adapter.KeywordRuleRepository) ([]*entity.KeywordRule, error) {
	rules, err := repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		return rules, nil
	}
	if err := repo.SeedDefaults(ctx); err != nil {
		return nil, err
	}
	return repo.GetActive(ctx)
}
