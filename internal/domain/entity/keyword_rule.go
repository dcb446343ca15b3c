package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeywordRule links a description keyword to the account-code prefixes an
// entry carrying that keyword is expected to use. Rules are data: they are
// evaluated in priority order and the first rule whose keyword appears in
// the normalized description decides the outcome.
type KeywordRule struct {
	ID               uuid.UUID
	Keyword          string   // matched as a substring of the normalized description
	ExpectedPrefixes []string // dotted account-code prefixes considered compatible
	Rationale        string
	Priority         int // lower values are evaluated first
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewKeywordRule creates an active keyword rule.
func NewKeywordRule(keyword string, expectedPrefixes []string, rationale string, priority int) *KeywordRule {
	now := time.Now().UTC()

	return &KeywordRule{
		ID:               uuid.New(),
		Keyword:          strings.ToLower(keyword),
		ExpectedPrefixes: expectedPrefixes,
		Rationale:        rationale,
		Priority:         priority,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// MatchesDescription reports whether the rule keyword occurs in the
// normalized description.
func (r *KeywordRule) MatchesDescription(normalizedDescription string) bool {
	return r.Keyword != "" && strings.Contains(normalizedDescription, r.Keyword)
}

// AllowsAccount reports whether the account code falls under any of the
// rule's expected prefixes.
func (r *KeywordRule) AllowsAccount(code string) bool {
	for _, p := range r.ExpectedPrefixes {
		if HasAccountPrefix(code, p) {
			return true
		}
	}
	return false
}

// DefaultKeywordRules returns the seed rule set applied when no custom
// rules were uploaded. Keywords follow the vocabulary of Brazilian
// accounting exports.
func DefaultKeywordRules() []*KeywordRule {
	return []*KeywordRule{
		NewKeywordRule("cliente", []string{"1.1", "1.2"},
			"customer movements belong to receivable asset accounts", 10),
		NewKeywordRule("fornecedor", []string{"2.1", "2.2"},
			"supplier movements belong to payable liability accounts", 20),
		NewKeywordRule("imposto", []string{"2.112"},
			"tax movements belong to tax liability accounts", 30),
		NewKeywordRule("tarifa", []string{"4"},
			"bank fees belong to expense accounts", 40),
		NewKeywordRule("juros", []string{"3", "4"},
			"interest belongs to revenue or expense accounts", 50),
	}
}
