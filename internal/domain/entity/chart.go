package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChartAccount is one node of an uploaded chart of accounts. Codes use a
// dotted hierarchy ("1", "1.1", "1.1.2"); the parent code, when present,
// must be a strict prefix of the code.
type ChartAccount struct {
	ID         uuid.UUID
	Code       string
	Name       string
	Level      int
	ParentCode string
	Type       string // analytical or synthetic, as exported by the accounting system
	Nature     string // debit or credit nature, free-form from the source
	SourceTag  string // identifies the upload this account came from
	CreatedAt  time.Time
}

// NewChartAccount creates a chart account node.
func NewChartAccount(code, name string, level int, parentCode, accType, nature, sourceTag string) *ChartAccount {
	return &ChartAccount{
		ID:         uuid.New(),
		Code:       code,
		Name:       name,
		Level:      level,
		ParentCode: parentCode,
		Type:       accType,
		Nature:     nature,
		SourceTag:  sourceTag,
		CreatedAt:  time.Now().UTC(),
	}
}

// ChartOfAccounts is an indexed view over an uploaded chart. It answers
// membership and prefix queries for the account validator.
type ChartOfAccounts struct {
	byCode  map[string]*ChartAccount
	ordered []*ChartAccount
}

// NewChartOfAccounts indexes the given accounts. Duplicate codes keep the
// first occurrence.
func NewChartOfAccounts(accounts []*ChartAccount) *ChartOfAccounts {
	c := &ChartOfAccounts{byCode: make(map[string]*ChartAccount, len(accounts))}
	for _, a := range accounts {
		if _, exists := c.byCode[a.Code]; exists {
			continue
		}
		c.byCode[a.Code] = a
		c.ordered = append(c.ordered, a)
	}
	return c
}

// Lookup returns the account with the exact code.
func (c *ChartOfAccounts) Lookup(code string) (*ChartAccount, bool) {
	a, ok := c.byCode[code]
	return a, ok
}

// HasAccountPrefix reports whether code equals prefix or descends from it in
// the dotted hierarchy ("1.1" covers "1.1" and "1.1.2", not "1.10").
func HasAccountPrefix(code, prefix string) bool {
	if code == prefix {
		return true
	}
	return strings.HasPrefix(code, prefix+".")
}

// Accounts returns the accounts in upload order.
func (c *ChartOfAccounts) Accounts() []*ChartAccount {
	return c.ordered
}

// Len returns the number of distinct account codes.
func (c *ChartOfAccounts) Len() int {
	return len(c.byCode)
}
