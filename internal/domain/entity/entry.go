// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind identifies the declared format of an uploaded artifact.
type SourceKind string

const (
	SourceLedgerTXT    SourceKind = "ledger_txt"
	SourcePDFNubank    SourceKind = "pdf_nubank"
	SourcePDFSicoob    SourceKind = "pdf_sicoob"
	SourcePDFAuto      SourceKind = "pdf"
	SourceCSVStatement SourceKind = "csv"
	SourceOFXStatement SourceKind = "ofx"
)

// LedgerFileRole tells which export a ledger TXT artifact represents.
// The role fixes the sign convention: payable entries are debits,
// receivable entries are credits.
type LedgerFileRole string

const (
	RolePayable     LedgerFileRole = "payable"
	RoleReceivable  LedgerFileRole = "receivable"
	RoleUnspecified LedgerFileRole = "unspecified"
)

// Side identifies which input an entry came from.
type Side string

const (
	SideLedger    Side = "ledger"
	SideStatement Side = "statement"
)

// StatementEntry is a bank-reported movement parsed from a statement
// artifact. Amounts are signed: positive for credits, negative for debits.
// Entries are immutable once parsed.
type StatementEntry struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	DocumentRef string
	Balance     *decimal.Decimal // running balance, when the source reports one
	SourceLine  int              // 1-based line in the source document, for diagnostics
}

// LedgerEntry is an accounting-system record parsed from a ledger export.
// It shares the statement entry shape plus the account classification and
// the file it came from (up to two TXT exports may be merged per run).
type LedgerEntry struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	DocumentRef string
	AccountCode string // dotted hierarchy, e.g. "1.1.2"
	Balance     *decimal.Decimal
	OriginFile  string
	SourceLine  int
}

// MatchResult pairs a ledger entry with a statement entry, or records an
// entry left unmatched on one side. A match is a value relationship, not an
// ownership relationship: both entries keep their original identity.
type MatchResult struct {
	Ledger    *LedgerEntry
	Statement *StatementEntry
}

// IsMatched reports whether both sides are present.
func (m MatchResult) IsMatched() bool {
	return m.Ledger != nil && m.Statement != nil
}

// UnmatchedSide returns the side of an unmatched result. It is only
// meaningful when IsMatched is false.
func (m MatchResult) UnmatchedSide() Side {
	if m.Ledger != nil {
		return SideLedger
	}
	return SideStatement
}
