package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DivergenceKind classifies a reconciliation finding.
type DivergenceKind string

const (
	// DivergenceMissingInLedger marks a statement entry with no ledger counterpart.
	DivergenceMissingInLedger DivergenceKind = "MISSING_IN_LEDGER"

	// DivergenceMissingInStatement marks a ledger entry with no statement counterpart.
	DivergenceMissingInStatement DivergenceKind = "MISSING_IN_STATEMENT"

	// DivergenceValueMismatch marks a pair matched under day tolerance whose
	// amounts differ beyond the configured epsilon.
	DivergenceValueMismatch DivergenceKind = "VALUE_MISMATCH"

	// DivergenceBalanceMismatch marks disagreeing running balances between the
	// two sides over the compared window.
	DivergenceBalanceMismatch DivergenceKind = "BALANCE_MISMATCH"

	// DivergenceSuspiciousClassification marks a ledger entry whose account
	// code violates a keyword rule. It is independent of match status.
	DivergenceSuspiciousClassification DivergenceKind = "SUSPICIOUS_CLASSIFICATION"
)

// EntrySnapshot preserves the original field values of one side of a
// divergence. Snapshots are taken at classification time so later stages
// cannot alter what is reported.
type EntrySnapshot struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	DocumentRef string
	AccountCode string
	OriginFile  string
	SourceLine  int
}

// SnapshotOfStatement copies a statement entry into a snapshot.
func SnapshotOfStatement(e *StatementEntry) *EntrySnapshot {
	if e == nil {
		return nil
	}
	return &EntrySnapshot{
		Date:        e.Date,
		Amount:      e.Amount,
		Description: e.Description,
		DocumentRef: e.DocumentRef,
		SourceLine:  e.SourceLine,
	}
}

// SnapshotOfLedger copies a ledger entry into a snapshot.
func SnapshotOfLedger(e *LedgerEntry) *EntrySnapshot {
	if e == nil {
		return nil
	}
	return &EntrySnapshot{
		Date:        e.Date,
		Amount:      e.Amount,
		Description: e.Description,
		DocumentRef: e.DocumentRef,
		AccountCode: e.AccountCode,
		OriginFile:  e.OriginFile,
		SourceLine:  e.SourceLine,
	}
}

// Divergence is a single reconciliation finding. Depending on the kind one
// or both side snapshots are present.
type Divergence struct {
	ID        uuid.UUID
	Kind      DivergenceKind
	Detail    string
	Statement *EntrySnapshot
	Ledger    *EntrySnapshot
	CreatedAt time.Time
}

// NewDivergence creates a new Divergence with snapshots of the given sides.
func NewDivergence(kind DivergenceKind, detail string, statement *StatementEntry, ledger *LedgerEntry) *Divergence {
	return &Divergence{
		ID:        uuid.New(),
		Kind:      kind,
		Detail:    detail,
		Statement: SnapshotOfStatement(statement),
		Ledger:    SnapshotOfLedger(ledger),
		CreatedAt: time.Now().UTC(),
	}
}
