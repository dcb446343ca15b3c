package adapter

import "github.com/concilia/backend/internal/domain/entity"

// ParsedLedger is the outcome of parsing one ledger export.
type ParsedLedger struct {
	Entries     []*entity.LedgerEntry
	Diagnostics entity.ArtifactDiagnostics
}

// ParsedStatement is the outcome of parsing one bank statement.
type ParsedStatement struct {
	Entries     []*entity.StatementEntry
	Diagnostics entity.ArtifactDiagnostics
}

// ArtifactParser converts uploaded file bytes into canonical entries.
// Implementations are pure: same bytes in, same entries out.
type ArtifactParser interface {
	// ParseLedger reads a ledger TXT export. The role fixes the sign
	// convention of the parsed amounts.
	ParseLedger(fileName string, data []byte, role entity.LedgerFileRole) (*ParsedLedger, error)

	// ParseStatement reads a bank statement of the declared kind.
	ParseStatement(fileName string, data []byte, kind entity.SourceKind) (*ParsedStatement, error)

	// ParseChart reads a chart-of-accounts CSV.
	ParseChart(fileName string, data []byte, sourceTag string) ([]*entity.ChartAccount, error)
}
