// Package parser converts uploaded artifacts into canonical entries.
package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
)

// Parser implements adapter.ArtifactParser. It holds no state; every call
// is a pure function of the file bytes.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseLedger reads an Otimiza TXT export.
func (p *Parser) ParseLedger(fileName string, data []byte, role entity.LedgerFileRole) (*adapter.ParsedLedger, error) {
	entries, skipped, issues, err := parseLedgerTXT(fileName, data, role)
	if err != nil {
		return nil, err
	}

	slog.Debug("ledger file parsed",
		"file", fileName, "entries", len(entries), "skipped_lines", skipped)

	return &adapter.ParsedLedger{
		Entries: entries,
		Diagnostics: entity.ArtifactDiagnostics{
			FileName:     fileName,
			Kind:         entity.SourceLedgerTXT,
			EntryCount:   len(entries),
			SkippedLines: skipped,
			Issues:       issues,
		},
	}, nil
}

// ParseStatement reads a bank statement of the declared kind.
func (p *Parser) ParseStatement(fileName string, data []byte, kind entity.SourceKind) (*adapter.ParsedStatement, error) {
	var (
		entries []*entity.StatementEntry
		skipped int
		issues  []string
		err     error
	)

	switch kind {
	case entity.SourceCSVStatement:
		entries, skipped, issues, err = parseStatementCSV(fileName, data)
	case entity.SourceOFXStatement:
		entries, skipped, issues, err = parseStatementOFX(fileName, data)
	case entity.SourcePDFNubank, entity.SourcePDFSicoob, entity.SourcePDFAuto:
		entries, issues, err = p.parseStatementPDF(fileName, data, kind)
	default:
		return nil, domainerror.NewParseError(domainerror.ErrCodeUnsupportedSourceKind,
			fmt.Sprintf("no parser for source kind %q", kind), fileName, 0, "",
			domainerror.ErrUnsupportedSourceKind)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("statement file parsed",
		"file", fileName, "kind", string(kind), "entries", len(entries))

	return &adapter.ParsedStatement{
		Entries: entries,
		Diagnostics: entity.ArtifactDiagnostics{
			FileName:     fileName,
			Kind:         kind,
			EntryCount:   len(entries),
			SkippedLines: skipped,
			Issues:       issues,
		},
	}, nil
}

// ParseChart reads a chart-of-accounts CSV.
func (p *Parser) ParseChart(fileName string, data []byte, sourceTag string) ([]*entity.ChartAccount, error) {
	return parseChartCSV(fileName, data, sourceTag)
}

// parseStatementPDF extracts text lines and runs the issuer state machine.
// A generic PDF kind is resolved by first-page detection; when detection is
// inconclusive both issuer profiles run and the richer result wins.
func (p *Parser) parseStatementPDF(fileName string, data []byte, kind entity.SourceKind) ([]*entity.StatementEntry, []string, error) {
	lines, err := extractPDFLines(fileName, data)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, domainerror.NewParseError(domainerror.ErrCodeUnreadablePDF,
			"pdf has no extractable text", fileName, 0, "", domainerror.ErrMalformedFile)
	}

	fullText := joinLines(lines)
	yearHint := inferYearFromPeriod(fullText)
	if yearHint == 0 {
		yearHint = time.Now().UTC().Year()
	}

	if kind == entity.SourcePDFAuto {
		kind = detectIssuer(fullText)
	}

	switch kind {
	case entity.SourcePDFNubank:
		entries, issues := scanStatementLines(lines, nubankProfile(), yearHint)
		return finishPDFScan(fileName, entries, issues)
	case entity.SourcePDFSicoob:
		entries, issues := scanStatementLines(lines, sicoobProfile(), yearHint)
		return finishPDFScan(fileName, entries, issues)
	default:
		// Issuer unknown: run both profiles, keep the richer result.
		nubankEntries, nubankIssues := scanStatementLines(lines, nubankProfile(), yearHint)
		sicoobEntries, sicoobIssues := scanStatementLines(lines, sicoobProfile(), yearHint)
		if len(nubankEntries) >= len(sicoobEntries) {
			return finishPDFScan(fileName, nubankEntries, nubankIssues)
		}
		return finishPDFScan(fileName, sicoobEntries, sicoobIssues)
	}
}

func finishPDFScan(fileName string, entries []*entity.StatementEntry, issues []string) ([]*entity.StatementEntry, []string, error) {
	if len(entries) == 0 {
		return nil, issues, domainerror.NewEmptyResultError(fileName)
	}
	return entries, issues, nil
}

// extractPDFLines pulls text rows from every page, top to bottom.
func extractPDFLines(fileName string, data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domainerror.NewParseError(domainerror.ErrCodeUnreadablePDF,
			"pdf unreadable", fileName, 0, "", err)
	}

	var lines []string
	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, domainerror.NewParseError(domainerror.ErrCodeUnreadablePDF,
				fmt.Sprintf("pdf page %d unreadable", pageNo), fileName, 0, "", err)
		}
		for _, row := range rows {
			var b bytes.Buffer
			for _, word := range row.Content {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			lines = append(lines, b.String())
		}
	}
	return lines, nil
}

func joinLines(lines []string) string {
	var b bytes.Buffer
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
