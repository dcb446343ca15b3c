package parser

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
	"github.com/concilia/backend/internal/domain/valueobject"
)

// Column name variants accepted by the statement CSV mapper. Matching is
// diacritic-insensitive and bidirectional on substring, so "Data Lançamento"
// satisfies "data".
var (
	csvDateColumns        = []string{"data", "dt", "data lancamento", "data movimento", "date", "data operacao"}
	csvDescriptionColumns = []string{"descricao", "historico", "hist", "description", "memo", "nome", "descricao operacao"}
	csvAmountColumns      = []string{"valor", "val", "amount", "valor movimento"}
	csvDebitColumns       = []string{"debito", "deb", "debit"}
	csvCreditColumns      = []string{"credito", "cred", "credit"}
	csvDocumentColumns    = []string{"documento", "doc", "num doc", "numero documento"}
	csvBalanceColumns     = []string{"saldo", "sld", "balance"}
)

// parseStatementCSV reads a structured statement export. The delimiter is
// sniffed from the header line; header names are matched loosely; stray
// quoting and short rows are recoverable, not fatal.
func parseStatementCSV(fileName string, data []byte) ([]*entity.StatementEntry, int, []string, error) {
	text := decodeText(data)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectCSVDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, nil, domainerror.NewParseError(domainerror.ErrCodeMalformedFile,
			"csv unreadable", fileName, 0, "", err)
	}
	if len(records) < 1 {
		return nil, 0, nil, domainerror.NewEmptyResultError(fileName)
	}

	header := records[0]
	dateIdx := findColumn(header, csvDateColumns)
	descIdx := findColumn(header, csvDescriptionColumns)
	amountIdx := findColumn(header, csvAmountColumns)
	debitIdx := findColumn(header, csvDebitColumns)
	creditIdx := findColumn(header, csvCreditColumns)
	documentIdx := findColumn(header, csvDocumentColumns)
	balanceIdx := findColumn(header, csvBalanceColumns)

	if dateIdx < 0 {
		return nil, 0, nil, domainerror.NewParseError(domainerror.ErrCodeMissingColumns,
			"date column not found", fileName, 1, strings.Join(header, ","), domainerror.ErrMalformedFile)
	}
	if descIdx < 0 {
		return nil, 0, nil, domainerror.NewParseError(domainerror.ErrCodeMissingColumns,
			"description column not found", fileName, 1, strings.Join(header, ","), domainerror.ErrMalformedFile)
	}
	if amountIdx < 0 && debitIdx < 0 && creditIdx < 0 {
		return nil, 0, nil, domainerror.NewParseError(domainerror.ErrCodeMissingColumns,
			"no amount, debit or credit column found", fileName, 1, strings.Join(header, ","), domainerror.ErrMalformedFile)
	}

	var (
		entries []*entity.StatementEntry
		issues  []string
		skipped int
	)

	for rowIdx, row := range records[1:] {
		lineNo := rowIdx + 2
		if isEmptyRow(row) {
			continue
		}

		dateStr := cell(row, dateIdx)
		date, ok := parseDate(dateStr)
		if !ok {
			skipped++
			issues = append(issues, fmt.Sprintf("line %d: invalid date %q", lineNo, dateStr))
			continue
		}

		description := strings.TrimSpace(cell(row, descIdx))
		if description == "" {
			skipped++
			continue
		}

		amount := readRowAmount(row, amountIdx, debitIdx, creditIdx)
		if amount.IsZero() {
			skipped++
			continue
		}

		entry := &entity.StatementEntry{
			Date:        date,
			Amount:      amount,
			Description: description,
			DocumentRef: strings.TrimSpace(cell(row, documentIdx)),
			SourceLine:  lineNo,
		}
		if balanceIdx >= 0 {
			if b, ok := parseAmount(cell(row, balanceIdx)); ok {
				entry.Balance = &b
			}
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, skipped, issues, domainerror.NewEmptyResultError(fileName)
	}
	return entries, skipped, issues, nil
}

// readRowAmount reads the single amount column, falling back to the
// debit/credit pair with the usual sign convention.
func readRowAmount(row []string, amountIdx, debitIdx, creditIdx int) decimal.Decimal {
	if amountIdx >= 0 {
		if v, ok := parseAmount(cell(row, amountIdx)); ok && !v.IsZero() {
			return v
		}
	}
	if debitIdx >= 0 {
		if v, ok := parseAmount(cell(row, debitIdx)); ok && !v.IsZero() {
			return v.Abs().Neg()
		}
	}
	if creditIdx >= 0 {
		if v, ok := parseAmount(cell(row, creditIdx)); ok && !v.IsZero() {
			return v.Abs()
		}
	}
	return decimal.Zero
}

// detectCSVDelimiter sniffs ";" versus "," from the first line.
func detectCSVDelimiter(text string) rune {
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// findColumn locates a header by any of its name variants.
func findColumn(header []string, names []string) int {
	for idx, h := range header {
		norm := valueobject.NormalizeDescription(h)
		if norm == "" {
			continue
		}
		for _, name := range names {
			if strings.Contains(norm, name) || strings.Contains(name, norm) {
				return idx
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
