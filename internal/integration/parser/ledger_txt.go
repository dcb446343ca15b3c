package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
)

// Otimiza exports are line-oriented but not fully regular across variants.
// Each line runs through an ordered list of matchers, most specific first:
// delimited layout, date-first layout, date-in-the-middle layout. The first
// matcher that produces an entry wins; lines no matcher accepts are skipped
// and counted.

var (
	ledgerDateFirstPattern = regexp.MustCompile(
		`^(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+([\d.,-]+)\s*(?i:(D|C|DEBITO|CREDITO))?$`)
	ledgerDateMiddlePattern = regexp.MustCompile(
		`^(.+?)\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+([\d.,-]+)`)
	ledgerDelimiterPattern = regexp.MustCompile(`[|;\t]+`)
	numericTokenPattern    = regexp.MustCompile(`^[\d.,-]+$`)
	accountCodePattern     = regexp.MustCompile(`^\d+(?:\.\d+)*$`)
)

var ledgerHeaderWords = []string{
	"DATA", "DESCRIÇÃO", "DESCRICAO", "HISTÓRICO", "HISTORICO", "DOCUMENTO",
	"VALOR", "DÉBITO", "DEBITO", "CRÉDITO", "CREDITO", "SALDO", "LANÇAMENTO", "LANCAMENTO",
}

// parseLedgerTXT reads one Otimiza TXT export. The file role fixes the sign
// convention afterwards: payable entries become debits, receivable entries
// credits.
func parseLedgerTXT(fileName string, data []byte, role entity.LedgerFileRole) ([]*entity.LedgerEntry, int, []string, error) {
	var (
		entries []*entity.LedgerEntry
		issues  []string
		skipped int
	)

	lines := strings.Split(decodeText(data), "\n")
	for lineNo, raw := range lines {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || isLedgerHeaderLine(line) {
			continue
		}

		entry := matchLedgerLine(line)
		if entry == nil {
			skipped++
			issues = append(issues, truncateIssue(line))
			continue
		}
		entry.OriginFile = fileName
		entry.SourceLine = lineNo + 1
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, skipped, issues, domainerror.NewEmptyResultError(fileName)
	}

	applyLedgerRole(entries, role)
	return entries, skipped, issues, nil
}

// matchLedgerLine tries the ordered matchers and returns the first hit.
func matchLedgerLine(line string) *entity.LedgerEntry {
	if strings.ContainsAny(line, "|;\t") {
		if e := matchDelimitedLedgerLine(line); e != nil {
			return e
		}
	}
	if e := matchDateFirstLedgerLine(line); e != nil {
		return e
	}
	return matchDateMiddleLedgerLine(line)
}

// matchDelimitedLedgerLine reads the delimited Otimiza layout. The date sits
// in one of the first three fields; the amount is the first decimal token
// after it; code-like fields around the date carry the account code and the
// document reference.
func matchDelimitedLedgerLine(line string) *entity.LedgerEntry {
	fields := ledgerDelimiterPattern.Split(line, -1)
	trimmed := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if len(trimmed) == 0 && f == "" {
			continue
		}
		trimmed = append(trimmed, f)
	}
	if len(trimmed) < 3 {
		return nil
	}

	date, dateIdx := findDelimitedDate(trimmed)
	if dateIdx < 0 {
		return nil
	}

	amountIdx := -1
	var amount decimal.Decimal
	for i := dateIdx + 1; i < len(trimmed); i++ {
		f := trimmed[i]
		if f == "" || !numericTokenPattern.MatchString(f) || !hasDecimalMark(f) {
			continue
		}
		if v, ok := parseAmount(f); ok {
			amount = v
			amountIdx = i
			break
		}
	}
	if amountIdx < 0 || amount.IsZero() {
		return nil
	}

	description := pickDelimitedDescription(trimmed, dateIdx, amountIdx)
	accountCode, documentRef := pickDelimitedCodes(trimmed, dateIdx, amountIdx)

	return &entity.LedgerEntry{
		Date:        date,
		Amount:      amount,
		Description: description,
		DocumentRef: documentRef,
		AccountCode: accountCode,
	}
}

// findDelimitedDate scans the first three fields for a date token.
func findDelimitedDate(fields []string) (time.Time, int) {
	limit := 3
	if len(fields) < limit {
		limit = len(fields)
	}
	for i := 0; i < limit; i++ {
		if t, ok := parseDate(fields[i]); ok {
			return t, i
		}
	}
	return time.Time{}, -1
}

// pickDelimitedDescription prefers the longest non-numeric field after the
// amount, falling back to the field right after the date.
func pickDelimitedDescription(fields []string, dateIdx, amountIdx int) string {
	best := ""
	for i := amountIdx + 1; i < len(fields); i++ {
		f := fields[i]
		if f == "" || numericTokenPattern.MatchString(f) {
			continue
		}
		if len(f) > len(best) {
			best = f
		}
	}
	if best != "" {
		return best
	}
	if dateIdx+1 < len(fields) && dateIdx+1 != amountIdx && !numericTokenPattern.MatchString(fields[dateIdx+1]) {
		return fields[dateIdx+1]
	}
	for _, f := range fields[:dateIdx] {
		if f != "" && !numericTokenPattern.MatchString(f) {
			return f
		}
	}
	return ""
}

// pickDelimitedCodes takes the account code from the field preceding the
// date when it looks like one, otherwise from the first code-like field
// between date and amount. The next code-like field becomes the document
// reference.
func pickDelimitedCodes(fields []string, dateIdx, amountIdx int) (accountCode, documentRef string) {
	var codes []string
	if dateIdx > 0 && accountCodePattern.MatchString(fields[dateIdx-1]) {
		codes = append(codes, fields[dateIdx-1])
	}
	for i := dateIdx + 1; i < amountIdx; i++ {
		if accountCodePattern.MatchString(fields[i]) {
			codes = append(codes, fields[i])
		}
	}
	if len(codes) > 0 {
		accountCode = codes[0]
	}
	if len(codes) > 1 {
		documentRef = codes[1]
	}
	return accountCode, documentRef
}

func matchDateFirstLedgerLine(line string) *entity.LedgerEntry {
	m := ledgerDateFirstPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	date, ok := parseDate(m[1])
	if !ok {
		return nil
	}
	amount, ok := parseAmount(m[3])
	if !ok || amount.IsZero() {
		return nil
	}
	switch strings.ToUpper(m[4]) {
	case "D", "DEBITO":
		amount = amount.Abs().Neg()
	case "C", "CREDITO":
		amount = amount.Abs()
	}
	return &entity.LedgerEntry{
		Date:        date,
		Amount:      amount,
		Description: strings.TrimSpace(m[2]),
	}
}

func matchDateMiddleLedgerLine(line string) *entity.LedgerEntry {
	m := ledgerDateMiddlePattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	date, ok := parseDate(m[2])
	if !ok {
		return nil
	}
	amount, ok := parseAmount(m[4])
	if !ok || amount.IsZero() {
		return nil
	}
	description := strings.TrimSpace(m[1] + " " + m[3])
	return &entity.LedgerEntry{
		Date:        date,
		Amount:      amount,
		Description: description,
	}
}

// applyLedgerRole fixes signs by export role: payable exports list debits,
// receivable exports list credits.
func applyLedgerRole(entries []*entity.LedgerEntry, role entity.LedgerFileRole) {
	switch role {
	case entity.RolePayable:
		for _, e := range entries {
			e.Amount = e.Amount.Abs().Neg()
		}
	case entity.RoleReceivable:
		for _, e := range entries {
			e.Amount = e.Amount.Abs()
		}
	}
}

func isLedgerHeaderLine(line string) bool {
	// Header lines never carry a parsable date token.
	if strings.ContainsAny(line, "|;\t") {
		return false
	}
	upper := strings.ToUpper(line)
	hits := 0
	for _, w := range ledgerHeaderWords {
		if strings.Contains(upper, w) {
			hits++
		}
	}
	return hits >= 2
}

func hasDecimalMark(s string) bool {
	if i := strings.LastIndex(s, ","); i >= 0 && len(s)-i-1 <= 2 {
		return true
	}
	if i := strings.LastIndex(s, "."); i >= 0 && len(s)-i-1 <= 2 {
		return true
	}
	return false
}

func truncateIssue(line string) string {
	const max = 100
	if len(line) > max {
		line = line[:max]
	}
	return "unparsed line: " + line
}
