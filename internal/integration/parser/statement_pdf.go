package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/concilia/backend/internal/domain/entity"
)

// Bank PDFs place amounts on the line before or after their date line, so
// the extracted text runs through a finite-state line scanner instead of a
// per-line regex. The state shape is shared; each issuer supplies its own
// transition table (date layout, stopwords, debit/credit markers).

type scanState int

const (
	stateSeekingEntryStart scanState = iota
	stateAccumulatingDescription
	stateAwaitingValue
	stateEntryComplete
)

var (
	moneyOnlyPattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*,\d{2}$`)
	moneyEndPattern  = regexp.MustCompile(`([+-]?\s*\d{1,3}(?:\.\d{3})*,\d{2})\s*$`)
	periodPattern    = regexp.MustCompile(`(?i)PER[IÍ]ODO\s*:\s*(\d{2}/\d{2}/\d{4})\s*[-–]\s*(\d{2}/\d{2}/\d{4})`)

	sicoobStartPattern = regexp.MustCompile(`^(\d{2})/(\d{2})(?:/(\d{2,4}))?\b`)
	nubankDayPattern   = regexp.MustCompile(`^(\d{1,2})\s+(JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ)\s+(\d{4})\b`)
	nubankDatePattern  = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\b`)
	dcMarkerPattern    = regexp.MustCompile(`^[DC]$`)
)

var ptMonths = map[string]time.Month{
	"JAN": time.January, "FEV": time.February, "MAR": time.March,
	"ABR": time.April, "MAI": time.May, "JUN": time.June,
	"JUL": time.July, "AGO": time.August, "SET": time.September,
	"OUT": time.October, "NOV": time.November, "DEZ": time.December,
}

// issuerProfile is the per-bank transition table of the scanner.
type issuerProfile struct {
	name string

	// matchEntryStart reads a date opening an entry from the line start and
	// returns the remainder of the line.
	matchEntryStart func(line string, yearHint int) (time.Time, string, bool)

	// stopwords disqualify a line entirely (headers, summaries, footers).
	stopwords []string

	// balanceIndicators mark lines whose trailing amount is a running
	// balance, not a movement.
	balanceIndicators []string

	// usesDCMarker turns isolated "D"/"C" lines into the entry sign.
	usesDCMarker bool

	// dateIsDayContext keeps the date active after an entry completes, for
	// layouts that group several movements under one day header.
	dateIsDayContext bool

	// cleanDescription strips issuer-specific noise from the final text.
	cleanDescription func(string) string
}

func sicoobProfile() issuerProfile {
	return issuerProfile{
		name: "sicoob",
		matchEntryStart: func(line string, yearHint int) (time.Time, string, bool) {
			m := sicoobStartPattern.FindStringSubmatch(line)
			if m == nil {
				return time.Time{}, "", false
			}
			day, month := atoiSafe(m[1]), atoiSafe(m[2])
			year := yearHint
			if m[3] != "" {
				year = atoiSafe(m[3])
				if year < 100 {
					year += 2000
				}
			}
			if year == 0 || !validCalendarDate(year, month, day) {
				return time.Time{}, "", false
			}
			rest := strings.TrimSpace(line[len(m[0]):])
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), rest, true
		},
		stopwords: []string{
			"SALDO ANTERIOR", "SALDO DO DIA", "SALDO EM C.CORRENTE",
			"EXTRATO CONTA", "COOP.:", "CONTA:", "PERÍODO:", "PERIODO:",
			"HISTÓRICO DE MOVIMENTAÇÃO", "DATA HISTÓRICO",
			"RESUMO", "TOTAL", "PÁGINA", "COOPERATIVA", "AGÊNCIA",
		},
		balanceIndicators: []string{"SALDO DO DIA", "SALDO ANTERIOR", "SALDO EM C.CORRENTE", "SALDO"},
		usesDCMarker:      true,
		cleanDescription: func(s string) string {
			return s
		},
	}
}

func nubankProfile() issuerProfile {
	totalLinePattern := regexp.MustCompile(`(?i)^Total\s+de\s+(entradas|sa[ií]das)\s*[+-]?\s*`)
	trailingNoise := []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+-\s+NU\s+PAGAMENTOS.*$`),
		regexp.MustCompile(`\s+Agência:.*$`),
		regexp.MustCompile(`\s+Conta:.*$`),
	}
	return issuerProfile{
		name: "nubank",
		matchEntryStart: func(line string, yearHint int) (time.Time, string, bool) {
			if m := nubankDayPattern.FindStringSubmatch(strings.ToUpper(line)); m != nil {
				day := atoiSafe(m[1])
				year := atoiSafe(m[3])
				month := ptMonths[m[2]]
				if !validCalendarDate(year, int(month), day) {
					return time.Time{}, "", false
				}
				rest := strings.TrimSpace(line[len(m[0]):])
				return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), rest, true
			}
			if m := nubankDatePattern.FindStringSubmatch(line); m != nil {
				if t, ok := parseDate(m[1]); ok {
					return t, strings.TrimSpace(line[len(m[0]):]), true
				}
			}
			return time.Time{}, "", false
		},
		stopwords: []string{
			"EXTRATO", "OUVIDORIA", "CNPJ", "NU PAGAMENTOS S.A",
		},
		balanceIndicators: []string{"SALDO"},
		dateIsDayContext:  true,
		cleanDescription: func(s string) string {
			s = totalLinePattern.ReplaceAllString(s, "")
			for _, p := range trailingNoise {
				s = p.ReplaceAllString(s, "")
			}
			return strings.TrimSpace(s)
		},
	}
}

// pendingEntry is the entry under construction.
type pendingEntry struct {
	date      time.Time
	descLines []string
	value     decimal.Decimal
	hasValue  bool
	dcMark    string
	startLine int
}

// scanStatementLines runs the state machine over extracted PDF text lines.
func scanStatementLines(lines []string, profile issuerProfile, yearHint int) ([]*entity.StatementEntry, []string) {
	var (
		entries      []*entity.StatementEntry
		issues       []string
		current      *pendingEntry
		state        = stateSeekingEntryStart
		dayContext   time.Time
		pendingValue *decimal.Decimal
		lastBalance  *decimal.Decimal
	)

	finalize := func() {
		if current == nil {
			return
		}
		entry := finalizeEntry(current, profile)
		if entry != nil {
			entries = append(entries, entry)
		} else if !current.hasValue {
			issues = append(issues, fmt.Sprintf("line %d: entry discarded, no usable amount", current.startLine))
		}
		current = nil
		state = stateSeekingEntryStart
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if isBalanceLine(line, profile) {
			if v, ok := trailingAmount(line); ok {
				lastBalance = &v
				if len(entries) > 0 && entries[len(entries)-1].Balance == nil {
					entries[len(entries)-1].Balance = lastBalance
				}
			}
			continue
		}
		if hasStopword(line, profile.stopwords) {
			continue
		}

		// Isolated D/C marker.
		if profile.usesDCMarker && dcMarkerPattern.MatchString(strings.ToUpper(line)) {
			if current != nil && current.dcMark == "" {
				current.dcMark = strings.ToUpper(line)
			}
			continue
		}

		// Value-only line: closes the pending entry, or is buffered for the
		// next date line when no entry is open (values printed above dates).
		if moneyOnlyPattern.MatchString(line) {
			v, _ := parseAmount(line)
			switch {
			case current != nil && !current.hasValue:
				current.value = v
				current.hasValue = true
				state = stateEntryComplete
				if !profile.usesDCMarker {
					finalize()
				}
			case nextLineOpensEntry(lines, i, profile, yearHint):
				pendingValue = &v
			}
			continue
		}

		if date, rest, ok := profile.matchEntryStart(line, yearHint); ok {
			finalize()
			current = &pendingEntry{date: date, startLine: i + 1}
			state = stateAccumulatingDescription
			dayContext = date
			if pendingValue != nil {
				current.value = *pendingValue
				current.hasValue = true
				pendingValue = nil
			}
			if rest != "" {
				if v, trimmed, ok := splitTrailingAmount(rest); ok && !current.hasValue {
					current.value = v
					current.hasValue = true
					rest = trimmed
					state = stateEntryComplete
				}
				if rest != "" {
					current.descLines = append(current.descLines, rest)
				}
			}
			if state != stateEntryComplete {
				state = stateAwaitingValue
			}
			if state == stateEntryComplete && !profile.usesDCMarker && profile.dateIsDayContext {
				finalize()
			}
			continue
		}

		// Continuation lines while an entry is open.
		if current != nil {
			if v, trimmed, ok := splitTrailingAmount(line); ok && !current.hasValue {
				current.value = v
				current.hasValue = true
				if trimmed != "" {
					current.descLines = append(current.descLines, trimmed)
				}
				state = stateEntryComplete
				if !profile.usesDCMarker {
					finalize()
				}
				continue
			}
			current.descLines = append(current.descLines, line)
			if !current.hasValue {
				state = stateAwaitingValue
			}
			continue
		}

		// No open entry: day-context layouts emit one entry per value line.
		if profile.dateIsDayContext && !dayContext.IsZero() {
			if v, trimmed, ok := splitTrailingAmount(line); ok && trimmed != "" {
				current = &pendingEntry{
					date:      dayContext,
					descLines: []string{trimmed},
					value:     v,
					hasValue:  true,
					startLine: i + 1,
				}
				finalize()
			}
		}
	}
	finalize()

	// The last balance line of the statement is the closing balance.
	if lastBalance != nil && len(entries) > 0 && entries[len(entries)-1].Balance == nil {
		entries[len(entries)-1].Balance = lastBalance
	}

	return entries, issues
}

// finalizeEntry turns the pending state into a statement entry, applying
// the debit/credit marker and issuer description cleanup.
func finalizeEntry(p *pendingEntry, profile issuerProfile) *entity.StatementEntry {
	if !p.hasValue || p.value.IsZero() {
		return nil
	}

	value := p.value
	mark := p.dcMark
	if mark == "" && profile.usesDCMarker {
		// Issuers that mark direction separately list debits by default.
		mark = "D"
	}
	switch mark {
	case "D":
		value = value.Abs().Neg()
	case "C":
		value = value.Abs()
	}

	description := strings.Join(p.descLines, " ")
	description = moneyEndPattern.ReplaceAllString(description, "")
	description = strings.Join(strings.Fields(description), " ")
	if profile.cleanDescription != nil {
		description = profile.cleanDescription(description)
	}
	if description == "" {
		// Day headers and summary rows reduce to an empty description once
		// the noise is stripped; they are not movements.
		if profile.dateIsDayContext {
			return nil
		}
		description = "sem descricao"
	}

	return &entity.StatementEntry{
		Date:        p.date,
		Amount:      value,
		Description: description,
		SourceLine:  p.startLine,
	}
}

// inferYearFromPeriod extracts the statement year from a "PERÍODO:
// DD/MM/YYYY - DD/MM/YYYY" header. Zero means no period was found.
func inferYearFromPeriod(text string) int {
	m := periodPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	if end, ok := parseDate(m[2]); ok {
		return end.Year()
	}
	return 0
}

// detectIssuer identifies the bank from first-page text.
func detectIssuer(firstPage string) entity.SourceKind {
	lower := strings.ToLower(firstPage)
	switch {
	case strings.Contains(lower, "nubank") || strings.Contains(lower, "nu pagamentos"):
		return entity.SourcePDFNubank
	case strings.Contains(lower, "sicoob") || strings.Contains(lower, "sistema de cooperativas"):
		return entity.SourcePDFSicoob
	default:
		return entity.SourcePDFAuto
	}
}

func nextLineOpensEntry(lines []string, i int, profile issuerProfile, yearHint int) bool {
	for j := i + 1; j < len(lines); j++ {
		next := strings.TrimSpace(lines[j])
		if next == "" {
			continue
		}
		_, _, ok := profile.matchEntryStart(next, yearHint)
		return ok
	}
	return false
}

func isBalanceLine(line string, profile issuerProfile) bool {
	upper := strings.ToUpper(line)
	for _, ind := range profile.balanceIndicators {
		if strings.Contains(upper, ind) {
			return true
		}
	}
	return false
}

func hasStopword(line string, stopwords []string) bool {
	upper := strings.ToUpper(line)
	for _, w := range stopwords {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

// splitTrailingAmount reads a monetary token off the end of a line.
func splitTrailingAmount(line string) (decimal.Decimal, string, bool) {
	m := moneyEndPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return decimal.Zero, line, false
	}
	token := line[m[2]:m[3]]
	v, ok := parseAmount(strings.ReplaceAll(token, " ", ""))
	if !ok {
		return decimal.Zero, line, false
	}
	return v, strings.TrimSpace(line[:m[2]]), true
}

func trailingAmount(line string) (decimal.Decimal, bool) {
	v, _, ok := splitTrailingAmount(line)
	return v, ok
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func validCalendarDate(year, month, day int) bool {
	if year < 1900 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}
