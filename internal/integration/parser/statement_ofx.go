package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
)

// OFX ships as SGML (1.x) or XML (2.x); both wrap movements in STMTTRN
// blocks with the same inner tags, so a tag scan covers both without a
// full SGML parser.
var (
	stmtTrnPattern  = regexp.MustCompile(`(?is)<STMTTRN>(.*?)</STMTTRN>`)
	dtPostedPattern = regexp.MustCompile(`(?i)<DTPOSTED[^>]*>([^<\r\n]+)`)
	trnAmtPattern   = regexp.MustCompile(`(?i)<TRNAMT[^>]*>([^<\r\n]+)`)
	fitIDPattern    = regexp.MustCompile(`(?i)<FITID[^>]*>([^<\r\n]+)`)
	memoPattern     = regexp.MustCompile(`(?i)<MEMO[^>]*>([^<\r\n]+)`)
	namePattern     = regexp.MustCompile(`(?i)<NAME[^>]*>([^<\r\n]+)`)
)

// parseStatementOFX reads the STMTTRN blocks of an OFX statement.
func parseStatementOFX(fileName string, data []byte) ([]*entity.StatementEntry, int, []string, error) {
	content := decodeText(data)

	blocks := stmtTrnPattern.FindAllStringSubmatch(content, -1)
	if len(blocks) == 0 {
		return nil, 0, nil, domainerror.NewEmptyResultError(fileName)
	}

	var (
		entries []*entity.StatementEntry
		issues  []string
		skipped int
	)

	for idx, block := range blocks {
		trn := block[1]
		trnNo := idx + 1

		posted := firstGroup(dtPostedPattern, trn)
		if posted == "" {
			skipped++
			issues = append(issues, fmt.Sprintf("transaction %d: DTPOSTED missing", trnNo))
			continue
		}
		date, ok := parseOFXDate(posted)
		if !ok {
			skipped++
			issues = append(issues, fmt.Sprintf("transaction %d: invalid DTPOSTED %q", trnNo, posted))
			continue
		}

		amountStr := firstGroup(trnAmtPattern, trn)
		if amountStr == "" {
			skipped++
			issues = append(issues, fmt.Sprintf("transaction %d: TRNAMT missing", trnNo))
			continue
		}
		// OFX amounts use American notation.
		amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
		if err != nil || amount.IsZero() {
			skipped++
			continue
		}

		description := strings.TrimSpace(firstGroup(memoPattern, trn))
		if description == "" {
			description = strings.TrimSpace(firstGroup(namePattern, trn))
		}
		if description == "" {
			description = "sem descricao"
		}

		entries = append(entries, &entity.StatementEntry{
			Date:        date,
			Amount:      amount,
			Description: description,
			DocumentRef: strings.TrimSpace(firstGroup(fitIDPattern, trn)),
			SourceLine:  trnNo,
		})
	}

	if len(entries) == 0 {
		return nil, skipped, issues, domainerror.NewEmptyResultError(fileName)
	}
	return entries, skipped, issues, nil
}

func firstGroup(p *regexp.Regexp, s string) string {
	m := p.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
