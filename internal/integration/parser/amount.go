package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a monetary token in Brazilian ("1.234,56") or American
// ("1,234.56" / "1500.00") notation. Currency markers and surrounding
// whitespace are tolerated; a trailing "-" or "D" marks a debit, a trailing
// "C" a credit. Returns false when the token is not a number.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	switch {
	case strings.HasSuffix(s, "-") || strings.HasSuffix(strings.ToUpper(s), "D"):
		negative = true
		s = strings.TrimSpace(s[:len(s)-1])
	case strings.HasSuffix(strings.ToUpper(s), "C"):
		s = strings.TrimSpace(s[:len(s)-1])
	case strings.HasPrefix(s, "-"):
		negative = true
		s = strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "+"):
		s = strings.TrimSpace(s[1:])
	}
	if s == "" {
		return decimal.Zero, false
	}

	s = normalizeDecimalSeparators(s)

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		value = value.Neg()
	}
	return value, true
}

// normalizeDecimalSeparators rewrites a numeric token to use "." as the
// decimal separator. When both separators appear, the rightmost one is the
// decimal mark; a lone separator followed by more than two digits is a
// thousands separator.
func normalizeDecimalSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// Brazilian: 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// American: 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if len(s)-lastComma-1 <= 2 {
			// Brazilian decimal comma
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// American thousands comma
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if len(s)-lastDot-1 > 2 || strings.Count(s, ".") > 1 {
			// Thousands dots without a decimal part
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}
