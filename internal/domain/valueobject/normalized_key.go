package valueobject

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizedKey is the bucket key used by the matching engine: the calendar
// day plus the signed amount rounded half-even to cents.
type NormalizedKey struct {
	Day         time.Time
	AmountCents int64
}

// NewNormalizedKey builds the key for a date and amount. The time-of-day
// component is discarded; the amount is rounded to cents with banker's
// rounding so .005 boundaries resolve the same way on both sides.
func NewNormalizedKey(date time.Time, amount decimal.Decimal) NormalizedKey {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	cents := amount.RoundBank(2).Mul(decimal.NewFromInt(100)).IntPart()
	return NormalizedKey{Day: day, AmountCents: cents}
}

// ShiftDays returns the key moved by the given number of days, for
// tolerance lookups.
func (k NormalizedKey) ShiftDays(days int) NormalizedKey {
	return NormalizedKey{Day: k.Day.AddDate(0, 0, days), AmountCents: k.AmountCents}
}

var (
	diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// Noise tokens that differ between bank and ledger descriptions of the
	// same movement: document numbers, CNPJ/CPF fragments, masked digits
	// and payment-reference codes.
	longDigitRunPattern = regexp.MustCompile(`\b\d{5,}\b`)
	taxIDPattern        = regexp.MustCompile(`\b\d{2,3}[.]\d{3}[.]\d{3}[/\d.-]*\b`)
	paymentRefPattern   = regexp.MustCompile(`\b(?:pgto|pgt|pagto|doc|ted|pix)[.: ]*\d+\b`)
	maskedDigitsPattern = regexp.MustCompile(`[*\x{2022}]{2,}\d*`)
	multiSpacePattern   = regexp.MustCompile(`\s+`)
)

// NormalizeDescription lowers, strips diacritics and removes noise tokens
// from a free-form description, returning a space-joined token string fit
// for substring rule matching and similarity scoring.
func NormalizeDescription(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	if stripped, _, err := transform.String(diacriticsRemover, lowered); err == nil {
		lowered = stripped
	}

	lowered = taxIDPattern.ReplaceAllString(lowered, " ")
	lowered = paymentRefPattern.ReplaceAllString(lowered, " ")
	lowered = maskedDigitsPattern.ReplaceAllString(lowered, " ")
	lowered = longDigitRunPattern.ReplaceAllString(lowered, " ")

	var b strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(b.String(), " "))
}

// DescriptionTokens returns the sorted unique tokens of a normalized
// description.
func DescriptionTokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		seen[tok] = struct{}{}
	}
	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// DescriptionSimilarity scores two normalized descriptions in [0, 1] as the
// Jaccard index of their token sets. Two empty descriptions score 1.
func DescriptionSimilarity(a, b string) float64 {
	tokensA := DescriptionTokens(a)
	tokensB := DescriptionTokens(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(tokensA))
	for _, tok := range tokensA {
		setA[tok] = struct{}{}
	}
	intersection := 0
	for _, tok := range tokensB {
		if _, ok := setA[tok]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}
