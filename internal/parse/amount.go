package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	dollarTokenRe = regexp.MustCompile(`\$\s*\d[\d,]*(?:\.\d{1,2})?`)
	bareNumberRe  = regexp.MustCompile(`\d[\d,]*(?:\.\d{1,2})?`)
)

// Words whose following number reads as a money amount.
var amountContextWords = map[string]bool{
	"to": true, "for": true, "of": true, "at": true,
	"cost": true, "costs": true, "pay": true, "owe": true,
}

// ScanAmount finds the first currency token in text: a $-prefixed
// number wins, otherwise a bare number adjacent to an amount-context
// word. Returns the parsed amount and the raw matched token so the
// caller can remove it from the phrase.
func ScanAmount(text string) (decimal.Decimal, string, bool) {
	if loc := dollarTokenRe.FindStringIndex(text); loc != nil {
		token := text[loc[0]:loc[1]]
		if amt, err := parseAmountToken(token); err == nil {
			return amt, token, true
		}
	}

	for _, loc := range bareNumberRe.FindAllStringIndex(text, -1) {
		if partOfDate(text, loc[0], loc[1]) {
			continue
		}
		token := text[loc[0]:loc[1]]
		prev := wordBefore(text, loc[0])
		if amountContextWords[prev] {
			if amt, err := parseAmountToken(token); err == nil {
				return amt, token, true
			}
		}
	}

	return decimal.Zero, "", false
}

// leadingAmount parses a currency token at the very start of text.
func leadingAmount(text string) (decimal.Decimal, string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return decimal.Zero, "", false
	}
	token := fields[0]
	if !strings.HasPrefix(token, "$") && (token[0] < '0' || token[0] > '9') {
		return decimal.Zero, "", false
	}
	amt, err := parseAmountToken(token)
	if err != nil {
		return decimal.Zero, "", false
	}
	return amt, token, true
}

func parseAmountToken(token string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "$"))
	clean = strings.ReplaceAll(clean, ",", "")
	return decimal.NewFromString(clean)
}

// partOfDate reports whether the numeric token at [start,end) sits
// inside an ISO date like 2026-09-15.
func partOfDate(text string, start, end int) bool {
	if start > 0 && (text[start-1] == '-' || text[start-1] == '/') {
		return true
	}
	if end < len(text) && (text[end] == '-' || text[end] == '/') {
		return true
	}
	return false
}

func wordBefore(text string, pos int) string {
	fields := strings.Fields(text[:pos])
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
