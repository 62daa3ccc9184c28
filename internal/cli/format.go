// Package cli provides formatting and rendering utilities for
// terminal output. Internal packages never print; everything visible
// flows through here and the cmd layer.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

// FormatMoney formats an absolute dollar amount, e.g. "$1,300.00".
func FormatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := groupThousands(d.Abs().StringFixed(2))
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// FormatBalanceDelta renders a day's balance movement from the
// user's point of view: amounts are stored outflow-positive, so the
// balance impact is the negation.
func FormatBalanceDelta(netDelta decimal.Decimal) string {
	impact := netDelta.Neg()
	if impact.IsNegative() {
		return "-" + FormatMoney(impact.Abs())
	}
	if impact.IsZero() {
		return FormatMoney(impact)
	}
	return "+" + FormatMoney(impact)
}

// FormatEventAmount renders one event's balance impact, "+" for
// income, "-" for expense, "·" for zero-net annotations.
func FormatEventAmount(amount decimal.Decimal) string {
	switch {
	case amount.IsZero():
		return "· " + FormatMoney(amount)
	case amount.IsNegative():
		return "+" + FormatMoney(amount.Abs())
	default:
		return "-" + FormatMoney(amount)
	}
}

// FormatDate renders a date as "Thu 2026-09-03".
func FormatDate(d model.Date) string {
	name := d.Weekday().String()
	abbr := strings.ToUpper(name[:1]) + name[1:3]
	return fmt.Sprintf("%s %s", abbr, d)
}

// FormatConfidence renders a 0..1 confidence score.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}

func groupThousands(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return intPart + "." + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + "." + frac
}
