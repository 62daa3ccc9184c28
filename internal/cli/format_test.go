package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"45.5", "$45.50"},
		{"1300", "$1,300.00"},
		{"1234567.89", "$1,234,567.89"},
		{"-450", "-$450.00"},
	}
	for _, c := range cases {
		if got := FormatMoney(dec(t, c.in)); got != c.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatBalanceDelta(t *testing.T) {
	// Net delta is outflow-positive, so the rendered balance impact
	// flips the sign.
	cases := []struct {
		in   string
		want string
	}{
		{"-300", "+$300.00"},
		{"300", "-$300.00"},
		{"0", "$0.00"},
	}
	for _, c := range cases {
		if got := FormatBalanceDelta(dec(t, c.in)); got != c.want {
			t.Errorf("FormatBalanceDelta(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatEventAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"-1300", "+$1,300.00"},
		{"600", "-$600.00"},
		{"0", "· $0.00"},
	}
	for _, c := range cases {
		if got := FormatEventAmount(dec(t, c.in)); got != c.want {
			t.Errorf("FormatEventAmount(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(model.NewDate(2026, time.September, 3)); got != "Thu 2026-09-03" {
		t.Errorf("FormatDate = %q, want Thu 2026-09-03", got)
	}
	if got := FormatDate(model.NewDate(2026, time.January, 4)); got != "Sun 2026-01-04" {
		t.Errorf("FormatDate = %q, want Sun 2026-01-04", got)
	}
}

func TestFormatConfidence(t *testing.T) {
	if got := FormatConfidence(0.95); got != "95%" {
		t.Errorf("FormatConfidence = %q, want 95%%", got)
	}
}
