package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseWeekday(t *testing.T) {
	cases := []struct {
		in   string
		want time.Weekday
	}{
		{"thursday", time.Thursday},
		{"Thursday", time.Thursday},
		{" THU ", time.Thursday},
		{"mon", time.Monday},
		{"sunday", time.Sunday},
	}
	for _, c := range cases {
		got, err := ParseWeekday(c.in)
		if err != nil {
			t.Errorf("ParseWeekday(%q): %v", c.in, err)
			continue
		}
		if got != Weekday(c.want) {
			t.Errorf("ParseWeekday(%q) = %s, want %s", c.in, got, Weekday(c.want))
		}
	}

	if _, err := ParseWeekday("blursday"); err == nil {
		t.Error("ParseWeekday(blursday) succeeded, want error")
	}
}

func TestWeekdayTextRoundtrip(t *testing.T) {
	w := Weekday(time.Friday)
	text, err := w.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "friday" {
		t.Errorf("text = %q, want friday", text)
	}

	var back Weekday
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != w {
		t.Errorf("roundtrip = %s, want %s", back, w)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.January, 1)
	if d.String() != "2026-01-01" {
		t.Errorf("String = %q", d.String())
	}
	if d.Weekday() != Weekday(time.Thursday) {
		t.Errorf("Weekday = %s, want thursday", d.Weekday())
	}
	if got := d.AddDays(31).String(); got != "2026-02-01" {
		t.Errorf("AddDays(31) = %s, want 2026-02-01", got)
	}
	if got := d.AddDays(58).DaysSince(d); got != 58 {
		t.Errorf("DaysSince = %d, want 58", got)
	}
	if !NewDate(2026, time.February, 28).LastOfMonth() {
		t.Error("2026-02-28 should be last of month")
	}
	if NewDate(2024, time.February, 28).LastOfMonth() {
		t.Error("2024-02-28 is not last of a leap February")
	}
}

func TestDateParseRoundtrip(t *testing.T) {
	d, err := ParseDate(" 2026-09-15 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(NewDate(2026, time.September, 15)) {
		t.Errorf("d = %s, want 2026-09-15", d)
	}
	if _, err := ParseDate("15/09/2026"); err == nil {
		t.Error("non-ISO date parsed, want error")
	}
}

func TestAmountOn(t *testing.T) {
	pending := decimal.RequireFromString("300")
	from := NewDate(2026, time.January, 8)
	it := RecurringItem{
		Amount:        decimal.RequireFromString("600"),
		PendingAmount: &pending,
		PendingFrom:   &from,
	}

	if got := it.AmountOn(NewDate(2026, time.January, 1)).StringFixed(2); got != "600.00" {
		t.Errorf("before effective date = %s, want 600.00", got)
	}
	if got := it.AmountOn(from).StringFixed(2); got != "300.00" {
		t.Errorf("on effective date = %s, want 300.00", got)
	}
	if got := it.AmountOn(from.AddDays(7)).StringFixed(2); got != "300.00" {
		t.Errorf("after effective date = %s, want 300.00", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	until := NewDate(2026, time.February, 1)
	p := &Plan{
		Items: []RecurringItem{
			{Name: "EarnIn", Amount: decimal.RequireFromString("600"), Cadence: CadenceWeekly, DeferredUntil: &until, Active: true},
		},
		Installments: []ScheduledInstallment{
			{Name: "Couch", Amount: decimal.RequireFromString("120"), DueDates: []Date{NewDate(2026, time.February, 1)}},
		},
	}

	c := p.Clone()
	*c.Items[0].DeferredUntil = NewDate(2030, time.January, 1)
	c.Items[0].Active = false
	c.Installments[0].DueDates[0] = NewDate(2030, time.January, 1)

	if p.Items[0].DeferredUntil.String() != "2026-02-01" {
		t.Error("clone shares DeferredUntil pointer")
	}
	if !p.Items[0].Active {
		t.Error("clone shares item slice backing")
	}
	if p.Installments[0].DueDates[0].String() != "2026-02-01" {
		t.Error("clone shares due date slice")
	}
}

func TestValidateDuplicateAlias(t *testing.T) {
	p := &Plan{
		Debts: []DebtAccount{{Name: "Slate"}, {Name: "Sapphire"}},
		Aliases: []EntityAlias{
			{Alias: "card", Canonical: "Slate", Type: EntityDebt},
			{Alias: "card", Canonical: "Sapphire", Type: EntityDebt},
		},
	}

	var integrityErr *ConfigIntegrityError
	if err := p.Validate(); !errors.As(err, &integrityErr) {
		t.Fatalf("err = %v, want ConfigIntegrityError", err)
	}

	// The same alias pointing at the same entity twice is harmless.
	p.Aliases[1].Canonical = "Slate"
	if err := p.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateMonthlyNeedsDayOfMonth(t *testing.T) {
	p := &Plan{
		Items: []RecurringItem{
			{Name: "Rent", Amount: decimal.RequireFromString("950"), Cadence: CadenceMonthly, Active: true},
		},
	}
	var integrityErr *ConfigIntegrityError
	if err := p.Validate(); !errors.As(err, &integrityErr) {
		t.Fatalf("err = %v, want ConfigIntegrityError", err)
	}

	p.Items[0].DayOfMonth = 1
	if err := p.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLookupsAreCaseInsensitive(t *testing.T) {
	p := &Plan{
		Items: []RecurringItem{{Name: "EarnIn", Cadence: CadenceWeekly, Active: true}},
		Debts: []DebtAccount{{Name: "Slate"}},
	}

	if p.Item("earnin") == nil {
		t.Error("Item lookup is case sensitive")
	}
	if p.Debt("SLATE") == nil {
		t.Error("Debt lookup is case sensitive")
	}
	if p.Item("ghost") != nil {
		t.Error("Item returned a match for an unknown name")
	}
}
