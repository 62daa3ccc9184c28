// Package model holds the pure domain records of the recurring cash
// model. Nothing here has behavior beyond construction, cloning, and
// integrity validation; all mutation happens through the adjust engine.
package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sign convention, everywhere: positive amount = outflow/expense,
// negative amount = inflow/income.

// Cadence is the repetition rule of a recurring item.
type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// Valid reports whether the cadence is one of the known values.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly:
		return true
	}
	return false
}

// Weekday wraps time.Weekday with lowercase text encoding ("thursday")
// so plan.toml stays hand-editable.
type Weekday time.Weekday

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// ParseWeekday parses a full or 3-letter English weekday name.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[key]; ok {
		return Weekday(wd), nil
	}
	if len(key) == 3 {
		for name, wd := range weekdayNames {
			if strings.HasPrefix(name, key) {
				return Weekday(wd), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func (w Weekday) String() string {
	return strings.ToLower(time.Weekday(w).String())
}

// MarshalText implements encoding.TextMarshaler for TOML.
func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (w *Weekday) UnmarshalText(b []byte) error {
	wd, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = wd
	return nil
}

// Date is a calendar date (no clock, no zone) with "2006-01-02" text
// encoding. All forecast arithmetic is whole-day.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string          { return d.t.Format("2006-01-02") }
func (d Date) IsZero() bool            { return d.t.IsZero() }
func (d Date) Weekday() Weekday        { return Weekday(d.t.Weekday()) }
func (d Date) Day() int                { return d.t.Day() }
func (d Date) Month() time.Month       { return d.t.Month() }
func (d Date) Year() int               { return d.t.Year() }
func (d Date) AddDays(n int) Date      { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool      { return d.t.Before(o.t) }
func (d Date) After(o Date) bool       { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool       { return d.t.Equal(o.t) }
func (d Date) DaysSince(o Date) int    { return int(d.t.Sub(o.t).Hours() / 24) }
func (d Date) LastOfMonth() bool       { return d.t.AddDate(0, 0, 1).Day() == 1 }

// MarshalText implements encoding.TextMarshaler for TOML.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DefaultAccount is the account events charge against when an item
// does not name one.
const DefaultAccount = "checking"

// RecurringItem is a bill or income item on a fixed schedule.
type RecurringItem struct {
	Name          string          `toml:"name"`
	Amount        decimal.Decimal `toml:"amount"`
	Cadence       Cadence         `toml:"cadence"`
	AnchorWeekday Weekday         `toml:"anchor_weekday"`
	DayOfMonth    int             `toml:"day_of_month,omitempty"` // monthly only
	AnchorDate    *Date           `toml:"anchor_date,omitempty"`  // biweekly phase pin
	Account       string          `toml:"account,omitempty"`
	Active        bool            `toml:"active"`

	// DeferredUntil skips occurrences strictly before the given date.
	// One-shot: set by a defer adjustment, cleared by a later one.
	DeferredUntil *Date `toml:"deferred_until,omitempty"`

	// PendingAmount/PendingFrom schedule an amount change: occurrences
	// on or after PendingFrom use PendingAmount instead of Amount.
	PendingAmount *decimal.Decimal `toml:"pending_amount,omitempty"`
	PendingFrom   *Date            `toml:"pending_from,omitempty"`
}

// AmountOn returns the effective amount for an occurrence on the given day.
func (r *RecurringItem) AmountOn(day Date) decimal.Decimal {
	if r.PendingAmount != nil && r.PendingFrom != nil && !day.Before(*r.PendingFrom) {
		return *r.PendingAmount
	}
	return r.Amount
}

// ReserveThenClearRule models a two-leg transfer: the full amount is
// set aside into a holding account on the reserve weekday and debited
// from it on the clear weekday. Net effect over both legs is exactly
// one instance of the item amount.
type ReserveThenClearRule struct {
	ItemName       string  `toml:"item_name"`
	ReserveWeekday Weekday `toml:"reserve_weekday"`
	ClearWeekday   Weekday `toml:"clear_weekday"`
	ReserveAccount string  `toml:"reserve_account"`
	ClearAccount   string  `toml:"clear_account"`
}

// EssentialRule is a periodic expense not tied to the weekly grid,
// due every IntervalDays counted from Epoch.
type EssentialRule struct {
	Name         string          `toml:"name"`
	UnitCost     decimal.Decimal `toml:"unit_cost"`
	IntervalDays int             `toml:"interval_days"`
	Epoch        Date            `toml:"epoch"`
	Account      string          `toml:"account,omitempty"`
}

// ScheduledInstallment is an irregular multi-date obligation, one
// Amount charge per due date.
type ScheduledInstallment struct {
	Name     string          `toml:"name"`
	Amount   decimal.Decimal `toml:"amount"`
	Provider string          `toml:"provider,omitempty"`
	DueDates []Date          `toml:"due_dates"`
}

// DebtAccount tracks an outstanding balance and the recurring item
// that services it. A payoff adjustment zeroes the balance and
// deactivates the minimum payment item.
type DebtAccount struct {
	Name           string          `toml:"name"`
	Balance        decimal.Decimal `toml:"balance"`
	MinPaymentItem string          `toml:"min_payment_item,omitempty"`
}

// EntityType classifies what an alias points at.
type EntityType string

const (
	EntityRecurring   EntityType = "recurring"
	EntityDebt        EntityType = "debt"
	EntityInstallment EntityType = "installment"
	EntityEssential   EntityType = "essential"
)

// EntityAlias maps a short alias to a canonical entity name.
type EntityAlias struct {
	Alias     string     `toml:"alias"`
	Canonical string     `toml:"canonical"`
	Type      EntityType `toml:"type"`
}

// Plan is the whole recurring model. It is the single shared mutable
// resource of the system; only the adjust engine writes it.
type Plan struct {
	Items        []RecurringItem        `toml:"item"`
	ReserveRules []ReserveThenClearRule `toml:"reserve_rule"`
	Essentials   []EssentialRule        `toml:"essential"`
	Installments []ScheduledInstallment `toml:"installment"`
	Debts        []DebtAccount          `toml:"debt"`
	Aliases      []EntityAlias          `toml:"alias"`
}

// Clone returns a deep copy safe to mutate independently.
func (p *Plan) Clone() *Plan {
	c := &Plan{
		Items:        append([]RecurringItem(nil), p.Items...),
		ReserveRules: append([]ReserveThenClearRule(nil), p.ReserveRules...),
		Essentials:   append([]EssentialRule(nil), p.Essentials...),
		Installments: append([]ScheduledInstallment(nil), p.Installments...),
		Debts:        append([]DebtAccount(nil), p.Debts...),
		Aliases:      append([]EntityAlias(nil), p.Aliases...),
	}
	for i := range c.Items {
		if d := c.Items[i].AnchorDate; d != nil {
			cp := *d
			c.Items[i].AnchorDate = &cp
		}
		if d := c.Items[i].DeferredUntil; d != nil {
			cp := *d
			c.Items[i].DeferredUntil = &cp
		}
		if a := c.Items[i].PendingAmount; a != nil {
			cp := *a
			c.Items[i].PendingAmount = &cp
		}
		if d := c.Items[i].PendingFrom; d != nil {
			cp := *d
			c.Items[i].PendingFrom = &cp
		}
	}
	for i := range c.Installments {
		c.Installments[i].DueDates = append([]Date(nil), c.Installments[i].DueDates...)
	}
	return c
}

// Item returns the recurring item with the given name, or nil.
func (p *Plan) Item(name string) *RecurringItem {
	for i := range p.Items {
		if strings.EqualFold(p.Items[i].Name, name) {
			return &p.Items[i]
		}
	}
	return nil
}

// Installment returns the installment with the given name, or nil.
func (p *Plan) Installment(name string) *ScheduledInstallment {
	for i := range p.Installments {
		if strings.EqualFold(p.Installments[i].Name, name) {
			return &p.Installments[i]
		}
	}
	return nil
}

// Essential returns the essential rule with the given name, or nil.
func (p *Plan) Essential(name string) *EssentialRule {
	for i := range p.Essentials {
		if strings.EqualFold(p.Essentials[i].Name, name) {
			return &p.Essentials[i]
		}
	}
	return nil
}

// Debt returns the debt account with the given name, or nil.
func (p *Plan) Debt(name string) *DebtAccount {
	for i := range p.Debts {
		if strings.EqualFold(p.Debts[i].Name, name) {
			return &p.Debts[i]
		}
	}
	return nil
}

// ReserveRuleFor returns the reserve-then-clear rule governing the
// named item, or nil.
func (p *Plan) ReserveRuleFor(itemName string) *ReserveThenClearRule {
	for i := range p.ReserveRules {
		if strings.EqualFold(p.ReserveRules[i].ItemName, itemName) {
			return &p.ReserveRules[i]
		}
	}
	return nil
}

// SortInstallmentDates re-sorts every installment's due dates ascending.
func (p *Plan) SortInstallmentDates() {
	for i := range p.Installments {
		dates := p.Installments[i].DueDates
		sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })
	}
}

// Validate checks the plan is in a state from which a deterministic
// forecast can be produced: no dangling references and no invalid
// cadence fields. Amount signs are not checked here; income is
// negative by convention.
func (p *Plan) Validate() error {
	for i := range p.Items {
		it := &p.Items[i]
		if it.Name == "" {
			return &ConfigIntegrityError{Field: "item.name", Msg: "recurring item with empty name"}
		}
		if !it.Cadence.Valid() {
			return &ConfigIntegrityError{Field: "item." + it.Name + ".cadence", Msg: fmt.Sprintf("unknown cadence %q", it.Cadence)}
		}
		if it.Cadence == CadenceMonthly && (it.DayOfMonth < 1 || it.DayOfMonth > 31) {
			return &ConfigIntegrityError{Field: "item." + it.Name + ".day_of_month", Msg: "monthly item needs day_of_month 1-31"}
		}
	}
	for i := range p.ReserveRules {
		r := &p.ReserveRules[i]
		it := p.Item(r.ItemName)
		if it == nil {
			return &ConfigIntegrityError{Field: "reserve_rule.item_name", Msg: fmt.Sprintf("reserve rule references missing item %q", r.ItemName)}
		}
		if it.Cadence != CadenceWeekly {
			return &ConfigIntegrityError{Field: "reserve_rule.item_name", Msg: fmt.Sprintf("reserve rule on %q requires weekly cadence", r.ItemName)}
		}
		if r.ReserveAccount == "" || r.ClearAccount == "" {
			return &ConfigIntegrityError{Field: "reserve_rule", Msg: fmt.Sprintf("reserve rule on %q needs reserve and clear accounts", r.ItemName)}
		}
	}
	for i := range p.Essentials {
		e := &p.Essentials[i]
		if e.IntervalDays < 1 {
			return &ConfigIntegrityError{Field: "essential." + e.Name + ".interval_days", Msg: "interval must be at least 1 day"}
		}
		if e.Epoch.IsZero() {
			return &ConfigIntegrityError{Field: "essential." + e.Name + ".epoch", Msg: "essential rule needs an epoch date"}
		}
	}
	for i := range p.Debts {
		d := &p.Debts[i]
		if d.MinPaymentItem != "" && p.Item(d.MinPaymentItem) == nil {
			return &ConfigIntegrityError{Field: "debt." + d.Name + ".min_payment_item", Msg: fmt.Sprintf("debt references missing item %q", d.MinPaymentItem)}
		}
	}
	seen := make(map[string]string)
	for i := range p.Aliases {
		a := &p.Aliases[i]
		key := strings.ToLower(a.Alias)
		if prev, dup := seen[key]; dup && !strings.EqualFold(prev, a.Canonical) {
			return &ConfigIntegrityError{Field: "alias." + a.Alias, Msg: "alias maps to more than one entity"}
		}
		seen[key] = a.Canonical
		if !p.hasEntity(a.Canonical, a.Type) {
			return &ConfigIntegrityError{Field: "alias." + a.Alias, Msg: fmt.Sprintf("alias references missing %s %q", a.Type, a.Canonical)}
		}
	}
	return nil
}

func (p *Plan) hasEntity(name string, typ EntityType) bool {
	switch typ {
	case EntityRecurring:
		return p.Item(name) != nil
	case EntityDebt:
		return p.Debt(name) != nil
	case EntityInstallment:
		return p.Installment(name) != nil
	case EntityEssential:
		return p.Essential(name) != nil
	}
	return false
}
