// Package adjust is the diff/apply/audit engine: it previews the
// structural change an Intent implies, applies it atomically after
// explicit confirmation, and records every applied change in the
// append-only audit log.
package adjust

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

// FieldChange is one field-level before/after pair in a plan diff.
type FieldChange struct {
	Path   string
	Before string
	After  string
}

const absent = "(none)"

// DiffPlans deep-compares two plans and returns the field-level
// changes, entity by entity. An empty result means the plans are
// structurally identical.
func DiffPlans(before, after *model.Plan) []FieldChange {
	var changes []FieldChange

	changes = append(changes, diffItems(before, after)...)
	changes = append(changes, diffDebts(before, after)...)
	changes = append(changes, diffEssentials(before, after)...)
	changes = append(changes, diffInstallments(before, after)...)
	changes = append(changes, diffReserveRules(before, after)...)

	return changes
}

func diffItems(before, after *model.Plan) []FieldChange {
	var out []FieldChange
	for i := range before.Items {
		b := &before.Items[i]
		a := after.Item(b.Name)
		if a == nil {
			out = append(out, FieldChange{Path: "item." + b.Name, Before: itemSummary(b), After: absent})
			continue
		}
		prefix := "item." + b.Name + "."
		out = appendChange(out, prefix+"amount", fmtAmount(b.Amount), fmtAmount(a.Amount))
		out = appendChange(out, prefix+"cadence", string(b.Cadence), string(a.Cadence))
		out = appendChange(out, prefix+"anchor_weekday", b.AnchorWeekday.String(), a.AnchorWeekday.String())
		out = appendChange(out, prefix+"active", fmt.Sprintf("%t", b.Active), fmt.Sprintf("%t", a.Active))
		out = appendChange(out, prefix+"deferred_until", fmtDatePtr(b.DeferredUntil), fmtDatePtr(a.DeferredUntil))
		out = appendChange(out, prefix+"pending_amount", fmtAmountPtr(b.PendingAmount), fmtAmountPtr(a.PendingAmount))
		out = appendChange(out, prefix+"pending_from", fmtDatePtr(b.PendingFrom), fmtDatePtr(a.PendingFrom))
	}
	for i := range after.Items {
		a := &after.Items[i]
		if before.Item(a.Name) == nil {
			out = append(out, FieldChange{Path: "item." + a.Name, Before: absent, After: itemSummary(a)})
		}
	}
	return out
}

func diffDebts(before, after *model.Plan) []FieldChange {
	var out []FieldChange
	for i := range before.Debts {
		b := &before.Debts[i]
		a := after.Debt(b.Name)
		if a == nil {
			out = append(out, FieldChange{Path: "debt." + b.Name, Before: fmtAmount(b.Balance), After: absent})
			continue
		}
		out = appendChange(out, "debt."+b.Name+".balance", fmtAmount(b.Balance), fmtAmount(a.Balance))
	}
	for i := range after.Debts {
		a := &after.Debts[i]
		if before.Debt(a.Name) == nil {
			out = append(out, FieldChange{Path: "debt." + a.Name, Before: absent, After: fmtAmount(a.Balance)})
		}
	}
	return out
}

func diffEssentials(before, after *model.Plan) []FieldChange {
	var out []FieldChange
	for i := range before.Essentials {
		b := &before.Essentials[i]
		a := after.Essential(b.Name)
		if a == nil {
			out = append(out, FieldChange{Path: "essential." + b.Name, Before: essentialSummary(b), After: absent})
			continue
		}
		prefix := "essential." + b.Name + "."
		out = appendChange(out, prefix+"unit_cost", fmtAmount(b.UnitCost), fmtAmount(a.UnitCost))
		out = appendChange(out, prefix+"interval_days", fmt.Sprintf("%d", b.IntervalDays), fmt.Sprintf("%d", a.IntervalDays))
		out = appendChange(out, prefix+"epoch", b.Epoch.String(), a.Epoch.String())
	}
	for i := range after.Essentials {
		a := &after.Essentials[i]
		if before.Essential(a.Name) == nil {
			out = append(out, FieldChange{Path: "essential." + a.Name, Before: absent, After: essentialSummary(a)})
		}
	}
	return out
}

func diffInstallments(before, after *model.Plan) []FieldChange {
	var out []FieldChange
	for i := range before.Installments {
		b := &before.Installments[i]
		a := after.Installment(b.Name)
		if a == nil {
			out = append(out, FieldChange{Path: "installment." + b.Name, Before: installmentSummary(b), After: absent})
			continue
		}
		prefix := "installment." + b.Name + "."
		out = appendChange(out, prefix+"amount", fmtAmount(b.Amount), fmtAmount(a.Amount))
		out = appendChange(out, prefix+"due_dates", fmtDates(b.DueDates), fmtDates(a.DueDates))
	}
	for i := range after.Installments {
		a := &after.Installments[i]
		if before.Installment(a.Name) == nil {
			out = append(out, FieldChange{Path: "installment." + a.Name, Before: absent, After: installmentSummary(a)})
		}
	}
	return out
}

func diffReserveRules(before, after *model.Plan) []FieldChange {
	var out []FieldChange
	for i := range before.ReserveRules {
		b := &before.ReserveRules[i]
		if after.ReserveRuleFor(b.ItemName) == nil {
			out = append(out, FieldChange{Path: "reserve_rule." + b.ItemName, Before: reserveSummary(b), After: absent})
		}
	}
	for i := range after.ReserveRules {
		a := &after.ReserveRules[i]
		if before.ReserveRuleFor(a.ItemName) == nil {
			out = append(out, FieldChange{Path: "reserve_rule." + a.ItemName, Before: absent, After: reserveSummary(a)})
		}
	}
	return out
}

func appendChange(out []FieldChange, path, before, after string) []FieldChange {
	if before == after {
		return out
	}
	return append(out, FieldChange{Path: path, Before: before, After: after})
}

func fmtAmount(d decimal.Decimal) string { return d.StringFixed(2) }

func fmtAmountPtr(d *decimal.Decimal) string {
	if d == nil {
		return absent
	}
	return fmtAmount(*d)
}

func fmtDatePtr(d *model.Date) string {
	if d == nil {
		return absent
	}
	return d.String()
}

func fmtDates(dates []model.Date) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

func itemSummary(it *model.RecurringItem) string {
	return fmt.Sprintf("%s %s on %s", fmtAmount(it.Amount), it.Cadence, it.AnchorWeekday)
}

func essentialSummary(e *model.EssentialRule) string {
	return fmt.Sprintf("%s every %dd", fmtAmount(e.UnitCost), e.IntervalDays)
}

func installmentSummary(in *model.ScheduledInstallment) string {
	return fmt.Sprintf("%s x%d", fmtAmount(in.Amount), len(in.DueDates))
}

func reserveSummary(r *model.ReserveThenClearRule) string {
	return fmt.Sprintf("reserve %s clear %s", r.ReserveWeekday, r.ClearWeekday)
}
