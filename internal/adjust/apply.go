package adjust

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

// applyIntent mutates plan (always a clone of the live model) to
// satisfy the intent. Validation failures block the confirm
// transition; the returned error names the offending field. Applying
// an already-satisfied intent leaves the plan untouched, which the
// caller observes as an empty diff.
func applyIntent(plan *model.Plan, in *model.Intent, today model.Date) error {
	switch in.Action {
	case model.ActionPayoff:
		return applyPayoff(plan, in)
	case model.ActionChangeAmount:
		return applyChangeAmount(plan, in)
	case model.ActionDefer:
		return applyDefer(plan, in, today)
	case model.ActionAddInstallment:
		return applyAddInstallment(plan, in)
	case model.ActionCancel:
		return applyCancel(plan, in)
	}
	return &model.ValidationError{Field: "action", Msg: fmt.Sprintf("unsupported action %q", in.Action)}
}

func applyPayoff(plan *model.Plan, in *model.Intent) error {
	debt := plan.Debt(in.Entity)
	if debt == nil {
		return &model.ValidationError{Field: "entity", Msg: fmt.Sprintf("no debt account named %q", in.Entity)}
	}
	debt.Balance = decimal.Zero
	if debt.MinPaymentItem != "" {
		if it := plan.Item(debt.MinPaymentItem); it != nil {
			it.Active = false
		}
	}
	return nil
}

func applyChangeAmount(plan *model.Plan, in *model.Intent) error {
	amount, err := parseAmountParam(in)
	if err != nil {
		return err
	}

	var effective *model.Date
	if raw := in.Param(model.ParamDate); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return &model.ValidationError{Field: model.ParamDate, Msg: err.Error()}
		}
		effective = &d
	}

	switch in.EntityType {
	case model.EntityRecurring:
		it := plan.Item(in.Entity)
		if it == nil {
			return missingEntity(in)
		}
		if effective != nil {
			it.PendingAmount = &amount
			it.PendingFrom = effective
		} else {
			it.Amount = amount
			it.PendingAmount = nil
			it.PendingFrom = nil
		}
	case model.EntityEssential:
		e := plan.Essential(in.Entity)
		if e == nil {
			return missingEntity(in)
		}
		e.UnitCost = amount
	case model.EntityInstallment:
		inst := plan.Installment(in.Entity)
		if inst == nil {
			return missingEntity(in)
		}
		inst.Amount = amount
	case model.EntityDebt:
		d := plan.Debt(in.Entity)
		if d == nil {
			return missingEntity(in)
		}
		d.Balance = amount
	default:
		return missingEntity(in)
	}
	return nil
}

func applyDefer(plan *model.Plan, in *model.Intent, today model.Date) error {
	raw := in.Param(model.ParamDate)
	if raw == "" {
		return &model.ValidationError{Field: model.ParamDate, Msg: "defer needs a target date"}
	}
	target, err := model.ParseDate(raw)
	if err != nil {
		return &model.ValidationError{Field: model.ParamDate, Msg: err.Error()}
	}

	switch in.EntityType {
	case model.EntityInstallment:
		inst := plan.Installment(in.Entity)
		if inst == nil {
			return missingEntity(in)
		}
		for i, due := range inst.DueDates {
			if !due.Before(today) {
				inst.DueDates[i] = target
				plan.SortInstallmentDates()
				return nil
			}
		}
		return &model.ValidationError{Field: "due_dates", Msg: fmt.Sprintf("%q has no upcoming due date to defer", in.Entity)}
	case model.EntityRecurring:
		it := plan.Item(in.Entity)
		if it == nil {
			return missingEntity(in)
		}
		it.DeferredUntil = &target
	case model.EntityEssential:
		e := plan.Essential(in.Entity)
		if e == nil {
			return missingEntity(in)
		}
		e.Epoch = target
	default:
		return &model.ValidationError{Field: "entity", Msg: fmt.Sprintf("cannot defer a %s", in.EntityType)}
	}
	return nil
}

func applyAddInstallment(plan *model.Plan, in *model.Intent) error {
	name := in.Param(model.ParamName)
	if name == "" {
		return &model.ValidationError{Field: model.ParamName, Msg: "installment needs a name"}
	}
	amount, err := parseAmountParam(in)
	if err != nil {
		return err
	}

	var dates []model.Date
	for _, raw := range strings.Split(in.Param(model.ParamDueDates), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := model.ParseDate(raw)
		if err != nil {
			return &model.ValidationError{Field: model.ParamDueDates, Msg: err.Error()}
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return &model.ValidationError{Field: model.ParamDueDates, Msg: "installment needs at least one due date"}
	}

	if existing := plan.Installment(name); existing != nil {
		// Re-applying the identical installment is a no-op; anything
		// else on a taken name is rejected.
		if existing.Amount.Equal(amount) && sameDates(existing.DueDates, dates) {
			return nil
		}
		return &model.ValidationError{Field: model.ParamName, Msg: fmt.Sprintf("installment %q already exists", name)}
	}

	plan.Installments = append(plan.Installments, model.ScheduledInstallment{
		Name:     name,
		Amount:   amount,
		Provider: in.Param(model.ParamProvider),
		DueDates: dates,
	})
	plan.SortInstallmentDates()
	return nil
}

func applyCancel(plan *model.Plan, in *model.Intent) error {
	switch in.EntityType {
	case model.EntityRecurring:
		it := plan.Item(in.Entity)
		if it == nil {
			return missingEntity(in)
		}
		it.Active = false
	case model.EntityInstallment:
		idx := -1
		for i := range plan.Installments {
			if strings.EqualFold(plan.Installments[i].Name, in.Entity) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return missingEntity(in)
		}
		plan.Installments = append(plan.Installments[:idx], plan.Installments[idx+1:]...)
		removeAliasesFor(plan, in.Entity, model.EntityInstallment)
	case model.EntityEssential:
		idx := -1
		for i := range plan.Essentials {
			if strings.EqualFold(plan.Essentials[i].Name, in.Entity) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return missingEntity(in)
		}
		plan.Essentials = append(plan.Essentials[:idx], plan.Essentials[idx+1:]...)
		removeAliasesFor(plan, in.Entity, model.EntityEssential)
	case model.EntityDebt:
		return &model.ValidationError{Field: "entity", Msg: "a debt account cannot be cancelled, only paid off"}
	default:
		return missingEntity(in)
	}
	return nil
}

func parseAmountParam(in *model.Intent) (decimal.Decimal, error) {
	raw := in.Param(model.ParamAmount)
	if raw == "" {
		return decimal.Zero, &model.ValidationError{Field: model.ParamAmount, Msg: "missing amount"}
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &model.ValidationError{Field: model.ParamAmount, Msg: err.Error()}
	}
	if amount.IsNegative() {
		return decimal.Zero, &model.ValidationError{Field: model.ParamAmount, Msg: "amount must not be negative"}
	}
	return amount, nil
}

func missingEntity(in *model.Intent) error {
	return &model.ValidationError{Field: "entity", Msg: fmt.Sprintf("no %s named %q", in.EntityType, in.Entity)}
}

func removeAliasesFor(plan *model.Plan, canonical string, typ model.EntityType) {
	kept := plan.Aliases[:0]
	for _, a := range plan.Aliases {
		if strings.EqualFold(a.Canonical, canonical) && a.Type == typ {
			continue
		}
		kept = append(kept, a)
	}
	plan.Aliases = kept
}

func sameDates(a, b []model.Date) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
