// Package forecast projects daily account balance forward from the
// recurring plan. The engine is pure and stateless: identical inputs
// always produce identical output, so it may be called concurrently
// and its results are safe to use for diff previews.
package forecast

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

// biweeklyEpoch pins the phase of biweekly items that carry no
// explicit anchor_date, so output stays deterministic across runs.
var biweeklyEpoch = model.NewDate(2024, 1, 1)

// Forecast produces the day-by-day ledger for the window starting at
// start and spanning days. balance is the caller-supplied latest
// known balance as of the day before the window opens.
func Forecast(start model.Date, days int, balance decimal.Decimal, plan *model.Plan) ([]model.ForecastDay, error) {
	if days < 1 {
		return nil, &model.RangeError{Field: "window_length_days", Msg: fmt.Sprintf("must be at least 1, got %d", days)}
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	out := make([]model.ForecastDay, 0, days)
	running := balance

	for i := 0; i < days; i++ {
		day := start.AddDays(i)
		events := dayEvents(day, plan)
		orderEvents(events)

		net := decimal.Zero
		for _, ev := range events {
			net = net.Add(ev.Amount)
		}

		// Outflow is positive-signed, so the balance moves down by net.
		running = running.Sub(net)

		out = append(out, model.ForecastDay{
			Date:           day,
			Events:         events,
			NetDelta:       net,
			RunningBalance: running,
		})
	}

	return out, nil
}

func dayEvents(day model.Date, plan *model.Plan) []model.ForecastEvent {
	var events []model.ForecastEvent

	for i := range plan.Items {
		it := &plan.Items[i]
		if !it.Active {
			continue
		}
		if it.DeferredUntil != nil && day.Before(*it.DeferredUntil) {
			continue
		}

		rule := plan.ReserveRuleFor(it.Name)
		if rule == nil {
			if dueOn(it, it.AnchorWeekday, day) {
				events = append(events, model.ForecastEvent{
					Label:   it.Name,
					Amount:  it.AmountOn(day),
					Account: it.Account,
				})
			}
			continue
		}

		events = append(events, reserveClearEvents(it, rule, day)...)
	}

	for i := range plan.Essentials {
		e := &plan.Essentials[i]
		since := day.DaysSince(e.Epoch)
		if since >= 0 && since%e.IntervalDays == 0 {
			events = append(events, model.ForecastEvent{
				Label:   e.Name,
				Amount:  e.UnitCost,
				Account: e.Account,
			})
		}
	}

	for i := range plan.Installments {
		inst := &plan.Installments[i]
		for _, due := range inst.DueDates {
			if due.Equal(day) {
				label := inst.Name
				if inst.Provider != "" {
					label = fmt.Sprintf("%s (%s)", inst.Name, inst.Provider)
				}
				events = append(events, model.ForecastEvent{
					Label:   label,
					Amount:  inst.Amount,
					Account: model.DefaultAccount,
				})
			}
		}
	}

	return events
}

// reserveClearEvents emits the two legs of a reserve-then-clear item.
// Net effect over the pair is exactly one instance of the amount.
// Tie-break: when reserve and clear weekdays coincide, clear wins and
// no reserve leg is emitted, avoiding a phantom zero-sum pair.
func reserveClearEvents(it *model.RecurringItem, rule *model.ReserveThenClearRule, day model.Date) []model.ForecastEvent {
	if rule.ReserveWeekday == rule.ClearWeekday {
		if dueOn(it, rule.ClearWeekday, day) {
			return []model.ForecastEvent{{
				Label:   fmt.Sprintf("%s (clear)", it.Name),
				Amount:  it.AmountOn(day),
				Account: rule.ClearAccount,
			}}
		}
		return nil
	}

	var events []model.ForecastEvent
	if dueOn(it, rule.ReserveWeekday, day) {
		// Transfer out of the clear account into the holding account;
		// the occurrence is now pending clear.
		events = append(events, model.ForecastEvent{
			Label:   fmt.Sprintf("%s (reserve)", it.Name),
			Amount:  it.AmountOn(day),
			Account: rule.ReserveAccount,
		})
	}
	if dueOn(it, rule.ClearWeekday, day) {
		// The real debit happens inside the holding account. Annotate
		// with a zero-net event instead of subtracting a second time.
		events = append(events, model.ForecastEvent{
			Label:   fmt.Sprintf("%s (clear, already reserved)", it.Name),
			Amount:  decimal.Zero,
			Account: rule.ReserveAccount,
		})
	}
	return events
}

// dueOn reports whether a recurring item has an occurrence on day,
// treating anchor as the weekday that grounds weekly and biweekly
// cadences (for reserve-then-clear items the rule's leg weekdays
// substitute for the item's own anchor).
func dueOn(it *model.RecurringItem, anchor model.Weekday, day model.Date) bool {
	switch it.Cadence {
	case model.CadenceWeekly:
		return day.Weekday() == anchor
	case model.CadenceBiweekly:
		if day.Weekday() != anchor {
			return false
		}
		ref := biweeklyEpoch
		if it.AnchorDate != nil {
			ref = *it.AnchorDate
		}
		ref = alignToWeekday(ref, anchor)
		diff := day.DaysSince(ref)
		if diff < 0 {
			diff = -diff
		}
		return (diff/7)%2 == 0
	case model.CadenceMonthly:
		if it.DayOfMonth == day.Day() {
			return true
		}
		// Months shorter than day_of_month clamp to their last day.
		return day.Day() < it.DayOfMonth && day.LastOfMonth()
	}
	return false
}

// alignToWeekday moves d forward to the first occurrence of wd.
func alignToWeekday(d model.Date, wd model.Weekday) model.Date {
	for d.Weekday() != wd {
		d = d.AddDays(1)
	}
	return d
}

// orderEvents sorts a day's events deterministically: inflows first,
// then outflows, zero-net annotations last, each group by label.
func orderEvents(events []model.ForecastEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		ri, rj := eventRank(events[i]), eventRank(events[j])
		if ri != rj {
			return ri < rj
		}
		return events[i].Label < events[j].Label
	})
}

func eventRank(ev model.ForecastEvent) int {
	switch {
	case ev.Amount.IsNegative():
		return 0
	case ev.Amount.IsZero():
		return 2
	default:
		return 1
	}
}
