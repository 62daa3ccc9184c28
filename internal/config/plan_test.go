package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

func planFixture(t *testing.T) *model.Plan {
	t.Helper()
	amount := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("parse amount %q: %v", s, err)
		}
		return d
	}
	return &model.Plan{
		Items: []model.RecurringItem{
			{Name: "EarnIn", Amount: amount("600"), Cadence: model.CadenceWeekly, AnchorWeekday: model.Weekday(time.Thursday), Account: "checking", Active: true},
			{Name: "Snap-On", Amount: amount("400"), Cadence: model.CadenceWeekly, AnchorWeekday: model.Weekday(time.Thursday), Account: "checking", Active: true},
		},
		ReserveRules: []model.ReserveThenClearRule{
			{ItemName: "Snap-On", ReserveWeekday: model.Weekday(time.Thursday), ClearWeekday: model.Weekday(time.Friday), ReserveAccount: "holding", ClearAccount: "checking"},
		},
		Essentials: []model.EssentialRule{
			{Name: "Fuel", UnitCost: amount("45"), IntervalDays: 3, Epoch: model.NewDate(2026, 1, 1), Account: "checking"},
		},
		Installments: []model.ScheduledInstallment{
			{Name: "Couch", Amount: amount("120"), Provider: "affirm", DueDates: []model.Date{
				model.NewDate(2026, 2, 1), model.NewDate(2026, 3, 1),
			}},
		},
		Debts: []model.DebtAccount{
			{Name: "Slate", Balance: amount("450"), MinPaymentItem: "EarnIn"},
		},
		Aliases: []model.EntityAlias{
			{Alias: "chase card", Canonical: "Slate", Type: model.EntityDebt},
		},
	}
}

func TestPlanRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	original := planFixture(t)

	if err := SavePlan(path, original); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	loaded, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}

	origEnc, err := EncodePlan(original)
	if err != nil {
		t.Fatalf("EncodePlan original: %v", err)
	}
	loadedEnc, err := EncodePlan(loaded)
	if err != nil {
		t.Fatalf("EncodePlan loaded: %v", err)
	}
	if origEnc != loadedEnc {
		t.Errorf("roundtrip changed the plan:\n--- saved\n%s\n--- loaded\n%s", origEnc, loadedEnc)
	}
}

func TestLoadPlanMissingFileIsEmptyPlan(t *testing.T) {
	plan, err := LoadPlan(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if len(plan.Items) != 0 || len(plan.Debts) != 0 {
		t.Errorf("plan = %+v, want empty", plan)
	}
}

func TestDecodePlanAppliesAccountDefault(t *testing.T) {
	plan, err := DecodePlan(`
[[item]]
name = "Netflix"
amount = "17.99"
cadence = "monthly"
anchor_weekday = "monday"
day_of_month = 15
active = true
`)
	if err != nil {
		t.Fatalf("DecodePlan: %v", err)
	}
	if got := plan.Items[0].Account; got != model.DefaultAccount {
		t.Errorf("account = %q, want default %q", got, model.DefaultAccount)
	}
}

func TestDecodePlanSortsInstallmentDates(t *testing.T) {
	plan, err := DecodePlan(`
[[installment]]
name = "Couch"
amount = "120"
due_dates = ["2026-03-01", "2026-02-01"]
`)
	if err != nil {
		t.Fatalf("DecodePlan: %v", err)
	}
	dates := plan.Installments[0].DueDates
	if dates[0].String() != "2026-02-01" || dates[1].String() != "2026-03-01" {
		t.Errorf("due dates = %v, want sorted ascending", dates)
	}
}

func TestDecodePlanRejectsDanglingReserveRule(t *testing.T) {
	_, err := DecodePlan(`
[[reserve_rule]]
item_name = "Ghost"
reserve_weekday = "thursday"
clear_weekday = "friday"
reserve_account = "holding"
clear_account = "checking"
`)
	var integrityErr *model.ConfigIntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("err = %v, want ConfigIntegrityError", err)
	}
}

func TestDecodePlanRejectsReserveRuleOnMonthlyItem(t *testing.T) {
	_, err := DecodePlan(`
[[item]]
name = "Rent"
amount = "950"
cadence = "monthly"
anchor_weekday = "monday"
day_of_month = 1
active = true

[[reserve_rule]]
item_name = "Rent"
reserve_weekday = "thursday"
clear_weekday = "friday"
reserve_account = "holding"
clear_account = "checking"
`)
	var integrityErr *model.ConfigIntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("err = %v, want ConfigIntegrityError", err)
	}
}

func TestConfigRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.General.DefaultDays = 14
	cfg.Balance.Current = decimal.RequireFromString("412.38")
	cfg.Balance.AsOf = model.NewDate(2026, 1, 1)

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.DefaultDays != 14 {
		t.Errorf("default days = %d, want 14", got.General.DefaultDays)
	}
	if got.General.PaydayWeekday != model.Weekday(time.Thursday) {
		t.Errorf("payday = %s, want thursday", got.General.PaydayWeekday)
	}
	if !got.Balance.Current.Equal(cfg.Balance.Current) {
		t.Errorf("balance = %s, want 412.38", got.Balance.Current)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DefaultDays != 7 || cfg.General.PaydayWeekday != model.Weekday(time.Thursday) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
