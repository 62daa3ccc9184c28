package model

import "github.com/shopspring/decimal"

// ForecastEvent is one expected cash event on a forecast day.
// Amount follows the global sign convention: positive = outflow.
type ForecastEvent struct {
	Label   string
	Amount  decimal.Decimal
	Account string
}

// ForecastDay is the derived per-day ledger line. Output-only:
// recomputed on demand, never stored as source of truth.
type ForecastDay struct {
	Date           Date
	Events         []ForecastEvent
	NetDelta       decimal.Decimal
	RunningBalance decimal.Decimal
}
