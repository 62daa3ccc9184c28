package model

// Action is the kind of adjustment a parsed instruction asks for.
type Action string

const (
	ActionPayoff         Action = "payoff"
	ActionChangeAmount   Action = "change_amount"
	ActionDefer          Action = "defer"
	ActionAddInstallment Action = "add_installment"
	ActionCancel         Action = "cancel"

	// ActionRevert never comes out of the parser; it marks audit
	// records written by a revert.
	ActionRevert Action = "revert"
)

// Well-known Intent parameter keys.
const (
	ParamAmount   = "amount"    // decimal string, 2 places
	ParamDate     = "date"      // effective date, "2006-01-02"
	ParamName     = "name"      // new entity name (add_installment)
	ParamProvider = "provider"  // installment provider
	ParamDueDates = "due_dates" // comma-joined "2006-01-02" list
)

// Alternative is a lower-confidence entity match the caller must
// surface instead of silently picking one.
type Alternative struct {
	Name     string
	Type     EntityType
	Distance int
}

// Intent is the structured form of a natural-language instruction.
// Ephemeral: produced by the parser, consumed by the adjust engine,
// never persisted on its own (only inside audit records). Tied entity
// resolutions never reach an Intent; they surface as AmbiguousMatch.
type Intent struct {
	Action     Action            `json:"action"`
	Entity     string            `json:"entity,omitempty"`
	EntityType EntityType        `json:"entity_type,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	Confidence float64           `json:"confidence"`
}

// Param returns the named parameter or "".
func (in *Intent) Param(key string) string {
	if in.Params == nil {
		return ""
	}
	return in.Params[key]
}
