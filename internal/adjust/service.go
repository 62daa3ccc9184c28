package adjust

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/forecast"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/parse"
	"github.com/theirongolddev/runway/internal/resolve"
	"github.com/theirongolddev/runway/internal/store"
)

// Preview is the PREVIEWED stage of an adjustment: the resolved
// intent, the field-level diff it implies, and a token that Confirm
// exchanges for the APPLIED transition. No mutation has happened yet.
type Preview struct {
	Token    string
	Intent   model.Intent
	Diff     []FieldChange
	Warnings []string
}

type pendingPreview struct {
	intent   model.Intent
	userText string
}

// Service owns the live plan and serializes every mutation. Reads
// (forecasts, scans) take the read lock and see either the pre- or
// post-mutation state atomically, never a partial write.
type Service struct {
	mu       sync.RWMutex
	plan     *model.Plan
	planPath string
	payday   model.Weekday
	log      *store.AuditLog
	pending  map[string]pendingPreview

	now   func() time.Time
	today func() model.Date
}

// NewService loads the plan from planPath and wires the audit log.
func NewService(planPath string, payday model.Weekday, log *store.AuditLog) (*Service, error) {
	plan, err := config.LoadPlan(planPath)
	if err != nil {
		return nil, err
	}
	return &Service{
		plan:     plan,
		planPath: planPath,
		payday:   payday,
		log:      log,
		pending:  make(map[string]pendingPreview),
		now:      time.Now,
		today:    func() model.Date { return model.DateOf(time.Now()) },
	}, nil
}

// Plan returns a deep copy of the current plan for display.
func (s *Service) Plan() *model.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan.Clone()
}

// GetForecast projects the window starting at start. The plan is
// snapshotted under the read lock; the engine itself is pure.
func (s *Service) GetForecast(start model.Date, days int, balance decimal.Decimal) ([]model.ForecastDay, error) {
	s.mu.RLock()
	snapshot := s.plan.Clone()
	s.mu.RUnlock()
	return forecast.Forecast(start, days, balance, snapshot)
}

// ParseAndPreview is the DRAFTED -> PREVIEWED transition: parse the
// text, resolve the entity, compute the hypothetical diff against a
// clone. Nothing is mutated.
func (s *Service) ParseAndPreview(text string) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parser := parse.New(resolve.NewDirectory(s.plan), s.payday, s.today)
	intent, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	diff, warnings, err := s.previewLocked(intent)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	s.pending[token] = pendingPreview{intent: *intent, userText: text}

	return &Preview{Token: token, Intent: *intent, Diff: diff, Warnings: warnings}, nil
}

func (s *Service) previewLocked(intent *model.Intent) ([]FieldChange, []string, error) {
	hypothetical := s.plan.Clone()
	if err := applyIntent(hypothetical, intent, s.today()); err != nil {
		return nil, nil, err
	}
	if err := hypothetical.Validate(); err != nil {
		return nil, nil, err
	}

	diff := DiffPlans(s.plan, hypothetical)
	var warnings []string
	if len(diff) == 0 {
		warnings = append(warnings, "plan already satisfies this change; confirming is a no-op")
	}
	if intent.Confidence < parse.ScanFloor {
		warnings = append(warnings, fmt.Sprintf("low confidence (%.2f); double-check the preview", intent.Confidence))
	}
	return diff, warnings, nil
}

// Confirm is the CONFIRMED -> APPLIED transition. The whole diff
// lands atomically together with its audit record, or none of it
// does. An empty diff (idempotent re-apply) mutates nothing and
// writes no audit record.
func (s *Service) Confirm(token string) (*model.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[token]
	if !ok {
		return nil, &model.ValidationError{Field: "token", Msg: "unknown or expired preview token"}
	}
	delete(s.pending, token)

	// Re-validate against the current plan: it may have moved since
	// the preview was taken.
	next := s.plan.Clone()
	if err := applyIntent(next, &p.intent, s.today()); err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if len(DiffPlans(s.plan, next)) == 0 {
		return nil, nil
	}

	rec, err := s.commitLocked(next, p.intent, p.userText, "")
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Revert is the APPLIED -> REVERTED transition: re-apply the before
// snapshot of an audit record as the new current state and append a
// fresh record with the snapshots swapped. The original record is
// never touched.
func (s *Service) Revert(auditID string) (*model.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orig, err := s.log.Get(auditID)
	if err != nil {
		return nil, &model.PersistenceError{Op: "reading audit record", Err: err}
	}
	if orig == nil {
		return nil, &model.ValidationError{Field: "audit_id", Msg: fmt.Sprintf("no audit record %q", auditID)}
	}

	restored, err := config.DecodePlan(orig.Before)
	if err != nil {
		return nil, err
	}

	intent := model.Intent{Action: model.ActionRevert, Entity: orig.Intent.Entity, Confidence: 1}
	rec, err := s.commitRevertLocked(restored, intent, "revert "+auditID, orig)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ScanText runs the observe-only entry scanner over journal text.
func (s *Service) ScanText(text string) []model.Intent {
	s.mu.RLock()
	parser := parse.New(resolve.NewDirectory(s.plan), s.payday, s.today)
	s.mu.RUnlock()
	return parse.NewScanner(parser).Scan(text)
}

// commitLocked persists next as the new plan and appends the audit
// record in one unit of work. A failed audit write rolls the plan
// file back; the in-memory model only advances after both succeed.
func (s *Service) commitLocked(next *model.Plan, intent model.Intent, userText, revertOf string) (*model.AuditRecord, error) {
	before, err := config.EncodePlan(s.plan)
	if err != nil {
		return nil, err
	}
	after, err := config.EncodePlan(next)
	if err != nil {
		return nil, err
	}

	ts := s.now().UTC()
	rec := model.AuditRecord{
		ID:        model.NewAuditID(ts),
		Timestamp: ts,
		UserText:  userText,
		Intent:    intent,
		Before:    before,
		After:     after,
		RevertOf:  revertOf,
	}

	if err := config.SavePlan(s.planPath, next); err != nil {
		return nil, &model.PersistenceError{Op: "writing plan", Err: err}
	}
	if err := s.log.Append(rec); err != nil {
		// Roll the plan file back so mutation and audit land together
		// or not at all.
		if restoreErr := config.SavePlan(s.planPath, s.plan); restoreErr != nil {
			return nil, &model.PersistenceError{Op: "writing audit record (plan restore also failed)", Err: err}
		}
		return nil, &model.PersistenceError{Op: "writing audit record", Err: err}
	}

	s.plan = next
	return &rec, nil
}

// commitRevertLocked writes the revert record with Before/After
// swapped relative to the original, preserving append-only history.
func (s *Service) commitRevertLocked(restored *model.Plan, intent model.Intent, userText string, orig *model.AuditRecord) (*model.AuditRecord, error) {
	ts := s.now().UTC()
	rec := model.AuditRecord{
		ID:        model.NewAuditID(ts),
		Timestamp: ts,
		UserText:  userText,
		Intent:    intent,
		Before:    orig.After,
		After:     orig.Before,
		RevertOf:  orig.ID,
	}

	if err := config.SavePlan(s.planPath, restored); err != nil {
		return nil, &model.PersistenceError{Op: "writing plan", Err: err}
	}
	if err := s.log.Append(rec); err != nil {
		if restoreErr := config.SavePlan(s.planPath, s.plan); restoreErr != nil {
			return nil, &model.PersistenceError{Op: "writing audit record (plan restore also failed)", Err: err}
		}
		return nil, &model.PersistenceError{Op: "writing audit record", Err: err}
	}

	s.plan = restored
	return &rec, nil
}
