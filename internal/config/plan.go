package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/runway/internal/model"
)

// PlanPath returns the fixed per-user location of the recurring plan.
func PlanPath() string {
	return filepath.Join(ConfigDir(), "plan.toml")
}

// LoadPlan reads and validates the plan document. A missing file
// yields an empty plan; a plan that fails integrity validation is
// rejected rather than silently skipped.
func LoadPlan(path string) (*model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Plan{}, nil
		}
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	plan, err := DecodePlan(string(data))
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// SavePlan writes the plan atomically: encode to a temp file in the
// same directory, then rename over the target. A half-written plan
// must never be observable.
func SavePlan(path string, p *model.Plan) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating plan dir: %w", err)
	}

	encoded, err := EncodePlan(p)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".plan-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp plan: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp plan: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing plan: %w", err)
	}
	return nil
}

// EncodePlan serializes a plan to its canonical TOML form. Used both
// for plan.toml and for the snapshots embedded in audit records.
func EncodePlan(p *model.Plan) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}
	return buf.String(), nil
}

// DecodePlan parses a TOML plan snapshot, applies field defaults, and
// validates integrity.
func DecodePlan(data string) (*model.Plan, error) {
	var p model.Plan
	if err := toml.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	applyPlanDefaults(&p)
	p.SortInstallmentDates()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func applyPlanDefaults(p *model.Plan) {
	for i := range p.Items {
		if p.Items[i].Account == "" {
			p.Items[i].Account = model.DefaultAccount
		}
	}
	for i := range p.Essentials {
		if p.Essentials[i].Account == "" {
			p.Essentials[i].Account = model.DefaultAccount
		}
	}
}
