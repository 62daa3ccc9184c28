// Package resolve maps free-text entity mentions onto canonical plan
// entities. Resolution order is exact alias match, case-insensitive
// substring, then edit-distance fuzzy match under a fixed threshold.
// A tie at the minimum distance is always surfaced as an
// AmbiguousMatch: silent wrong-entity resolution corrupts the plan,
// so it is treated as a correctness bug, not a UX concern.
package resolve

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/theirongolddev/runway/internal/model"
)

// maxDistance is the levenshtein ceiling for a fuzzy candidate.
const maxDistance = 2

// ResolvedEntity is a successful resolution.
type ResolvedEntity struct {
	Name     string
	Type     model.EntityType
	Distance int     // 0 for exact and substring matches
	Norm     float64 // Distance normalized by the longer string length
	Exact    bool
}

// NotFoundError reports that nothing in the directory matched.
type NotFoundError struct {
	Raw string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no entity matches %q", e.Raw)
}

type entry struct {
	key       string // lowered alias or canonical name
	canonical string
	typ       model.EntityType
}

// Directory indexes every alias and canonical entity name in a plan.
// Read-mostly: rebuild it after the plan changes.
type Directory struct {
	entries []entry
}

// NewDirectory builds a directory from the plan's aliases plus the
// canonical names of every entity, so canonical names always resolve
// even without an alias.
func NewDirectory(p *model.Plan) *Directory {
	d := &Directory{}
	for _, a := range p.Aliases {
		d.add(a.Alias, a.Canonical, a.Type)
	}
	for _, it := range p.Items {
		d.add(it.Name, it.Name, model.EntityRecurring)
	}
	for _, db := range p.Debts {
		d.add(db.Name, db.Name, model.EntityDebt)
	}
	for _, in := range p.Installments {
		d.add(in.Name, in.Name, model.EntityInstallment)
	}
	for _, es := range p.Essentials {
		d.add(es.Name, es.Name, model.EntityEssential)
	}
	return d
}

func (d *Directory) add(key, canonical string, typ model.EntityType) {
	key = normalize(key)
	for _, e := range d.entries {
		if e.key == key && e.canonical == canonical && e.typ == typ {
			return
		}
	}
	d.entries = append(d.entries, entry{key: key, canonical: canonical, typ: typ})
}

// Resolve maps raw onto a canonical entity. hint, when non-empty,
// restricts candidates to one entity type before matching.
func (d *Directory) Resolve(raw string, hint model.EntityType) (ResolvedEntity, error) {
	needle := normalize(raw)
	if needle == "" {
		return ResolvedEntity{}, &NotFoundError{Raw: raw}
	}

	pool := d.entries
	if hint != "" {
		pool = nil
		for _, e := range d.entries {
			if e.typ == hint {
				pool = append(pool, e)
			}
		}
	}

	// (a) exact
	for _, e := range pool {
		if e.key == needle {
			return ResolvedEntity{Name: e.canonical, Type: e.typ, Exact: true}, nil
		}
	}

	// (b) substring, either direction
	var subs []entry
	for _, e := range pool {
		if strings.Contains(e.key, needle) || strings.Contains(needle, e.key) {
			subs = appendDistinct(subs, e)
		}
	}
	if len(subs) == 1 {
		return ResolvedEntity{Name: subs[0].canonical, Type: subs[0].typ}, nil
	}
	if len(subs) > 1 {
		return ResolvedEntity{}, ambiguous(raw, subs, 0)
	}

	// (c) fuzzy under the distance ceiling
	best := maxDistance + 1
	var fuzzy []entry
	for _, e := range pool {
		dist := levenshtein.ComputeDistance(needle, e.key)
		if dist > maxDistance {
			continue
		}
		if dist < best {
			best = dist
			fuzzy = fuzzy[:0]
		}
		if dist == best {
			fuzzy = appendDistinct(fuzzy, e)
		}
	}
	if len(fuzzy) == 1 {
		e := fuzzy[0]
		return ResolvedEntity{
			Name:     e.canonical,
			Type:     e.typ,
			Distance: best,
			Norm:     float64(best) / float64(maxLen(needle, e.key)),
		}, nil
	}
	if len(fuzzy) > 1 {
		return ResolvedEntity{}, ambiguous(raw, fuzzy, best)
	}

	return ResolvedEntity{}, &NotFoundError{Raw: raw}
}

// appendDistinct skips entries resolving to a canonical entity that
// is already present (many aliases to one entity is not ambiguity).
func appendDistinct(list []entry, e entry) []entry {
	for _, have := range list {
		if have.canonical == e.canonical && have.typ == e.typ {
			return list
		}
	}
	return append(list, e)
}

func ambiguous(raw string, candidates []entry, dist int) *model.AmbiguousMatch {
	alts := make([]model.Alternative, len(candidates))
	for i, c := range candidates {
		alts[i] = model.Alternative{Name: c.canonical, Type: c.typ, Distance: dist}
	}
	return &model.AmbiguousMatch{Raw: raw, Alternatives: alts}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

func maxLen(a, b string) int {
	if len(a) > len(b) {
		return len(a)
	}
	return len(b)
}
