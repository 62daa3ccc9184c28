// Package parse turns short natural-language instructions into
// structured Intents. Matching is an ordered list of pattern rules,
// first match wins; there is no statistical model anywhere in here.
package parse

import (
	"regexp"
	"strings"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/resolve"
)

// Confidence scoring. The score is a weighted sum: each rule declares
// a base score, an exact alias match and an explicit amount token add
// bonuses, and fuzzy entity matches pay a penalty proportional to
// their normalized edit distance.
const (
	exactMatchBonus = 0.15
	amountBonus     = 0.05
	// distancePenalty is scaled by the normalized edit distance; a
	// fully-fuzzy resolution (distance equal to the name length) costs
	// the whole penalty, enough to push the weakest rules below
	// MinConfidence.
	distancePenalty = 0.30

	// MinConfidence is the floor for interactive parsing.
	MinConfidence = 0.40
	// ScanFloor is the stricter floor for observe-only scanning;
	// anything below it is discarded entirely, not surfaced.
	ScanFloor = 0.60
)

// Parser converts free text into Intents using the entity directory
// for resolution.
type Parser struct {
	dir    *resolve.Directory
	payday model.Weekday
	today  func() model.Date
	rules  []rule
}

type rule struct {
	name  string
	re    *regexp.Regexp
	base  float64
	build func(p *Parser, m []string) (*model.Intent, error)
}

// New builds a parser over the given directory. payday anchors
// relative phrases like "next week".
func New(dir *resolve.Directory, payday model.Weekday, today func() model.Date) *Parser {
	p := &Parser{dir: dir, payday: payday, today: today}
	p.rules = []rule{
		{
			name: "payoff",
			re:   regexp.MustCompile(`^(?:i\s+(?:just\s+)?)?(?:paid\s+off|payed\s+off|pay\s+off|paid)\s+(?:my\s+|the\s+)?(.+)$`),
			base: 0.80,
			build: func(p *Parser, m []string) (*model.Intent, error) {
				return p.buildPayoff(m[1])
			},
		},
		{
			name: "change_amount",
			re:   regexp.MustCompile(`^(?:lower|raise|set|change|drop|bump|reduce|increase)\s+(?:my\s+|the\s+)?(.+?)\s+to\s+(.+)$`),
			base: 0.70,
			build: func(p *Parser, m []string) (*model.Intent, error) {
				return p.buildChangeAmount(m[1], m[2])
			},
		},
		{
			name: "defer",
			re:   regexp.MustCompile(`^(?:defer|push|postpone|delay|move)\s+(?:my\s+|the\s+)?(.+?)\s+(?:to|until)\s+(.+)$`),
			base: 0.65,
			build: func(p *Parser, m []string) (*model.Intent, error) {
				return p.buildDefer(m[1], m[2])
			},
		},
		{
			name: "add_installment",
			re:   regexp.MustCompile(`^(?:add|new)\s+(?:an?\s+)?installment\s+(.+)$`),
			base: 0.60,
			build: func(p *Parser, m []string) (*model.Intent, error) {
				return p.buildAddInstallment(m[1])
			},
		},
		{
			name: "cancel",
			re:   regexp.MustCompile(`^(?:cancel|stop|remove)\s+(?:my\s+|the\s+)?(.+)$`),
			base: 0.60,
			build: func(p *Parser, m []string) (*model.Intent, error) {
				return p.buildCancel(m[1])
			},
		},
	}
	return p
}

// Parse converts one sentence into an Intent. Failures come back as
// typed values: *model.ParseFailure when no rule matched,
// *model.AmbiguousMatch when entity resolution tied.
func (p *Parser) Parse(text string) (*model.Intent, error) {
	norm := normalizeText(text)
	if norm == "" {
		return nil, &model.ParseFailure{Text: text, Reason: "empty input"}
	}

	for _, r := range p.rules {
		m := r.re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		in, err := r.build(p, m)
		if err != nil {
			return nil, err
		}
		in.Confidence = clamp(in.Confidence + r.base)
		if in.Confidence < MinConfidence {
			return nil, &model.ParseFailure{Text: text, Reason: "matched but confidence too low"}
		}
		return in, nil
	}

	return nil, &model.ParseFailure{Text: text, Reason: "no pattern matched"}
}

func (p *Parser) buildPayoff(raw string) (*model.Intent, error) {
	entity := stripEntitySuffixes(raw)
	res, err := p.dir.Resolve(entity, model.EntityDebt)
	if err != nil {
		return nil, parseErr(entity, err)
	}
	return &model.Intent{
		Action:     model.ActionPayoff,
		Entity:     res.Name,
		EntityType: res.Type,
		Confidence: resolutionScore(res),
	}, nil
}

func (p *Parser) buildChangeAmount(rawEntity, tail string) (*model.Intent, error) {
	// The rule already consumed the "to" context word, so a leading
	// bare number in the tail is the amount.
	amount, token, ok := leadingAmount(tail)
	if !ok {
		amount, token, ok = ScanAmount(tail)
	}
	if !ok {
		return nil, &model.ParseFailure{Text: tail, Reason: "no amount found after \"to\""}
	}

	res, err := p.dir.Resolve(stripEntitySuffixes(rawEntity), "")
	if err != nil {
		return nil, parseErr(rawEntity, err)
	}

	params := map[string]string{model.ParamAmount: amount.StringFixed(2)}
	rest := strings.TrimSpace(strings.Replace(tail, token, "", 1))
	if rest != "" {
		if d, ok := p.resolveDate(rest); ok {
			params[model.ParamDate] = d.String()
		}
	}

	return &model.Intent{
		Action:     model.ActionChangeAmount,
		Entity:     res.Name,
		EntityType: res.Type,
		Params:     params,
		Confidence: resolutionScore(res) + amountBonus,
	}, nil
}

func (p *Parser) buildDefer(rawEntity, phrase string) (*model.Intent, error) {
	d, ok := p.resolveDate(phrase)
	if !ok {
		return nil, &model.ParseFailure{Text: phrase, Reason: "no date found after \"to\""}
	}
	res, err := p.dir.Resolve(stripEntitySuffixes(rawEntity), "")
	if err != nil {
		return nil, parseErr(rawEntity, err)
	}
	return &model.Intent{
		Action:     model.ActionDefer,
		Entity:     res.Name,
		EntityType: res.Type,
		Params:     map[string]string{model.ParamDate: d.String()},
		Confidence: resolutionScore(res),
	}, nil
}

var providerRe = regexp.MustCompile(`\s+(?:with|via|through)\s+([a-z0-9][a-z0-9 ]*?)(?:\s+on\s+.*)?$`)
var onClauseRe = regexp.MustCompile(`\s+on\s+(.+)$`)

func (p *Parser) buildAddInstallment(rest string) (*model.Intent, error) {
	amount, token, ok := ScanAmount(rest)
	if !ok {
		return nil, &model.ParseFailure{Text: rest, Reason: "installment needs an amount"}
	}

	params := map[string]string{model.ParamAmount: amount.StringFixed(2)}

	if m := onClauseRe.FindStringSubmatch(rest); m != nil {
		var dates []string
		for _, part := range splitDateList(m[1]) {
			if d, ok := p.resolveDate(part); ok {
				dates = append(dates, d.String())
			}
		}
		if len(dates) == 0 {
			return nil, &model.ParseFailure{Text: m[1], Reason: "no parseable due dates"}
		}
		params[model.ParamDueDates] = strings.Join(dates, ",")
		rest = rest[:len(rest)-len(m[0])]
	} else {
		return nil, &model.ParseFailure{Text: rest, Reason: "installment needs due dates (\"on <date>\")"}
	}

	if m := providerRe.FindStringSubmatch(rest); m != nil {
		params[model.ParamProvider] = strings.TrimSpace(m[1])
		rest = rest[:len(rest)-len(m[0])]
	}

	name := strings.TrimSpace(strings.Replace(rest, token, "", 1))
	name = strings.Trim(name, " -,")
	if name == "" {
		return nil, &model.ParseFailure{Text: rest, Reason: "installment needs a name"}
	}
	params[model.ParamName] = name

	return &model.Intent{
		Action:     model.ActionAddInstallment,
		Params:     params,
		Confidence: amountBonus,
	}, nil
}

func (p *Parser) buildCancel(raw string) (*model.Intent, error) {
	res, err := p.dir.Resolve(stripEntitySuffixes(raw), "")
	if err != nil {
		return nil, parseErr(raw, err)
	}
	return &model.Intent{
		Action:     model.ActionCancel,
		Entity:     res.Name,
		EntityType: res.Type,
		Confidence: resolutionScore(res),
	}, nil
}

// parseErr passes AmbiguousMatch through untouched (the caller must
// see the alternatives) and folds everything else into ParseFailure.
func parseErr(raw string, err error) error {
	if am, ok := err.(*model.AmbiguousMatch); ok {
		return am
	}
	return &model.ParseFailure{Text: raw, Reason: err.Error()}
}

// resolutionScore is the entity-resolution contribution to confidence.
func resolutionScore(res resolve.ResolvedEntity) float64 {
	score := -distancePenalty * res.Norm
	if res.Exact {
		score += exactMatchBonus
	}
	return score
}

var entitySuffixes = []string{
	" credit card", " card", " account", " loan", " balance", " bill", " payment",
}

func stripEntitySuffixes(s string) string {
	s = strings.TrimSpace(s)
	for changed := true; changed; {
		changed = false
		for _, suf := range entitySuffixes {
			if strings.HasSuffix(s, suf) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suf))
				changed = true
			}
		}
	}
	return s
}

func normalizeText(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimRight(s, ".!? ")
	s = strings.TrimPrefix(s, "please ")
	return strings.Join(strings.Fields(s), " ")
}

func splitDateList(s string) []string {
	s = strings.ReplaceAll(s, " and ", ",")
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
