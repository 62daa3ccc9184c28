package parse

import (
	"strings"

	"github.com/theirongolddev/runway/internal/model"
)

// Scanner applies the parser in observe-only mode over free-form
// journal text, surfacing undeclared financial events as suggestions.
// It never transitions any adjustment state machine, and anything
// below ScanFloor is discarded rather than surfaced.
type Scanner struct {
	parser *Parser
}

// NewScanner wraps a parser for observe-only use.
func NewScanner(p *Parser) *Scanner {
	return &Scanner{parser: p}
}

// Scan splits text into sentences and returns the intents that parse
// with confidence at or above ScanFloor. Parse failures and ambiguous
// resolutions are dropped silently; in observe-only mode there is no
// user to re-prompt.
func (s *Scanner) Scan(text string) []model.Intent {
	var out []model.Intent
	for _, sentence := range splitSentences(text) {
		in, err := s.parser.Parse(sentence)
		if err != nil {
			continue
		}
		if in.Confidence < ScanFloor {
			continue
		}
		out = append(out, *in)
	}
	return out
}

func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', ';', '\n':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}
