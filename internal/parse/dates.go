package parse

import (
	"regexp"
	"strings"

	"github.com/theirongolddev/runway/internal/model"
)

var isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// resolveDate turns a date phrase into a concrete date. Supported:
// ISO dates, "today", "tomorrow", "next week" (the next occurrence of
// the configured payday weekday), and weekday names ("on friday",
// "next friday"), always the next occurrence strictly after today.
func (p *Parser) resolveDate(phrase string) (model.Date, bool) {
	phrase = strings.TrimSpace(phrase)

	if iso := isoDateRe.FindString(phrase); iso != "" {
		d, err := model.ParseDate(iso)
		if err == nil {
			return d, true
		}
		return model.Date{}, false
	}

	today := p.today()
	switch {
	case phrase == "today":
		return today, true
	case phrase == "tomorrow":
		return today.AddDays(1), true
	case strings.Contains(phrase, "next week"):
		return nextWeekday(today, p.payday), true
	}

	word := phrase
	word = strings.TrimPrefix(word, "on ")
	word = strings.TrimPrefix(word, "next ")
	word = strings.TrimPrefix(word, "this ")
	if wd, err := model.ParseWeekday(word); err == nil {
		return nextWeekday(today, wd), true
	}

	return model.Date{}, false
}

// nextWeekday returns the first occurrence of wd strictly after from.
func nextWeekday(from model.Date, wd model.Weekday) model.Date {
	d := from.AddDays(1)
	for d.Weekday() != wd {
		d = d.AddDays(1)
	}
	return d
}
