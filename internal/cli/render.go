package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/adjust"
	"github.com/theirongolddev/runway/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder  = lipgloss.Color("#282726")
	ColorTextDim = lipgloss.Color("#575653")
	ColorText    = lipgloss.Color("#FFFCF0")
	ColorAccent  = lipgloss.Color("#3AA99F")
	ColorGreen   = lipgloss.Color("#879A39")
	ColorOrange  = lipgloss.Color("#DA702C")
	ColorRed     = lipgloss.Color("#D14D41")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
	lowStyle    = lipgloss.NewStyle().Foreground(ColorRed)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	okStyle     = lipgloss.NewStyle().Foreground(ColorGreen)
)

// Table is a bordered text table.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders a bordered table with headers and rows. The
// first column is left-aligned, the rest right-aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	writeBorder(&b, widths, "╭", "┬", "╮")

	b.WriteString(dimStyle.Render("│"))
	for i, h := range t.Headers {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
		b.WriteString(dimStyle.Render("│"))
	}
	b.WriteString("\n")

	writeBorder(&b, widths, "├", "┼", "┤")

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := widths[i] - visibleLen(cell)
			if pad < 0 {
				pad = 0
			}
			if i == 0 {
				b.WriteString(valueStyle.Render(" "+cell) + strings.Repeat(" ", pad+1))
			} else {
				b.WriteString(strings.Repeat(" ", pad+1) + valueStyle.Render(cell) + " ")
			}
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	writeBorder(&b, widths, "╰", "┴", "╯")

	return b.String()
}

func writeBorder(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

// visibleLen ignores ANSI styling applied by per-cell callers.
func visibleLen(s string) int {
	return len([]rune(stripANSI(s)))
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if r == 'm' {
				inEsc = false
			}
		case r == '\x1b':
			inEsc = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RenderForecast renders the day-by-day ledger. Days where the
// running balance dips below zero are highlighted.
func RenderForecast(days []model.ForecastDay) string {
	t := Table{
		Title:   "Cash forecast",
		Headers: []string{"Day", "Expected events", "Delta", "Balance"},
	}
	for _, d := range days {
		labels := make([]string, len(d.Events))
		for i, ev := range d.Events {
			labels[i] = fmt.Sprintf("%s %s", ev.Label, FormatEventAmount(ev.Amount))
		}
		events := strings.Join(labels, ", ")
		if events == "" {
			events = dimStyle.Render("-")
		}

		balance := FormatMoney(d.RunningBalance)
		if d.RunningBalance.IsNegative() {
			balance = lowStyle.Render(balance)
		}

		t.Rows = append(t.Rows, []string{
			FormatDate(d.Date),
			events,
			FormatBalanceDelta(d.NetDelta),
			balance,
		})
	}
	return RenderTable(t)
}

// RenderDiff renders a field-level plan diff for preview.
func RenderDiff(diff []adjust.FieldChange) string {
	if len(diff) == 0 {
		return dimStyle.Render("  (no changes)") + "\n"
	}
	t := Table{
		Title:   "Proposed changes",
		Headers: []string{"Field", "Before", "After"},
	}
	for _, c := range diff {
		t.Rows = append(t.Rows, []string{c.Path, c.Before, okStyle.Render(c.After)})
	}
	return RenderTable(t)
}

// RenderIntent renders a parsed intent one line per fact.
func RenderIntent(in model.Intent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s", headerStyle.Render(string(in.Action)), valueStyle.Render(in.Entity))
	if in.EntityType != "" {
		fmt.Fprintf(&b, " %s", dimStyle.Render("("+string(in.EntityType)+")"))
	}
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render("confidence "+FormatConfidence(in.Confidence)))
	for _, key := range []string{model.ParamAmount, model.ParamDate, model.ParamName, model.ParamProvider, model.ParamDueDates} {
		if v := in.Param(key); v != "" {
			fmt.Fprintf(&b, "    %s = %s\n", dimStyle.Render(key), valueStyle.Render(v))
		}
	}
	return b.String()
}

// RenderWarnings renders preview warnings.
func RenderWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString("  " + warnStyle.Render("! "+w) + "\n")
	}
	return b.String()
}

// RenderAuditList renders audit history rows.
func RenderAuditList(records []model.AuditRecord) string {
	t := Table{
		Title:   "Adjustment history",
		Headers: []string{"Id", "When", "Action", "Text"},
	}
	for _, r := range records {
		action := string(r.Intent.Action)
		if r.RevertOf != "" {
			action = "revert of " + r.RevertOf
		}
		t.Rows = append(t.Rows, []string{
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04"),
			action,
			r.UserText,
		})
	}
	return RenderTable(t)
}

// RenderSuggestions renders entry-scanner suggestions.
func RenderSuggestions(intents []model.Intent) string {
	if len(intents) == 0 {
		return dimStyle.Render("  no financial events detected") + "\n"
	}
	var b strings.Builder
	for _, in := range intents {
		b.WriteString(RenderIntent(in))
	}
	return b.String()
}

// LowBalance reports whether any projected day dips below the floor.
func LowBalance(days []model.ForecastDay, floor decimal.Decimal) bool {
	for _, d := range days {
		if d.RunningBalance.LessThan(floor) {
			return true
		}
	}
	return false
}
