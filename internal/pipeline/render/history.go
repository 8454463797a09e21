package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dylan/pm/internal/pipeline/domain"
)

// FormatHistory renders a project header followed by one line per history entry
func FormatHistory(p *domain.Project, settings domain.Settings) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	pad := strings.Repeat(" ", SummaryIndent)

	line("%s", Separator(settings.Width))
	line("Project #%-2d  %-10s %-3s  %4d kEUR  Duration:%-9s",
		p.ID, p.Name, p.Type, p.Money, FormatDuration(float64(p.ElapsedDays())))
	if p.PI != "" || p.MoneyYear != 0 {
		line("%sCurrent year:  %5d kEUR  PI: %-7s", pad, p.MoneyYear, p.PI)
	}
	if p.Ref != "" {
		line("%sRef: %-12s", pad, p.Ref)
	}
	if p.Summary != "" {
		line("%s%s", pad, Wrap(p.Summary, settings.Width, SummaryIndent))
		line("%s", Separator(settings.Width))
	}

	for i, h := range p.History {
		delta := "--"
		if i > 0 {
			delta = strconv.Itoa(domain.WholeDays(h.Date.Sub(p.History[i-1].Date))) + "d"
		}
		line("  %2d   %-11s %5s  %-5s |%-6s|  %-35s",
			h.Node,
			domain.FormatDay(h.Date),
			delta,
			h.Status,
			settings.ProgressBar(h.Status),
			Wrap(h.Comment, settings.Width, HistoryIndent))
	}
	line("%s", Separator(settings.Width))
	return b.String()
}
