package render

import (
	"fmt"
	"strings"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/service"
)

// StatsMargin is subtracted from the console width for the stats view
const StatsMargin = 30

// FormatStats renders a statistics report in dotted-leader blocks
func FormatStats(r service.StatsReport, user string, width int) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	sep := Separator(width - StatsMargin)

	line("%s", sep)
	if user != "" {
		line("  User: %s", user)
	}
	line("  Stats from %s to %s", domain.FormatDay(r.Window.Start), domain.FormatDay(r.Window.End))
	line("%s", sep)

	line("  Total amount signed........ %4d kEUR", r.SignedAmounts.Total)
	line("     * Licenses.............. %4d kEUR", r.SignedAmounts.Licenses)
	line("     * R&D/MTA............... %4d kEUR", r.SignedAmounts.RnD)
	line("  Total invoiced this year... %4d kEUR", r.InvoicedThisYear)
	line("  Total amount in nego....... %4d kEUR", r.NegotiationAmounts.Total)
	line("     * Licenses.............. %4d kEUR", r.NegotiationAmounts.Licenses)
	line("     * R&D/MTA............... %4d kEUR", r.NegotiationAmounts.RnD)
	line("%s", sep)

	line("  Cash per project........... %4.0f kEUR", r.CashPerProject)
	line("  Cash per license........... %4.0f kEUR", r.CashPerLicense)
	line("  Cash per R&D............... %4.0f kEUR", r.CashPerRnD)
	line("%s", sep)

	counts := func(title string, all, active int) {
		line("  %s", title)
		line("     * Total.................. %d", all)
		line("     * Signed................. %d", all-active)
		line("     * Active................. %d", active)
	}
	counts("Number of projects", r.All.Projects, r.Active.Projects)
	counts("Number of licenses", r.All.Licenses, r.Active.Licenses)
	counts("Number of R&D", r.All.RnD, r.Active.RnD)
	line("%s", sep)

	line("  Average time to Done........ %s", FormatDuration(r.AvgDaysToDone))
	line("%s", sep)
	return b.String()
}
