package service

import (
	"time"

	"github.com/dylan/pm/internal/pipeline/domain"
)

// Window is the inclusive date range statistics are computed over
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a project's lifespan intersects the window
func (w Window) Contains(p *domain.Project) bool {
	return p.Overlaps(w.Start, w.End)
}

// YearWindow spans January 1st to the end of December 31st of year
func YearWindow(year int) Window {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return Window{
		Start: start,
		End:   domain.EndOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)),
	}
}

// AllTimeWindow spans from the earliest first entry to the latest last entry.
// With no projects it is the zero window.
func AllTimeWindow(active, done []*domain.Project) Window {
	var w Window
	first := true
	for _, set := range [][]*domain.Project{active, done} {
		for _, p := range set {
			start, end := p.First().Date, p.Latest().Date
			if first || start.Before(w.Start) {
				w.Start = start
			}
			if first || end.After(w.End) {
				w.End = end
			}
			first = false
		}
	}
	return w
}

// WindowOptions mirrors the stats command flags
type WindowOptions struct {
	Start   string
	End     string
	Year    int
	AllTime bool
}

// ResolveWindow turns command flags into a window. Year wins over explicit
// dates; missing dates default to the bounds of the current year.
func ResolveWindow(opts WindowOptions, active, done []*domain.Project, now time.Time) (Window, error) {
	if opts.Year != 0 {
		return YearWindow(opts.Year), nil
	}
	if opts.AllTime {
		return AllTimeWindow(active, done), nil
	}

	w := YearWindow(now.Year())
	if opts.Start != "" {
		start, err := domain.ParseCLIDate(opts.Start)
		if err != nil {
			return Window{}, err
		}
		w.Start = start
	}
	if opts.End != "" {
		end, err := domain.ParseCLIDate(opts.End)
		if err != nil {
			return Window{}, err
		}
		w.End = domain.EndOfDay(end)
	}
	if w.End.Before(w.Start) {
		return Window{}, domain.ErrValidation("stats end date is before start date")
	}
	return w, nil
}

// Counts groups project counts by contract family
type Counts struct {
	Projects int
	Licenses int
	RnD      int
}

// Amounts groups kEUR sums by contract family
type Amounts struct {
	Total    int
	Licenses int
	RnD      int
}

// StatsReport is the result of ComputeStatistics
type StatsReport struct {
	Window Window

	All    Counts
	Active Counts
	Signed Counts

	SignedAmounts      Amounts
	NegotiationAmounts Amounts
	InvoicedThisYear   int

	AvgDaysToDone  float64
	CashPerProject float64
	CashPerLicense float64
	CashPerRnD     float64
}

// ComputeStatistics aggregates the projects whose lifespan overlaps the window
func ComputeStatistics(active, done []*domain.Project, window Window) StatsReport {
	report := StatsReport{Window: window}

	var doneDays int
	for _, p := range active {
		if !window.Contains(p) {
			continue
		}
		report.Active.add(p)
		report.NegotiationAmounts.add(p)
	}
	for _, p := range done {
		if !window.Contains(p) {
			continue
		}
		report.Signed.add(p)
		report.SignedAmounts.add(p)
		report.InvoicedThisYear += p.MoneyYear
		doneDays += p.ElapsedDays()
	}

	report.All = Counts{
		Projects: report.Active.Projects + report.Signed.Projects,
		Licenses: report.Active.Licenses + report.Signed.Licenses,
		RnD:      report.Active.RnD + report.Signed.RnD,
	}

	report.AvgDaysToDone = ratio(doneDays, report.Signed.Projects)
	report.CashPerProject = ratio(report.SignedAmounts.Total+report.NegotiationAmounts.Total, report.All.Projects)
	report.CashPerLicense = ratio(report.SignedAmounts.Licenses+report.NegotiationAmounts.Licenses, report.All.Licenses)
	report.CashPerRnD = ratio(report.SignedAmounts.RnD+report.NegotiationAmounts.RnD, report.All.RnD)

	return report
}

func (c *Counts) add(p *domain.Project) {
	c.Projects++
	switch {
	case p.Type.IsLicense():
		c.Licenses++
	case p.Type.IsRnD():
		c.RnD++
	}
}

func (a *Amounts) add(p *domain.Project) {
	a.Total += p.Money
	switch {
	case p.Type.IsLicense():
		a.Licenses += p.Money
	case p.Type.IsRnD():
		a.RnD += p.Money
	}
}

func ratio(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
