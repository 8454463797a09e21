package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dylan/pm/internal/pipeline/domain"
)

// StatusNameLen is the number of name characters shown in the status table
const StatusNameLen = 12

// RowState tells the painter how to highlight a status row
type RowState int

const (
	RowNormal RowState = iota
	RowCompleted
	RowStale
)

// StatusRow is one line of the status table
type StatusRow struct {
	ID       int
	Name     string
	Type     domain.ContractType
	Status   domain.Status
	Progress string
	Comment  string
	State    RowState
}

// String renders the row without colors
func (r StatusRow) String() string {
	return fmt.Sprintf("#%-2d %-12s  %-4s |%-6s| %s", r.ID, r.Name, r.Type, r.Progress, r.Comment)
}

// StatusRows builds the status table rows in the order given.
// A row is Completed when showAll is set and its latest status is Done,
// otherwise Stale when its latest entry is at least WarnDays old.
func StatusRows(projects []*domain.Project, showAll bool, settings domain.Settings, now time.Time) []StatusRow {
	rows := make([]StatusRow, 0, len(projects))
	warn := time.Duration(settings.WarnDays) * 24 * time.Hour
	for _, p := range projects {
		latest := p.Latest()
		row := StatusRow{
			ID:       p.ID,
			Name:     truncate(p.Name, StatusNameLen),
			Type:     p.Type,
			Status:   latest.Status,
			Progress: settings.ProgressBar(latest.Status),
			Comment:  Wrap(latest.Comment, settings.Width, StatusIndent),
		}
		switch {
		case showAll && latest.Status == domain.StatusDone:
			row.State = RowCompleted
		case now.Sub(latest.Date) >= warn:
			row.State = RowStale
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatStatus renders rows between two separator lines
func FormatStatus(rows []StatusRow, width int) string {
	var b strings.Builder
	b.WriteString(Separator(width) + "\n")
	for _, r := range rows {
		b.WriteString(r.String() + "\n")
	}
	b.WriteString(Separator(width) + "\n")
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
