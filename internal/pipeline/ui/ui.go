// Package ui paints rendered text for the terminal and runs interactive prompts.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/dylan/pm/internal/pipeline/ports"
	"github.com/dylan/pm/internal/pipeline/render"
)

// StatusTable renders the status rows with Completed rows in green and
// Stale rows in red.
func StatusTable(rows []render.StatusRow, width int) string {
	var b strings.Builder
	sep := DimStyle.Render(render.Separator(width))
	b.WriteString(sep + "\n")
	for _, r := range rows {
		b.WriteString(PaintRow(r) + "\n")
	}
	b.WriteString(sep + "\n")
	return b.String()
}

// PaintRow applies the style matching the row state
func PaintRow(r render.StatusRow) string {
	switch r.State {
	case render.RowCompleted:
		return CompletedRowStyle.Render(r.String())
	case render.RowStale:
		return StaleRowStyle.Render(r.String())
	}
	return r.String()
}

// History paints a plain history block: separators dimmed, the project line
// highlighted.
func History(text string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		switch {
		case l != "" && strings.Trim(l, "-") == "":
			lines[i] = DimStyle.Render(l)
		case strings.HasPrefix(l, "Project #"):
			lines[i] = HeaderStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Success formats a confirmation line
func Success(format string, args ...any) string {
	return SuccessStyle.Render(fmt.Sprintf(format, args...))
}

// Warn formats a notice that did not stop the command
func Warn(format string, args ...any) string {
	return WarnStyle.Render(fmt.Sprintf(format, args...))
}

// Error formats a diagnostic line
func Error(msg string) string {
	return ErrorStyle.Render("Error: ") + msg
}

// ConfirmRemoval asks before a project and its history are deleted.
// An aborted prompt counts as a refusal.
func ConfirmRemoval(info ports.ProjectInfo) (bool, error) {
	var confirmed bool

	state := "active"
	if info.Done {
		state = "done"
	}
	description := fmt.Sprintf("%s project, type %s, status %s, %d history entries, last action %s",
		state, info.Type, info.Status, info.Entries, info.LastAction)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove project #%d %s?", info.ID, info.Name)).
				Description(description).
				Affirmative("Remove").
				Negative("Keep").
				Value(&confirmed),
		),
	)

	err := form.Run()
	if err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, err
	}

	return confirmed, nil
}
