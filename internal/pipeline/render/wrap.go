// Package render formats projects, histories and statistics as plain text
// for the console.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// StatusIndent is the column at which status comments start
const StatusIndent = 32

// HistoryIndent is the column at which history comments start
const HistoryIndent = 42

// SummaryIndent is the column at which a project summary starts
const SummaryIndent = 13

// Wrap fills words greedily into lines that fit in width-indent columns and
// joins them with a newline followed by indent spaces. A single word longer
// than the available room gets a line of its own.
func Wrap(text string, width, indent int) string {
	room := width - indent
	var lines []string
	cur := ""
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(cur)+utf8.RuneCountInString(word) < room {
			cur += " " + word
			continue
		}
		if line := strings.TrimSpace(cur); line != "" {
			lines = append(lines, line)
		}
		cur = word
	}
	if line := strings.TrimSpace(cur); line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"+strings.Repeat(" ", indent))
}

// FormatDuration renders a day count as days up to a month, months beyond
func FormatDuration(days float64) string {
	if days <= 31 {
		return fmt.Sprintf("%3.0f days", days)
	}
	return fmt.Sprintf("%2.0f months", days/30)
}

// Separator returns a line of width dashes
func Separator(width int) string {
	if width < 0 {
		width = 0
	}
	return strings.Repeat("-", width)
}
