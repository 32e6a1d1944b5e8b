// Package report renders advisory findings and skill recommendations as
// boxed text blocks for the host to display. Rendering is pure: lines are
// framed, never reordered, rewritten, or dropped.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DisplayLimit caps how many lines a rendered recommendation block shows.
// Matching itself is unbounded; only presentation truncates.
const DisplayLimit = 5

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Render returns a boxed text block with a title line, an icon, and one
// line per entry. Lines are joined literally; no wrapping or reordering.
func Render(title string, lines []string, icon string) string {
	header := title
	if icon != "" {
		header = icon + " " + title
	}

	parts := []string{header}
	if len(lines) > 0 {
		parts = append(parts, strings.Repeat("─", lipgloss.Width(header)))
		parts = append(parts, lines...)
	}

	return boxStyle.Render(strings.Join(parts, "\n"))
}

// Truncate caps lines at limit for display, appending a "+N more" note when
// entries were cut. A limit of zero or less returns the lines unchanged.
func Truncate(lines []string, limit int) []string {
	if limit <= 0 || len(lines) <= limit {
		return lines
	}

	capped := make([]string, 0, limit+1)
	capped = append(capped, lines[:limit]...)
	capped = append(capped, fmt.Sprintf("… and %d more", len(lines)-limit))
	return capped
}
