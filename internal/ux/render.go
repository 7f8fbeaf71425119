// Package ux renders validation reports for the terminal.
package ux

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kumaydet/internal/dataset"
	"kumaydet/internal/validate"
)

// Styles groups the lipgloss styles used by the report renderer.
type Styles struct {
	Title   lipgloss.Style
	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Advice  lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles returns the default report styling.
func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Valid: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true),

		Invalid: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		Advice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// RenderReport formats a validation report as styled terminal text.
func RenderReport(report *validate.Report, styles Styles) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Dataset Validation Report"))
	b.WriteString("\n")

	if report.IsValid {
		b.WriteString(styles.Valid.Render("VALID"))
	} else {
		b.WriteString(styles.Invalid.Render("INVALID"))
	}
	b.WriteString(styles.Muted.Render(fmt.Sprintf("  run %s  %s",
		report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n\n")

	writeSection(&b, "Errors", report.Errors, styles.Error)
	writeSection(&b, "Warnings", report.Warnings, styles.Warning)
	writeSection(&b, "Recommendations", report.Recommendations, styles.Advice)

	b.WriteString(renderStatistics(report.Statistics, styles))
	return b.String()
}

func writeSection(b *strings.Builder, title string, entries []string, style lipgloss.Style) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d)\n", title, len(entries))
	for _, entry := range entries {
		b.WriteString("  " + style.Render(entry) + "\n")
	}
	b.WriteString("\n")
}

func renderStatistics(stats validate.SplitStatistics, styles Styles) string {
	var b strings.Builder
	b.WriteString("Statistics\n")
	for _, split := range dataset.Splits {
		fmt.Fprintf(&b, "  %-5s %d images, %d labels\n",
			split, stats.ImageCounts[split], stats.LabelCounts[split])
	}

	names := make([]string, 0, len(stats.ClassCounts))
	for name := range stats.ClassCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  class %-12s %d objects\n", name, stats.ClassCounts[name])
	}
	return b.String()
}
