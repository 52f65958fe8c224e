package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	categoryColors = map[domain.Category]lipgloss.Color{
		domain.CategoryCorrectParts:          success,
		domain.CategoryPotentialIssues:       warning,
		domain.CategoryMissingLogic:          danger,
		domain.CategorySuggestedImprovements: info,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a completed run: header box, the four sections and,
// when present, a note about the corrected code.
func RenderReport(r *domain.ValidationResult) string {
	var b strings.Builder

	title := headerStyle.Render("etlvalidator")
	subtitle := dimStyle.Render(domain.ReportTitle)
	files := fmt.Sprintf("%s (%s)  →  %s", r.ETLFile, r.Kind.Label(), r.PySparkFile)
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + titleStyle.Render(files)))
	b.WriteString("\n\n")

	sections := r.Sections
	if sections == nil {
		sections = domain.NewSectionedReport()
	}
	for _, c := range domain.Categories {
		renderSection(&b, string(c), categoryColors[c], sections.Items(c))
	}
	if len(sections.Uncategorized) > 0 {
		renderSection(&b, domain.UncategorizedTitle, dim, sections.Uncategorized)
	}

	b.WriteString("  " + separatorLine + "\n")
	if r.HasCorrection() {
		lines := strings.Count(r.CorrectedCode, "\n") + 1
		b.WriteString("  " + passStyle.Render("Corrected PySpark code generated") + "  " +
			dimStyle.Render(fmt.Sprintf("%d lines", lines)) + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("No corrected code requested.") + "\n")
	}
	return b.String()
}

func renderSection(b *strings.Builder, title string, color lipgloss.Color, items []string) {
	heading := lipgloss.NewStyle().Bold(true).Foreground(color).Render(title)
	count := dimStyle.Render(fmt.Sprintf("%d", len(items)))
	fmt.Fprintf(b, "  %s  %s\n", heading, count)

	if len(items) == 0 {
		b.WriteString("    " + faintStyle.Render(domain.NoFindings) + "\n\n")
		return
	}
	bullet := lipgloss.NewStyle().Foreground(color).Render("●")
	for _, item := range items {
		fmt.Fprintf(b, "    %s %s\n", bullet, item)
	}
	b.WriteString("\n")
}

// RenderArtifacts lists files written to disk.
func RenderArtifacts(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Downloads") + "\n")
	for _, p := range paths {
		b.WriteString("    " + dimStyle.Render(p) + "\n")
	}
	return b.String()
}

// RenderError formats a user-facing failure message.
func RenderError(err error) string {
	return "  " + failStyle.Render("Error: ") + err.Error() + "\n"
}

// RenderHistory formats run history for terminal output.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No validation history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Validation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		missing := e.Counts[string(domain.CategoryMissingLogic)]
		issues := e.Counts[string(domain.CategoryPotentialIssues)]
		findings := fmt.Sprintf("%d issues, %d missing", issues, missing)
		styled := passStyle.Render(findings)
		if missing > 0 {
			styled = failStyle.Render(findings)
		}

		line := fmt.Sprintf("  %s  %s  %s → %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			e.ETLFile,
			e.PySparkFile,
			styled,
		)
		if e.Corrected {
			line += "  " + dimStyle.Render("corrected")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderNotice formats a status line. level is one of info, success,
// warning or error.
func RenderNotice(level, message string) string {
	var icon string
	switch level {
	case "success":
		icon = passStyle.Render("✓")
	case "warning":
		icon = lipgloss.NewStyle().Foreground(warning).Render("!")
	case "error":
		icon = failStyle.Render("✗")
	default:
		icon = dimStyle.Render("…")
	}
	return "  " + icon + " " + message + "\n"
}
