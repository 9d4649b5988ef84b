package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/richxcame/devcert-dashboard/internal/csvimport"
)

const maxListedErrors = 10

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4A017"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// writeSummary renders a short human readable view of the report.
func writeSummary(out io.Writer, file string, report *csvimport.Report) error {
	mode := "stored"
	if report.DryRun {
		mode = "dry run"
	}
	title := titleStyle.Render(fmt.Sprintf("%s (%s)", file, mode))

	if report.Rejected() {
		body := lipgloss.JoinVertical(lipgloss.Left, title, errStyle.Render(strings.Join(report.StructuralErrors, "\n")))
		_, err := fmt.Fprintln(out, boxStyle.Render(body))
		return err
	}

	lines := []string{
		title,
		row("rows", report.TotalRows),
		row("valid", report.Valid),
		row("flagged", report.Flagged),
	}
	if !report.DryRun {
		lines = append(lines, row("created", report.Created), row("updated", report.Updated), row("failed", report.Failed))
	}
	if report.ArchiveKey != "" {
		lines = append(lines, labelStyle.Render("archive")+report.ArchiveKey)
	}
	for i, e := range report.RowErrors {
		if i == maxListedErrors {
			lines = append(lines, warnStyle.Render(fmt.Sprintf("... %d more", len(report.RowErrors)-maxListedErrors)))
			break
		}
		lines = append(lines, warnStyle.Render(e))
	}

	_, err := fmt.Fprintln(out, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	return err
}

func row(label string, n int) string {
	return labelStyle.Render(label) + fmt.Sprint(n)
}
