// Package ui renders the command-line reports.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jbdamask/toolhost/pkg/llm"
	"github.com/jbdamask/toolhost/pkg/resolver"
	"github.com/jbdamask/toolhost/pkg/tools"
)

var (
	accent = lipgloss.Color("#D97757")
	muted  = lipgloss.Color("#7D7D7D")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
)

// RenderProbeReport writes one row per probed candidate. selected is the
// model Resolve would pick, or "" when none answered.
func RenderProbeReport(w io.Writer, results []resolver.ProbeResult, selected string) {
	widths := []int{len("MODEL"), len("PROVIDER"), len("STATUS"), len("LATENCY")}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		provider := "unknown"
		if p, ok := llm.ProviderFor(r.Candidate); ok {
			provider = string(p)
		}
		status := "ok"
		if !r.OK() {
			status = "failed: " + oneLine(r.Err.Error(), 60)
		}
		row := []string{r.Candidate, provider, status, r.Latency.Round(time.Millisecond).String()}
		for i, cell := range row {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
		rows = append(rows, row)
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(pad("  MODEL", widths[0]+2) + "  " + pad("PROVIDER", widths[1]) + "  " +
		pad("STATUS", widths[2]) + "  LATENCY"))
	for i, row := range rows {
		marker := "  "
		if row[0] == selected {
			marker = "▸ "
		}
		style := okStyle
		if !results[i].OK() {
			style = failStyle
		}
		sb.WriteString("\n")
		sb.WriteString(marker + pad(row[0], widths[0]) + "  " + pad(row[1], widths[1]) + "  " +
			style.Render(pad(row[2], widths[2])) + "  " + mutedStyle.Render(row[3]))
	}

	footer := "No candidate answered; every tool that needs a model will fail until one does."
	if selected != "" {
		footer = "Selected: " + selected
	}

	fmt.Fprintln(w, titleStyle.Render("Model candidates"))
	fmt.Fprintln(w, boxStyle.Render(sb.String()))
	fmt.Fprintln(w, mutedStyle.Render(footer))
}

// RenderToolList writes the registered tools with their descriptions.
func RenderToolList(w io.Writer, defs []tools.ToolDefinition) {
	width := 0
	for _, d := range defs {
		if len(d.Name) > width {
			width = len(d.Name)
		}
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d tools", len(defs))))
	for _, d := range defs {
		fmt.Fprintf(w, "  %s  %s\n", headerStyle.Render(pad(d.Name, width)), mutedStyle.Render(d.Description))
	}
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
