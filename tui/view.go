// ABOUTME: Rendering for the workspace TUI
// ABOUTME: Signal list on the left, projected generation result on the right
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/workspace"
)

func (m Model) renderWorkspace() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("AUTOREACH"))
	s.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(listWidth).Render(m.renderSignalList()),
		paneStyle.Width(m.detailWidth()).Render(m.renderDetailPane()),
	)
	s.WriteString(body)
	s.WriteString("\n")

	if m.statusMsg != "" {
		s.WriteString(mutedStyle.Render(m.statusMsg))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return s.String()
}

func (m Model) renderSignalList() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Signals"))
	s.WriteString("\n\n")

	switch {
	case !m.loaded:
		s.WriteString(m.spinner.View() + " Loading signals...")
		return s.String()
	case m.loadErr != nil:
		s.WriteString(errorStyle.Render("Could not load signals"))
		s.WriteString("\n")
		s.WriteString(mutedStyle.Render(m.loadErr.Error()))
		return s.String()
	case len(m.signals) == 0:
		s.WriteString(mutedStyle.Render("No signals in the feed"))
		return s.String()
	}

	state := m.ws.State()
	for i, sig := range m.signals {
		marker := "  "
		if state.SelectedSignal != nil && state.SelectedSignal.ID == sig.ID {
			marker = "● "
		}
		line := fmt.Sprintf("%s%s", marker, truncate(sig.Company, listWidth-12))
		if sig.Time != "" {
			line += mutedStyle.Render(" " + sig.Time)
		}
		if i == m.cursor {
			line = selectedStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		s.WriteString(line)
		s.WriteString("\n")
		s.WriteString(mutedStyle.Render("    " + truncate(sig.Signal, listWidth-6)))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderDetailPane() string {
	v := workspace.Project(m.ws.State())

	switch v.Status {
	case workspace.StatusIdle:
		return mutedStyle.Render(v.StatusLine)
	case workspace.StatusProcessing:
		return m.spinner.View() + " " + processingStyle.Render(v.StatusLine)
	case workspace.StatusFailed:
		return errorStyle.Render("✗ "+v.StatusLine) + "\n\n" +
			mutedStyle.Render(v.Error) + "\n\n" +
			mutedStyle.Render("Press r to run it again")
	}

	return m.viewport.View()
}

// renderResult lays out a resolved projection as plain styled text.
func renderResult(v workspace.View, width int) string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(v.Company))
	s.WriteString("\n")
	s.WriteString(mutedStyle.Render(v.Signal))
	s.WriteString("\n\n")

	scoreStyle := warningStyle
	if v.ScoreTier == workspace.TierSuccess {
		scoreStyle = successStyle
	}
	s.WriteString(scoreStyle.Render(fmt.Sprintf("Score %d", v.Score)))
	if v.IntentLevel != "" {
		s.WriteString("  Intent: " + v.IntentLevel)
	}
	s.WriteString("\n")
	if v.NextBestAction != "" {
		s.WriteString("Next: " + v.NextBestAction + "\n")
	}
	writeList(&s, "Why", v.Reasons)

	if v.Summary != "" {
		s.WriteString("\n")
		s.WriteString(headerStyle.Render("Research"))
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Width(width).Render(v.Summary))
		s.WriteString("\n")
	}
	writeList(&s, "Pain points", v.PainPoints)
	writeList(&s, "Opportunities", v.Opportunities)
	if len(v.DecisionMakers) > 0 {
		s.WriteString("\nDecision makers\n")
		for _, c := range v.DecisionMakers {
			s.WriteString(fmt.Sprintf("  • %s, %s <%s>\n", c.Name, c.Title, c.Email))
		}
	}

	s.WriteString("\n")
	s.WriteString(renderChannelTabs(v.ActiveChannel))
	s.WriteString("\n\n")
	draft := v.ActiveDraft
	if !v.DraftAvailable {
		draft = mutedStyle.Render(draft)
	}
	s.WriteString(lipgloss.NewStyle().Width(width).Render(draft))
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render("Routing"))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Owner: %s  Priority: %s  CRM: %s\n", orDash(v.Owner), orDash(v.Priority), orDash(v.CRMTarget)))
	if v.Notes != "" {
		s.WriteString(mutedStyle.Render(v.Notes))
		s.WriteString("\n")
	}

	if len(v.Logs) > 0 {
		s.WriteString("\n")
		s.WriteString(headerStyle.Render("Agent log"))
		s.WriteString("\n")
		for _, line := range v.Logs {
			s.WriteString(mutedStyle.Render("  " + line))
			s.WriteString("\n")
		}
	}
	return s.String()
}

func renderChannelTabs(active models.Channel) string {
	var rendered []string
	for i, ch := range models.Channels {
		label := fmt.Sprintf("%d %s", i+1, ch.Label())
		if ch == active {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func writeList(s *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	s.WriteString("\n" + title + "\n")
	for _, item := range items {
		s.WriteString("  • " + item + "\n")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
