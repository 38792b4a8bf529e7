// ABOUTME: Lane rendering for the interview panel
// ABOUTME: Collapsible assistant, transcript, and pain-point card columns
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/orahq/orascan/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	laneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	laneFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("170")).
				Padding(0, 1)

	laneBlurredStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("238")).
				Padding(0, 1)

	laneCollapsedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			MarginBottom(1)

	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("170")).
				Padding(0, 1).
				MarginBottom(1)

	cardGroupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	recordingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	stoppingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

func (m Model) laneWidth() int {
	open := 0
	for _, collapsed := range m.collapsed {
		if !collapsed {
			open++
		}
	}
	if open == 0 {
		return 0
	}
	return (m.width - 6) / open
}

func (m Model) renderLane(lane Lane, title, content string) string {
	if m.collapsed[lane] {
		return laneCollapsedStyle.Render(fmt.Sprintf("[%d] %s ▸", int(lane)+1, title))
	}

	style := laneBlurredStyle
	if m.focusedLane == lane {
		style = laneFocusedStyle
	}

	body := laneTitleStyle.Render(title) + "\n\n" + content
	return style.Width(m.laneWidth()).Height(m.height - 8).Render(body)
}

func (m Model) renderAssistantFeed() string {
	if len(m.assistantFeed) == 0 {
		return "Waiting for activity."
	}

	// Most recent entries at the bottom, trimmed to the lane height
	entries := m.assistantFeed
	max := m.height - 12
	if max > 0 && len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	return strings.Join(entries, "\n")
}

func (m Model) renderTranscript() string {
	text := m.recorder.Transcript()
	if text == "" {
		return "No transcript yet. Press r to start recording."
	}

	lines := strings.Split(text, "\n")
	max := m.height - 12
	if max > 0 && len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPainPoints() string {
	summary := m.store.Summary()
	if len(summary.PainPoints) == 0 {
		return "No pain points yet."
	}

	var s strings.Builder
	for i := range summary.PainPoints {
		selected := m.focusedLane == LanePainPoints && i == m.selectedCard
		s.WriteString(renderCard(&summary.PainPoints[i], selected))
		s.WriteString("\n")
	}
	return s.String()
}

func renderCard(p *models.PainPoint, selected bool) string {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("%s  (%d pts)\n", p.Name, p.Points()))
	body.WriteString(cardGroupStyle.Render(p.AssignedProcessGroup))
	if p.CostToServe != nil {
		body.WriteString(fmt.Sprintf("\ncost to serve: %d", *p.CostToServe))
	}
	if selected {
		return cardSelectedStyle.Render(body.String())
	}
	return cardStyle.Render(body.String())
}
