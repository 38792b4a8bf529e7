// ABOUTME: Pain point edit form for the interview panel
// ABOUTME: Textinput fields for score and cost to serve on the selected card
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) openEditForm() (tea.Model, tea.Cmd) {
	summary := m.store.Summary()
	if len(summary.PainPoints) == 0 {
		return m, nil
	}
	if m.selectedCard >= len(summary.PainPoints) {
		m.selectedCard = len(summary.PainPoints) - 1
	}
	point := summary.PainPoints[m.selectedCard]

	inputs := make([]textinput.Model, 2)

	inputs[0] = textinput.New()
	inputs[0].Placeholder = "Score (0-3)"
	inputs[0].CharLimit = 1
	if point.Score != nil {
		inputs[0].SetValue(strconv.Itoa(*point.Score))
	}

	inputs[1] = textinput.New()
	inputs[1].Placeholder = "Cost to serve"
	inputs[1].CharLimit = 12
	if point.CostToServe != nil {
		inputs[1].SetValue(strconv.FormatInt(*point.CostToServe, 10))
	}

	m.editing = true
	m.editInputs = inputs
	m.editFocus = 0
	m.updateEditFocus()
	return m, textinput.Blink
}

func (m *Model) updateEditFocus() {
	for i := range m.editInputs {
		if i == m.editFocus {
			m.editInputs[i].Focus()
		} else {
			m.editInputs[i].Blur()
		}
	}
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "tab":
		m.editFocus = (m.editFocus + 1) % len(m.editInputs)
		m.updateEditFocus()
		return m, nil
	case "enter":
		if err := m.saveEditForm(); err != nil {
			m.err = err
		} else {
			m.editing = false
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	return m, cmd
}

func (m Model) saveEditForm() error {
	summary := m.store.Summary()
	if m.selectedCard >= len(summary.PainPoints) {
		return fmt.Errorf("pain point no longer exists")
	}
	point := summary.PainPoints[m.selectedCard]

	if value := strings.TrimSpace(m.editInputs[0].Value()); value != "" {
		score, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid score: %w", err)
		}
		if err := m.store.SetScore(point.ID, score); err != nil {
			return err
		}
	}

	if value := strings.TrimSpace(m.editInputs[1].Value()); value != "" {
		cost, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid cost to serve: %w", err)
		}
		if err := m.store.SetCostToServe(point.ID, cost); err != nil {
			return err
		}
	}

	return nil
}

func (m Model) renderEditForm() string {
	summary := m.store.Summary()
	name := ""
	if m.selectedCard < len(summary.PainPoints) {
		name = summary.PainPoints[m.selectedCard].Name
	}

	var s strings.Builder
	s.WriteString(laneTitleStyle.Render("EDIT " + name))
	s.WriteString("\n\n")

	for i, input := range m.editInputs {
		if i == m.editFocus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Tab: Next field  Enter: Save  Esc: Cancel"))
	return s.String()
}
