// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Three-lane interview panel: assistant feed, transcript, pain-point cards
package tui

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/interview"
	"github.com/orahq/orascan/models"
)

// Lane identifies one of the three panel columns.
type Lane int

const (
	LaneAssistant Lane = iota
	LaneTranscript
	LanePainPoints
)

// busEventMsg wraps a bus event for the update loop.
type busEventMsg struct {
	event bus.Event
}

// recorderToggledMsg reports a start/stop attempt.
type recorderToggledMsg struct {
	err error
}

// Model is the interview panel bubbletea model.
type Model struct {
	db        *sql.DB
	events    *bus.Bus
	store     *interview.SummaryStore
	recorder  *interview.Recorder
	lifecycle *models.Lifecycle
	sub       *bus.Subscription

	assistantFeed []string
	collapsed     [3]bool
	focusedLane   Lane

	selectedCard int
	editing      bool
	editInputs   []textinput.Model
	editFocus    int

	width  int
	height int
	err    error
}

// NewModel wires the panel to a lifecycle's store and recorder. The caller
// owns the bus and database lifetimes.
func NewModel(database *sql.DB, events *bus.Bus, store *interview.SummaryStore, recorder *interview.Recorder, lifecycle *models.Lifecycle) Model {
	sub := events.Subscribe(
		bus.KindLifecycleDataUpdated,
		bus.KindPainPointsUpdated,
		bus.KindDocumentChange,
		bus.KindLifecycleChange,
	)

	// The assistant follows the panel's focus
	events.Publish(bus.ContextChange{
		Context:       bus.ContextInterview,
		LifecycleID:   lifecycle.ID,
		LifecycleName: lifecycle.Name,
	})

	return Model{
		db:        database,
		events:    events,
		store:     store,
		recorder:  recorder,
		lifecycle: lifecycle,
		sub:       sub,
		width:     120,
		height:    32,
	}
}

func (m Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// listenForEvents blocks on the bus subscription and feeds events into the
// update loop one at a time.
func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.sub.Events()
		if !ok {
			return nil
		}
		return busEventMsg{event: event}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case busEventMsg:
		m = m.applyEvent(msg.event)
		return m, m.listenForEvents()

	case recorderToggledMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

// applyEvent refreshes panel state from storage. Event payloads are
// advisory, so every kind triggers a re-fetch of what it invalidates.
func (m Model) applyEvent(event bus.Event) Model {
	switch e := event.(type) {
	case bus.LifecycleDataUpdated:
		if e.LifecycleID == m.lifecycle.ID {
			if err := m.store.Load(); err != nil {
				m.err = err
			}
		}

	case bus.PainPointsUpdated:
		if e.LifecycleID == m.lifecycle.ID {
			m.assistantFeed = append(m.assistantFeed,
				fmt.Sprintf("Pain points updated: %d on record", len(e.PainPoints)))
		}

	case bus.DocumentChange:
		m.assistantFeed = append(m.assistantFeed,
			fmt.Sprintf("Document %s: %s", e.Action, e.Document.DocumentType))

	case bus.LifecycleChange:
		m.assistantFeed = append(m.assistantFeed,
			fmt.Sprintf("Lifecycles %s (%d)", e.Action, e.Count))
	}
	return m
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.sub.Close()
		m.events.Publish(bus.ContextChange{Context: bus.ContextDefault})
		return m, tea.Quit

	case "tab":
		m.focusedLane = (m.focusedLane + 1) % 3
		return m, nil

	case "1", "2", "3":
		lane := Lane(int(msg.String()[0] - '1'))
		m.collapsed[lane] = !m.collapsed[lane]
		return m, nil

	case "up", "k":
		if m.focusedLane == LanePainPoints && m.selectedCard > 0 {
			m.selectedCard--
		}
		return m, nil

	case "down", "j":
		if m.focusedLane == LanePainPoints && m.selectedCard < len(m.store.Summary().PainPoints)-1 {
			m.selectedCard++
		}
		return m, nil

	case "enter", "e":
		if m.focusedLane == LanePainPoints {
			return m.openEditForm()
		}
		return m, nil

	case "r":
		return m, m.toggleRecording()

	case "x":
		if err := m.recorder.ResetTranscript(); err != nil {
			m.err = err
		}
		return m, nil
	}
	return m, nil
}

func (m Model) toggleRecording() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if m.recorder.State() == interview.StateRecording {
			return recorderToggledMsg{err: m.recorder.Stop(ctx)}
		}
		return recorderToggledMsg{err: m.recorder.Start(ctx)}
	}
}

func (m Model) View() string {
	header := titleStyle.Render(fmt.Sprintf("Interview: %s", m.lifecycle.Name))
	status := m.renderStatusLine()

	if m.editing {
		return lipgloss.JoinVertical(lipgloss.Left, header, status, m.renderEditForm())
	}

	lanes := []string{
		m.renderLane(LaneAssistant, "Assistant", m.renderAssistantFeed()),
		m.renderLane(LaneTranscript, "Transcript", m.renderTranscript()),
		m.renderLane(LanePainPoints, "Pain Points", m.renderPainPoints()),
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, lanes...)

	help := helpStyle.Render("r record/stop  x reset transcript  e edit pain point  1/2/3 collapse lanes  tab focus  q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, status, body, help)
}

func (m Model) renderStatusLine() string {
	state := m.recorder.State()
	line := "● idle"
	switch state {
	case interview.StateRecording:
		line = recordingStyle.Render("● recording")
	case interview.StateStopping:
		line = stoppingStyle.Render("● stopping")
	}
	if m.err != nil {
		line += "  " + errorStyle.Render(m.err.Error())
	}
	return line
}
