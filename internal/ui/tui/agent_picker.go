// Package tui provides interactive terminal UI components using BubbleTea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/registry"
)

// AgentPickerAction represents the action to perform after agent selection.
type AgentPickerAction int

const (
	// AgentPickerActionNone means no action was taken (user quit).
	AgentPickerActionNone AgentPickerAction = iota
	// AgentPickerActionSelect means the user selected agents.
	AgentPickerActionSelect
)

// AgentPickerResult contains the result of the agent picker interaction.
type AgentPickerResult struct {
	Action AgentPickerAction
	Source model.Agent
	Target model.Agent
}

// agentPickerPhase represents the current phase of agent selection.
type agentPickerPhase int

const (
	phaseSourceAgent agentPickerPhase = iota
	phaseTargetAgent
)

// agentPickerKeyMap defines the key bindings for the agent picker.
type agentPickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultAgentPickerKeyMap() agentPickerKeyMap {
	return agentPickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// AgentPickerModel is the BubbleTea model for agent selection.
type AgentPickerModel struct {
	agents   []registry.Definition
	cursor   int
	source   model.Agent
	target   model.Agent
	phase    agentPickerPhase
	keys     agentPickerKeyMap
	result   AgentPickerResult
	showHelp bool
	width    int
	height   int
	quitting bool
}

// Styles for the agent picker TUI.
var agentPickerStyles = struct {
	Title       lipgloss.Style
	Help        lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Description lipgloss.Style
	Status      lipgloss.Style
	Highlight   lipgloss.Style
}{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Item:        lipgloss.NewStyle().Padding(0, 2),
	Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 2),
	Description: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 4),
	Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	Highlight:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
}

// NewAgentPickerModel creates a new agent picker model.
func NewAgentPickerModel() AgentPickerModel {
	return AgentPickerModel{
		agents: registry.All(),
		keys:   defaultAgentPickerKeyMap(),
		phase:  phaseSourceAgent,
	}
}

// Init implements tea.Model.
func (m AgentPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AgentPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.agents)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Back):
			if m.phase == phaseTargetAgent {
				m.phase = phaseSourceAgent
				m.cursor = 0
				// Put the cursor back on the chosen source
				for i, def := range m.agents {
					if def.Agent == m.source {
						m.cursor = i
						break
					}
				}
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			selected := m.agents[m.cursor].Agent

			if m.phase == phaseSourceAgent {
				m.source = selected
				m.phase = phaseTargetAgent
				m.cursor = 0
				// Start at a different agent if possible
				for i, def := range m.agents {
					if def.Agent != m.source {
						m.cursor = i
						break
					}
				}
				return m, nil
			}

			// Target agent selected
			if selected == m.source {
				// Converting a format onto itself is a no-op
				return m, nil
			}

			m.target = selected
			m.result = AgentPickerResult{
				Action: AgentPickerActionSelect,
				Source: m.source,
				Target: m.target,
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m AgentPickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Title
	var title string
	if m.phase == phaseSourceAgent {
		title = agentPickerStyles.Title.Render("🔄 Convert Prompts - Select Source Agent")
	} else {
		title = agentPickerStyles.Title.Render("🔄 Convert Prompts - Select Target Agent")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	// Show selected source when picking target
	if m.phase == phaseTargetAgent {
		sourceLabel := agentPickerStyles.Highlight.Render(m.displayName(m.source))
		b.WriteString(fmt.Sprintf("  Source: %s\n\n", sourceLabel))
	}

	// Agent list
	for i, def := range m.agents {
		var line string
		name := def.DisplayName

		// Same-as-source entries are disabled while picking the target
		disabled := m.phase == phaseTargetAgent && def.Agent == m.source

		if i == m.cursor {
			if disabled {
				line = agentPickerStyles.Item.Render(fmt.Sprintf("> %s (same as source)", name))
			} else {
				line = agentPickerStyles.Selected.Render(fmt.Sprintf("> %s", name))
			}
		} else {
			if disabled {
				line = agentPickerStyles.Description.Render(fmt.Sprintf("  %s (same as source)", name))
			} else {
				line = agentPickerStyles.Item.Render(fmt.Sprintf("  %s", name))
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	// Status bar
	var status string
	if m.phase == phaseSourceAgent {
		status = "Select the agent to convert FROM"
	} else {
		status = "Select the agent to convert TO"
	}
	b.WriteString(agentPickerStyles.Status.Render(status))
	b.WriteString("\n")

	// Help
	if m.showHelp {
		help := m.renderFullHelp()
		b.WriteString("\n")
		b.WriteString(help)
	} else {
		help := m.renderShortHelp()
		b.WriteString(help)
	}

	return b.String()
}

func (m AgentPickerModel) displayName(agent model.Agent) string {
	for _, def := range m.agents {
		if def.Agent == agent {
			return def.DisplayName
		}
	}
	return cases.Title(language.English).String(string(agent))
}

func (m AgentPickerModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter select",
	}
	if m.phase == phaseTargetAgent {
		keys = append(keys, "esc back")
	}
	keys = append(keys, "? help", "q quit")
	return agentPickerStyles.Help.Render(strings.Join(keys, " • "))
}

func (m AgentPickerModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down

Actions:
  Enter    Select agent
  Esc      Go back (when selecting target)

General:
  ?        Toggle full help
  q        Quit`
	return agentPickerStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m AgentPickerModel) Result() AgentPickerResult {
	return m.result
}

// RunAgentPicker runs the interactive agent picker and returns the result.
func RunAgentPicker() (AgentPickerResult, error) {
	picker := NewAgentPickerModel()
	finalModel, err := tea.NewProgram(picker, tea.WithAltScreen()).Run()
	if err != nil {
		return AgentPickerResult{}, err
	}

	if m, ok := finalModel.(AgentPickerModel); ok {
		return m.Result(), nil
	}

	return AgentPickerResult{}, nil
}
