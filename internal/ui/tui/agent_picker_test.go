package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/registry"
)

func TestNewAgentPickerModel(t *testing.T) {
	m := NewAgentPickerModel()

	if len(m.agents) != len(model.AllAgents()) {
		t.Errorf("expected %d agents, got %d", len(model.AllAgents()), len(m.agents))
	}

	if m.phase != phaseSourceAgent {
		t.Errorf("expected phase to be phaseSourceAgent, got %d", m.phase)
	}

	if m.cursor != 0 {
		t.Errorf("expected cursor to be 0, got %d", m.cursor)
	}
}

func TestAgentPickerModel_Init(t *testing.T) {
	m := NewAgentPickerModel()
	cmd := m.Init()

	if cmd != nil {
		t.Error("expected Init to return nil")
	}
}

func TestAgentPickerModel_Update_Navigation(t *testing.T) {
	m := NewAgentPickerModel()

	// Test down navigation
	downMsg := tea.KeyMsg{Type: tea.KeyDown}
	newModel, _ := m.Update(downMsg)
	m = newModel.(AgentPickerModel)

	if m.cursor != 1 {
		t.Errorf("expected cursor to be 1 after down, got %d", m.cursor)
	}

	// Test up navigation
	upMsg := tea.KeyMsg{Type: tea.KeyUp}
	newModel, _ = m.Update(upMsg)
	m = newModel.(AgentPickerModel)

	if m.cursor != 0 {
		t.Errorf("expected cursor to be 0 after up, got %d", m.cursor)
	}

	// Test cursor doesn't go negative
	newModel, _ = m.Update(upMsg)
	m = newModel.(AgentPickerModel)

	if m.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.cursor)
	}
}

func TestAgentPickerModel_Update_SourceSelection(t *testing.T) {
	m := NewAgentPickerModel()

	// Select first agent as source
	enterMsg := tea.KeyMsg{Type: tea.KeyEnter}
	newModel, _ := m.Update(enterMsg)
	m = newModel.(AgentPickerModel)

	if m.phase != phaseTargetAgent {
		t.Errorf("expected phase to be phaseTargetAgent after selection, got %d", m.phase)
	}

	if m.source != model.AllAgents()[0] {
		t.Errorf("expected source to be %s, got %s", model.AllAgents()[0], m.source)
	}
}

func TestAgentPickerModel_Update_TargetSelection(t *testing.T) {
	m := NewAgentPickerModel()

	// Select source
	enterMsg := tea.KeyMsg{Type: tea.KeyEnter}
	newModel, _ := m.Update(enterMsg)
	m = newModel.(AgentPickerModel)

	// Cursor already starts on a different agent; select it as target
	newModel, cmd := m.Update(enterMsg)
	m = newModel.(AgentPickerModel)

	// Should quit after selecting target
	if cmd == nil {
		t.Error("expected quit command after target selection")
	}

	if m.result.Action != AgentPickerActionSelect {
		t.Errorf("expected action to be AgentPickerActionSelect, got %d", m.result.Action)
	}

	if m.result.Source != model.AllAgents()[0] {
		t.Errorf("expected source to be %s, got %s", model.AllAgents()[0], m.result.Source)
	}

	if m.result.Target == m.result.Source {
		t.Error("expected target to be different from source")
	}
}

func TestAgentPickerModel_Update_BackNavigation(t *testing.T) {
	m := NewAgentPickerModel()

	// Select source
	enterMsg := tea.KeyMsg{Type: tea.KeyEnter}
	newModel, _ := m.Update(enterMsg)
	m = newModel.(AgentPickerModel)

	// Press escape to go back
	escMsg := tea.KeyMsg{Type: tea.KeyEsc}
	newModel, _ = m.Update(escMsg)
	m = newModel.(AgentPickerModel)

	if m.phase != phaseSourceAgent {
		t.Errorf("expected phase to be phaseSourceAgent after escape, got %d", m.phase)
	}
}

func TestAgentPickerModel_Update_Quit(t *testing.T) {
	m := NewAgentPickerModel()

	// Press q to quit
	quitMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	newModel, cmd := m.Update(quitMsg)
	m = newModel.(AgentPickerModel)

	if cmd == nil {
		t.Error("expected quit command")
	}

	if m.result.Action != AgentPickerActionNone {
		t.Errorf("expected action to be AgentPickerActionNone, got %d", m.result.Action)
	}
}

func TestAgentPickerModel_View(t *testing.T) {
	m := NewAgentPickerModel()

	view := m.View()

	if len(view) == 0 {
		t.Error("expected non-empty view")
	}

	// Should contain agent display names
	for _, def := range registry.All() {
		if !strings.Contains(view, def.DisplayName) {
			t.Errorf("expected view to contain agent %s", def.DisplayName)
		}
	}
}

func TestAgentPickerModel_View_TargetPhase(t *testing.T) {
	m := NewAgentPickerModel()

	// Move to target phase
	enterMsg := tea.KeyMsg{Type: tea.KeyEnter}
	newModel, _ := m.Update(enterMsg)
	m = newModel.(AgentPickerModel)

	view := m.View()

	// Should show source selection
	if !strings.Contains(view, "Source:") {
		t.Error("expected view to show Source label in target phase")
	}
}

func TestAgentPickerModel_CannotSelectSameAgent(t *testing.T) {
	m := NewAgentPickerModel()

	// Select first agent as source
	enterMsg := tea.KeyMsg{Type: tea.KeyEnter}
	newModel, _ := m.Update(enterMsg)
	m = newModel.(AgentPickerModel)

	// Move the cursor back onto the source agent
	for i, def := range m.agents {
		if def.Agent == m.source {
			m.cursor = i
			break
		}
	}

	prevPhase := m.phase
	newModel, cmd := m.Update(enterMsg)
	m = newModel.(AgentPickerModel)

	if m.phase != prevPhase {
		t.Error("should not have changed phase when selecting same agent")
	}
	if cmd != nil && m.quitting {
		t.Error("should not quit when selecting same agent as target")
	}
}
