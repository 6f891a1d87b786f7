// Package model provides data types for promptsync.
package model

import (
	"fmt"
	"strings"
)

// Agent identifies a supported AI coding CLI format.
type Agent string

const (
	Claude   Agent = "claude"
	Gemini   Agent = "gemini"
	Codex    Agent = "codex"
	OpenCode Agent = "opencode"
	Cursor   Agent = "cursor"
	Copilot  Agent = "copilot"
	Chimera  Agent = "chimera"
)

// IsValid returns true if the agent is recognized.
func (a Agent) IsValid() bool {
	switch a {
	case Claude, Gemini, Codex, OpenCode, Cursor, Copilot, Chimera:
		return true
	default:
		return false
	}
}

// AllAgents returns all supported agents in stable order.
func AllAgents() []Agent {
	return []Agent{Claude, Gemini, Codex, OpenCode, Cursor, Copilot, Chimera}
}

// ParseAgent parses an agent name, case-insensitively.
func ParseAgent(s string) (Agent, error) {
	a := Agent(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("unknown agent %q (expected one of: claude, gemini, codex, opencode, cursor, copilot, chimera)", s)
	}
	return a, nil
}

// ContentType distinguishes single-file commands from directory-based
// skills.
type ContentType string

const (
	ContentCommand ContentType = "command"
	ContentSkill   ContentType = "skill"
)

// IsValid returns true if the content type is recognized.
func (c ContentType) IsValid() bool {
	return c == ContentCommand || c == ContentSkill
}

// ParseContentType parses a content type name.
func ParseContentType(s string) (ContentType, error) {
	c := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown content type %q (expected command or skill)", s)
	}
	return c, nil
}
