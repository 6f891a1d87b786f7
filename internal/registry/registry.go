// Package registry maps each agent to its format capabilities: display
// name, directory layout, file extensions, and the parse/stringify/IR
// conversion functions of its converter package. Everything downstream
// (discovery, the CLI, validation) goes through a Definition instead of
// switching on agent types directly.
package registry

import (
	"fmt"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/parser/chimera"
	"github.com/klauern/promptsync/internal/parser/claude"
	"github.com/klauern/promptsync/internal/parser/codex"
	"github.com/klauern/promptsync/internal/parser/copilot"
	"github.com/klauern/promptsync/internal/parser/cursor"
	"github.com/klauern/promptsync/internal/parser/gemini"
	"github.com/klauern/promptsync/internal/parser/opencode"
)

// SkillLayout describes how an agent stores a skill on disk.
type SkillLayout int

const (
	// SkillDirectory is a directory with a SKILL.md primary file plus
	// arbitrary support files.
	SkillDirectory SkillLayout = iota
	// SkillSingleFile is one frontmatter file, no support files.
	SkillSingleFile
)

// Definition describes one agent's on-disk format and wires in its
// converter functions.
type Definition struct {
	Agent       model.Agent
	DisplayName string

	// CommandsSubdir and SkillsSubdir are relative to the agent's base
	// directory (see util.BaseDir).
	CommandsSubdir string
	SkillsSubdir   string

	// CommandExtension is the command file extension, possibly compound.
	CommandExtension string
	// SkillFile is the primary file name for directory skill layouts.
	SkillFile string
	// SkillExtension is set only for single-file skill layouts.
	SkillExtension string
	SkillLayout    SkillLayout

	ParseCommand  func(path string, raw []byte) (convert.Document, error)
	ParseSkill    func(dirOrPath string, raw []byte, support []model.SupportFile) (convert.Document, error)
	Stringify     func(doc convert.Document) ([]byte, error)
	ToIR          func(doc convert.Document) (model.SemanticIR, error)
	CommandFromIR func(ir model.SemanticIR, opts convert.Options) (convert.Document, error)
	SkillFromIR   func(ir model.SemanticIR, opts convert.Options) (convert.Document, error)
}

var definitions = map[model.Agent]Definition{
	model.Claude: {
		Agent:            model.Claude,
		DisplayName:      "Claude Code",
		CommandsSubdir:   "commands",
		SkillsSubdir:     "skills",
		CommandExtension: claude.Extension,
		SkillFile:        claude.SkillFile,
		SkillLayout:      SkillDirectory,
		ParseCommand: func(path string, raw []byte) (convert.Document, error) {
			return claude.ParseCommand(path, raw)
		},
		ParseSkill: func(dir string, raw []byte, support []model.SupportFile) (convert.Document, error) {
			return claude.ParseSkill(dir, raw, support)
		},
		Stringify: func(doc convert.Document) ([]byte, error) {
			switch d := doc.(type) {
			case *claude.Command:
				return d.Stringify()
			case *claude.Skill:
				return d.Stringify()
			}
			return nil, wrongDocType(model.Claude, doc)
		},
		ToIR: func(doc convert.Document) (model.SemanticIR, error) {
			switch d := doc.(type) {
			case *claude.Command:
				return claude.CommandToIR(d)
			case *claude.Skill:
				return claude.SkillToIR(d)
			}
			return model.SemanticIR{}, wrongDocType(model.Claude, doc)
		},
		CommandFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return claude.CommandFromIR(ir, opts)
		},
		SkillFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return claude.SkillFromIR(ir, opts)
		},
	},
	model.Gemini: {
		Agent:            model.Gemini,
		DisplayName:      "Gemini CLI",
		CommandsSubdir:   "commands",
		SkillsSubdir:     "skills",
		CommandExtension: gemini.Extension,
		SkillFile:        gemini.SkillFile,
		SkillLayout:      SkillDirectory,
		ParseCommand: func(path string, raw []byte) (convert.Document, error) {
			return gemini.ParseCommand(path, raw)
		},
		ParseSkill: func(dir string, raw []byte, support []model.SupportFile) (convert.Document, error) {
			return gemini.ParseSkill(dir, raw, support)
		},
		Stringify: func(doc convert.Document) ([]byte, error) {
			switch d := doc.(type) {
			case *gemini.Command:
				return d.Stringify()
			case *gemini.Skill:
				return d.Stringify()
			}
			return nil, wrongDocType(model.Gemini, doc)
		},
		ToIR: func(doc convert.Document) (model.SemanticIR, error) {
			switch d := doc.(type) {
			case *gemini.Command:
				return gemini.CommandToIR(d)
			case *gemini.Skill:
				return gemini.SkillToIR(d)
			}
			return model.SemanticIR{}, wrongDocType(model.Gemini, doc)
		},
		CommandFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return gemini.CommandFromIR(ir, opts)
		},
		SkillFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return gemini.SkillFromIR(ir, opts)
		},
	},
	model.Codex: {
		Agent:            model.Codex,
		DisplayName:      "Codex CLI",
		CommandsSubdir:   "prompts",
		SkillsSubdir:     "skills",
		CommandExtension: codex.Extension,
		SkillFile:        codex.SkillFile,
		SkillLayout:      SkillDirectory,
		ParseCommand: func(path string, raw []byte) (convert.Document, error) {
			return codex.ParseCommand(path, raw)
		},
		ParseSkill: func(dir string, raw []byte, support []model.SupportFile) (convert.Document, error) {
			configRaw, rest := splitConfig(support, codex.ConfigFile)
			return codex.ParseSkill(dir, raw, configRaw, rest)
		},
		Stringify: func(doc convert.Document) ([]byte, error) {
			switch d := doc.(type) {
			case *codex.Command:
				return d.Stringify()
			case *codex.Skill:
				return d.Stringify()
			}
			return nil, wrongDocType(model.Codex, doc)
		},
		ToIR: func(doc convert.Document) (model.SemanticIR, error) {
			switch d := doc.(type) {
			case *codex.Command:
				return codex.CommandToIR(d)
			case *codex.Skill:
				return codex.SkillToIR(d)
			}
			return model.SemanticIR{}, wrongDocType(model.Codex, doc)
		},
		CommandFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return codex.CommandFromIR(ir, opts)
		},
		SkillFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return codex.SkillFromIR(ir, opts)
		},
	},
	model.OpenCode: {
		Agent:            model.OpenCode,
		DisplayName:      "OpenCode",
		CommandsSubdir:   "command",
		SkillsSubdir:     "skill",
		CommandExtension: opencode.Extension,
		SkillFile:        opencode.SkillFile,
		SkillLayout:      SkillDirectory,
		ParseCommand: func(path string, raw []byte) (convert.Document, error) {
			return opencode.ParseCommand(path, raw)
		},
		ParseSkill: func(dir string, raw []byte, support []model.SupportFile) (convert.Document, error) {
			return opencode.ParseSkill(dir, raw, support)
		},
		Stringify: func(doc convert.Document) ([]byte, error) {
			switch d := doc.(type) {
			case *opencode.Command:
				return d.Stringify()
			case *opencode.Skill:
				return d.Stringify()
			}
			return nil, wrongDocType(model.OpenCode, doc)
		},
		ToIR: func(doc convert.Document) (model.SemanticIR, error) {
			switch d := doc.(type) {
			case *opencode.Command:
				return opencode.CommandToIR(d)
			case *opencode.Skill:
				return opencode.SkillToIR(d)
			}
			return model.SemanticIR{}, wrongDocType(model.OpenCode, doc)
		},
		CommandFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return opencode.CommandFromIR(ir, opts)
		},
		SkillFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return opencode.SkillFromIR(ir, opts)
		},
	},
	model.Cursor: {
		Agent:            model.Cursor,
		DisplayName:      "Cursor",
		CommandsSubdir:   "commands",
		SkillsSubdir:     "rules",
		CommandExtension: cursor.Extension,
		SkillExtension:   cursor.SkillExtension,
		SkillLayout:      SkillSingleFile,
		ParseCommand: func(path string, raw []byte) (convert.Document, error) {
			return cursor.ParseCommand(path, raw)
		},
		ParseSkill: func(path string, raw []byte, _ []model.SupportFile) (convert.Document, error) {
			return cursor.ParseSkill(path, raw)
		},
		Stringify: func(doc convert.Document) ([]byte, error) {
			switch d := doc.(type) {
			case *cursor.Command:
				return d.Stringify()
			case *cursor.Skill:
				return d.Stringify()
			}
			return nil, wrongDocType(model.Cursor, doc)
		},
		ToIR: func(doc convert.Document) (model.SemanticIR, error) {
			switch d := doc.(type) {
			case *cursor.Command:
				return cursor.CommandToIR(d)
			case *cursor.Skill:
				return cursor.SkillToIR(d)
			}
			return model.SemanticIR{}, wrongDocType(model.Cursor, doc)
		},
		CommandFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return cursor.CommandFromIR(ir, opts)
		},
		SkillFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return cursor.SkillFromIR(ir, opts)
		},
	},
	model.Copilot: {
		Agent:            model.Copilot,
		DisplayName:      "GitHub Copilot",
		CommandsSubdir:   "prompts",
		SkillsSubdir:     "skills",
		CommandExtension: copilot.Extension,
		SkillFile:        copilot.SkillFile,
		SkillLayout:      SkillDirectory,
		ParseCommand: func(path string, raw []byte) (convert.Document, error) {
			return copilot.ParseCommand(path, raw)
		},
		ParseSkill: func(dir string, raw []byte, support []model.SupportFile) (convert.Document, error) {
			return copilot.ParseSkill(dir, raw, support)
		},
		Stringify: func(doc convert.Document) ([]byte, error) {
			switch d := doc.(type) {
			case *copilot.Command:
				return d.Stringify()
			case *copilot.Skill:
				return d.Stringify()
			}
			return nil, wrongDocType(model.Copilot, doc)
		},
		ToIR: func(doc convert.Document) (model.SemanticIR, error) {
			switch d := doc.(type) {
			case *copilot.Command:
				return copilot.CommandToIR(d)
			case *copilot.Skill:
				return copilot.SkillToIR(d)
			}
			return model.SemanticIR{}, wrongDocType(model.Copilot, doc)
		},
		CommandFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return copilot.CommandFromIR(ir, opts)
		},
		SkillFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return copilot.SkillFromIR(ir, opts)
		},
	},
	model.Chimera: {
		Agent:            model.Chimera,
		DisplayName:      "Chimera",
		CommandsSubdir:   "commands",
		SkillsSubdir:     "skills",
		CommandExtension: chimera.Extension,
		SkillFile:        chimera.SkillFile,
		SkillLayout:      SkillDirectory,
		ParseCommand: func(path string, raw []byte) (convert.Document, error) {
			return chimera.ParseCommand(path, raw)
		},
		ParseSkill: func(dir string, raw []byte, support []model.SupportFile) (convert.Document, error) {
			return chimera.ParseSkill(dir, raw, support)
		},
		Stringify: func(doc convert.Document) ([]byte, error) {
			switch d := doc.(type) {
			case *chimera.Command:
				return d.Stringify()
			case *chimera.Skill:
				return d.Stringify()
			}
			return nil, wrongDocType(model.Chimera, doc)
		},
		ToIR: func(doc convert.Document) (model.SemanticIR, error) {
			switch d := doc.(type) {
			case *chimera.Command:
				return chimera.CommandToIR(d)
			case *chimera.Skill:
				return chimera.SkillToIR(d)
			}
			return model.SemanticIR{}, wrongDocType(model.Chimera, doc)
		},
		CommandFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return chimera.CommandFromIR(ir, opts)
		},
		SkillFromIR: func(ir model.SemanticIR, opts convert.Options) (convert.Document, error) {
			return chimera.SkillFromIR(ir, opts)
		},
	},
}

// Lookup returns the definition for an agent.
func Lookup(agent model.Agent) (Definition, error) {
	def, ok := definitions[agent]
	if !ok {
		return Definition{}, fmt.Errorf("no registered converter for agent %q", agent)
	}
	return def, nil
}

// All returns every definition in model.AllAgents order.
func All() []Definition {
	defs := make([]Definition, 0, len(definitions))
	for _, agent := range model.AllAgents() {
		if def, ok := definitions[agent]; ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// splitConfig pulls the named config file out of a support list,
// returning its content and the remaining files.
func splitConfig(support []model.SupportFile, name string) ([]byte, []model.SupportFile) {
	var configRaw []byte
	rest := make([]model.SupportFile, 0, len(support))
	for _, f := range support {
		if f.RelPath == name {
			configRaw = []byte(f.Content)
			continue
		}
		rest = append(rest, f)
	}
	if len(rest) == 0 {
		rest = nil
	}
	return configRaw, rest
}

func wrongDocType(agent model.Agent, doc convert.Document) error {
	return fmt.Errorf("document type %T does not belong to agent %q", doc, agent)
}
