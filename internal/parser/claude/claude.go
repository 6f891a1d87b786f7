// Package claude implements parsing and IR conversion for Claude Code
// slash commands and skills: markdown with YAML frontmatter, $ARGUMENTS /
// $N / !`cmd` / @path placeholders, and the inverted
// disable-model-invocation switch.
package claude

import (
	"path/filepath"

	"github.com/klauern/promptsync/internal/body"
	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/parser"
)

// Extension is the canonical command file extension.
const Extension = ".md"

// SkillFile is the primary instructions file of a skill directory.
const SkillFile = "SKILL.md"

// Table returns the Claude placeholder table. Claude supports every
// placeholder variant natively.
func Table() body.Table { return body.ClaudeFamily() }

// commandNativeKeys are frontmatter fields in Claude's command
// vocabulary beyond the semantic set.
var commandNativeKeys = map[string]bool{
	"argument-hint": true,
	"model":         true,
	"allowed-tools": true,
}

// skillNativeKeys are frontmatter fields in Claude's skill vocabulary
// beyond the semantic set.
var skillNativeKeys = map[string]bool{
	"allowed-tools": true,
	"license":       true,
	"metadata":      true,
}

// foreignKeys are fields known to belong exclusively to another agent's
// vocabulary; dropped when Options.RemoveUnsupported is set.
var foreignKeys = map[string]bool{
	"prompt":      true, // gemini
	"agent":       true, // opencode
	"subtask":     true, // opencode
	"mode":        true, // copilot
	"tools":       true, // copilot
	"globs":       true, // cursor
	"alwaysApply": true, // cursor
}

// Command is the on-disk shape of a Claude slash command.
type Command struct {
	Fields   model.Fields
	Content  string
	FilePath string
}

// Agent implements convert.Document.
func (c *Command) Agent() model.Agent { return model.Claude }

// ContentType implements convert.Document.
func (c *Command) ContentType() model.ContentType { return model.ContentCommand }

// Path implements convert.Document.
func (c *Command) Path() string { return c.FilePath }

// ParseCommand parses a raw command file.
func ParseCommand(path string, raw []byte) (*Command, error) {
	result := parser.SplitFrontmatter(raw)

	fields := make(model.Fields)
	if result.HasFrontmatter {
		parsed, err := parser.ParseFrontmatterFields(result.Frontmatter)
		if err != nil {
			return nil, &parser.ParseError{Path: path, Err: err}
		}
		fields = parsed
	}

	return &Command{
		Fields:   fields,
		Content:  parser.NormalizeContent(result.Content),
		FilePath: path,
	}, nil
}

// Stringify renders the command back to its file form.
func (c *Command) Stringify() ([]byte, error) {
	return parser.RenderFrontmatter(c.Fields, c.Content)
}

// CommandToIR projects a Claude command into the semantic IR.
func CommandToIR(c *Command) (model.SemanticIR, error) {
	sem := model.Semantic{}
	if d, ok := c.Fields["description"].AsString(); ok {
		sem.Description = d
	}
	if disabled, ok := c.Fields["disable-model-invocation"].AsBool(); ok {
		// Inverted on read; FromIR inverts again so a round trip is the
		// identity.
		sem.ModelInvocation = model.BoolPtr(!disabled)
	}
	if from, ok := c.Fields["_from"].AsStringList(); ok && len(from) > 0 {
		sem.From = from
	}

	return model.SemanticIR{
		ContentType: model.ContentCommand,
		Body:        body.Tokenize(c.Content, Table()),
		Semantic:    sem,
		Extras:      convert.ExtrasFrom(c.Fields, "description", "disable-model-invocation", "_from"),
		Meta: model.Meta{
			SourcePath:  c.FilePath,
			SourceAgent: model.Claude,
		},
	}, nil
}

// CommandFromIR materializes a Claude command from the IR.
func CommandFromIR(ir model.SemanticIR, opts convert.Options) (*Command, error) {
	fields := make(model.Fields)
	if ir.Semantic.Description != "" {
		fields["description"] = model.String(ir.Semantic.Description)
	}
	if ir.Semantic.ModelInvocation != nil {
		fields["disable-model-invocation"] = model.Bool(!*ir.Semantic.ModelInvocation)
	}
	if len(ir.Semantic.From) > 0 {
		fields["_from"] = model.StringList(ir.Semantic.From)
	}
	convert.ApplyExtras(fields, ir, model.Claude, commandNativeKeys, foreignKeys, opts)

	content, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	return &Command{
		Fields:   fields,
		Content:  content,
		FilePath: convert.ForceExtension(ir.Meta.SourcePath, Extension),
	}, nil
}

// Skill is the on-disk shape of a Claude skill bundle: a directory with
// SKILL.md plus support files.
type Skill struct {
	Fields       model.Fields
	Content      string
	DirPath      string
	SupportFiles []model.SupportFile
}

// Agent implements convert.Document.
func (s *Skill) Agent() model.Agent { return model.Claude }

// ContentType implements convert.Document.
func (s *Skill) ContentType() model.ContentType { return model.ContentSkill }

// Path implements convert.Document.
func (s *Skill) Path() string { return filepath.Join(s.DirPath, SkillFile) }

// Support implements convert.SkillDocument.
func (s *Skill) Support() []model.SupportFile { return s.SupportFiles }

// Name returns the skill name, preferring frontmatter over the directory
// name.
func (s *Skill) Name() string {
	if name, ok := s.Fields["name"].AsString(); ok && name != "" {
		return name
	}
	return filepath.Base(s.DirPath)
}

// ParseSkill parses a skill's primary file; support files are collected
// by the discovery layer and attached as-is.
func ParseSkill(dirPath string, raw []byte, support []model.SupportFile) (*Skill, error) {
	result := parser.SplitFrontmatter(raw)

	fields := make(model.Fields)
	if result.HasFrontmatter {
		parsed, err := parser.ParseFrontmatterFields(result.Frontmatter)
		if err != nil {
			return nil, &parser.ParseError{Path: filepath.Join(dirPath, SkillFile), Err: err}
		}
		fields = parsed
	}

	return &Skill{
		Fields:       fields,
		Content:      parser.NormalizeContent(result.Content),
		DirPath:      dirPath,
		SupportFiles: support,
	}, nil
}

// Stringify renders the skill's primary file.
func (s *Skill) Stringify() ([]byte, error) {
	return parser.RenderFrontmatter(s.Fields, s.Content)
}

// SkillToIR projects a Claude skill into the semantic IR.
func SkillToIR(s *Skill) (model.SemanticIR, error) {
	sem := model.Semantic{Name: s.Name()}
	if d, ok := s.Fields["description"].AsString(); ok {
		sem.Description = d
	}
	if disabled, ok := s.Fields["disable-model-invocation"].AsBool(); ok {
		sem.ModelInvocation = model.BoolPtr(!disabled)
	}
	if from, ok := s.Fields["_from"].AsStringList(); ok && len(from) > 0 {
		sem.From = from
	}

	return model.SemanticIR{
		ContentType: model.ContentSkill,
		Body:        body.Tokenize(s.Content, Table()),
		Semantic:    sem,
		Extras:      convert.ExtrasFrom(s.Fields, "name", "description", "disable-model-invocation", "_from"),
		Meta: model.Meta{
			SourcePath:   s.Path(),
			SourceAgent:  model.Claude,
			SkillName:    sem.Name,
			SupportFiles: s.SupportFiles,
		},
	}, nil
}

// SkillFromIR materializes a Claude skill from the IR. Support files pass
// through untouched.
func SkillFromIR(ir model.SemanticIR, opts convert.Options) (*Skill, error) {
	name := ir.Semantic.Name
	if name == "" {
		name = ir.Meta.SkillName
	}

	fields := make(model.Fields)
	if name != "" {
		fields["name"] = model.String(name)
	}
	if ir.Semantic.Description != "" {
		fields["description"] = model.String(ir.Semantic.Description)
	}
	if ir.Semantic.ModelInvocation != nil {
		fields["disable-model-invocation"] = model.Bool(!*ir.Semantic.ModelInvocation)
	}
	if len(ir.Semantic.From) > 0 {
		fields["_from"] = model.StringList(ir.Semantic.From)
	}
	convert.ApplyExtras(fields, ir, model.Claude, skillNativeKeys, foreignKeys, opts)

	content, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	return &Skill{
		Fields:       fields,
		Content:      content,
		DirPath:      name,
		SupportFiles: ir.Meta.SupportFiles,
	}, nil
}

func logDiagnostics(diags []body.Diagnostic) {
	for _, d := range diags {
		logging.Warn("placeholder not natively supported, serialized best-effort",
			logging.Agent(string(model.Claude)),
			logging.Placeholder(string(d.Tag)),
		)
	}
}
