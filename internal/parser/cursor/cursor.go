// Package cursor implements parsing and IR conversion for Cursor
// commands and rules. Commands are bare markdown with no frontmatter at
// all, so metadata and provenance are unavoidably lost on the way in;
// rules (the skill form) are .mdc files with YAML frontmatter.
package cursor

import (
	"github.com/klauern/promptsync/internal/body"
	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/parser"
)

// Extension is the canonical command file extension.
const Extension = ".md"

// SkillExtension is the canonical rule file extension.
const SkillExtension = ".mdc"

// Table returns Cursor's placeholder table: Claude spellings with shell
// commands and file references flagged unsupported.
func Table() body.Table {
	return body.Restricted(body.ClaudeFamily(), body.TagShellCommand, body.TagFileReference)
}

var skillNativeKeys = map[string]bool{
	"globs":       true,
	"alwaysApply": true,
}

var foreignKeys = map[string]bool{
	"argument-hint":            true, // claude
	"allowed-tools":            true, // claude
	"disable-model-invocation": true, // claude
	"agent":                    true, // opencode
	"subtask":                  true, // opencode
	"mode":                     true, // copilot
	"tools":                    true, // copilot
}

// Command is the on-disk shape of a Cursor command: body only.
type Command struct {
	Content  string
	FilePath string
}

// Agent implements convert.Document.
func (c *Command) Agent() model.Agent { return model.Cursor }

// ContentType implements convert.Document.
func (c *Command) ContentType() model.ContentType { return model.ContentCommand }

// Path implements convert.Document.
func (c *Command) Path() string { return c.FilePath }

// ParseCommand parses a raw command file. Cursor commands have no
// frontmatter; the whole file is body.
func ParseCommand(path string, raw []byte) (*Command, error) {
	return &Command{
		Content:  parser.NormalizeContent(string(raw)),
		FilePath: path,
	}, nil
}

// Stringify renders the command back to its file form.
func (c *Command) Stringify() ([]byte, error) {
	return []byte(c.Content), nil
}

// CommandToIR projects a Cursor command into the semantic IR. With no
// frontmatter there is nothing to classify; provenance is lost here.
func CommandToIR(c *Command) (model.SemanticIR, error) {
	return model.SemanticIR{
		ContentType: model.ContentCommand,
		Body:        body.Tokenize(c.Content, Table()),
		Meta: model.Meta{
			SourcePath:  c.FilePath,
			SourceAgent: model.Cursor,
		},
	}, nil
}

// CommandFromIR materializes a Cursor command from the IR. Semantic and
// extra fields have nowhere to go and are logged, not carried.
func CommandFromIR(ir model.SemanticIR, _ convert.Options) (*Command, error) {
	if ir.Semantic.Description != "" || len(ir.Semantic.From) > 0 || len(ir.Extras) > 0 {
		logging.Debug("cursor commands carry no frontmatter, fields dropped",
			logging.Agent(string(model.Cursor)),
			logging.Count(len(ir.Extras)),
		)
	}

	content, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	return &Command{
		Content:  content,
		FilePath: convert.ForceExtension(ir.Meta.SourcePath, Extension),
	}, nil
}

// Skill is the on-disk shape of a Cursor rule: a single .mdc file with
// frontmatter. Rules have no support files.
type Skill struct {
	Fields   model.Fields
	Content  string
	FilePath string
}

// Agent implements convert.Document.
func (s *Skill) Agent() model.Agent { return model.Cursor }

// ContentType implements convert.Document.
func (s *Skill) ContentType() model.ContentType { return model.ContentSkill }

// Path implements convert.Document.
func (s *Skill) Path() string { return s.FilePath }

// Support implements convert.SkillDocument. Rules are single files and
// never carry a bundle.
func (s *Skill) Support() []model.SupportFile { return nil }

// Name returns the rule name, preferring frontmatter over the file name.
func (s *Skill) Name() string {
	if name, ok := s.Fields["name"].AsString(); ok && name != "" {
		return name
	}
	return convert.BaseName(s.FilePath)
}

// ParseSkill parses a raw rule file.
func ParseSkill(path string, raw []byte) (*Skill, error) {
	result := parser.SplitFrontmatter(raw)

	fields := make(model.Fields)
	if result.HasFrontmatter {
		parsed, err := parser.ParseFrontmatterFields(result.Frontmatter)
		if err != nil {
			return nil, &parser.ParseError{Path: path, Err: err}
		}
		fields = parsed
	}

	return &Skill{
		Fields:   fields,
		Content:  parser.NormalizeContent(result.Content),
		FilePath: path,
	}, nil
}

// Stringify renders the rule back to its file form.
func (s *Skill) Stringify() ([]byte, error) {
	return parser.RenderFrontmatter(s.Fields, s.Content)
}

// SkillToIR projects a Cursor rule into the semantic IR.
func SkillToIR(s *Skill) (model.SemanticIR, error) {
	sem := model.Semantic{Name: s.Name()}
	if d, ok := s.Fields["description"].AsString(); ok {
		sem.Description = d
	}
	if from, ok := s.Fields["_from"].AsStringList(); ok && len(from) > 0 {
		sem.From = from
	}

	return model.SemanticIR{
		ContentType: model.ContentSkill,
		Body:        body.Tokenize(s.Content, Table()),
		Semantic:    sem,
		Extras:      convert.ExtrasFrom(s.Fields, "name", "description", "_from"),
		Meta: model.Meta{
			SourcePath:  s.FilePath,
			SourceAgent: model.Cursor,
			SkillName:   sem.Name,
		},
	}, nil
}

// SkillFromIR materializes a Cursor rule from the IR. Support files have
// no home in a single-file rule and are intentionally not carried.
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
	if len(ir.Semantic.From) > 0 {
		fields["_from"] = model.StringList(ir.Semantic.From)
	}
	convert.ApplyExtras(fields, ir, model.Cursor, skillNativeKeys, foreignKeys, opts)

	if len(ir.Meta.SupportFiles) > 0 {
		logging.Warn("cursor rules are single files, support files dropped",
			logging.Agent(string(model.Cursor)),
			logging.Count(len(ir.Meta.SupportFiles)),
		)
	}

	content, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	path := name + SkillExtension
	if ir.Meta.SourcePath != "" {
		path = convert.ForceExtension(ir.Meta.SourcePath, SkillExtension)
	}

	return &Skill{
		Fields:   fields,
		Content:  content,
		FilePath: path,
	}, nil
}

func logDiagnostics(diags []body.Diagnostic) {
	for _, d := range diags {
		logging.Warn("placeholder not natively supported, serialized best-effort",
			logging.Agent(string(model.Cursor)),
			logging.Placeholder(string(d.Tag)),
		)
	}
}
