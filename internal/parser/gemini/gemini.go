// Package gemini implements parsing and IR conversion for Gemini CLI
// custom commands and skills. Commands are TOML documents whose body
// lives in the prompt field; skills are markdown with YAML frontmatter.
// Gemini's placeholder spelling is {{args}}, !{cmd} and @{path}, with no
// positional-argument syntax.
package gemini

import (
	"bytes"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/klauern/promptsync/internal/body"
	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/parser"
)

// Extension is the canonical command file extension.
const Extension = ".toml"

// SkillExtension is the canonical skill file extension.
const SkillExtension = ".md"

// SkillFile is the primary instructions file of a skill directory.
const SkillFile = "SKILL.md"

// Table returns Gemini's placeholder table; individual arguments are
// unsupported and degrade to the raw $N passthrough.
func Table() body.Table { return body.GeminiFamily() }

var commandNativeKeys = map[string]bool{
	"model": true,
}

var skillNativeKeys = map[string]bool{
	"model": true,
}

var foreignKeys = map[string]bool{
	"argument-hint":            true, // claude
	"allowed-tools":            true, // claude
	"disable-model-invocation": true, // claude
	"agent":                    true, // opencode
	"subtask":                  true, // opencode
	"mode":                     true, // copilot
	"tools":                    true, // copilot
	"globs":                    true, // cursor
	"alwaysApply":              true, // cursor
}

// Command is the on-disk shape of a Gemini custom command: a flattened
// TOML mapping with the body in prompt.
type Command struct {
	Fields   model.Fields
	Prompt   string
	FilePath string
}

// Agent implements convert.Document.
func (c *Command) Agent() model.Agent { return model.Gemini }

// ContentType implements convert.Document.
func (c *Command) ContentType() model.ContentType { return model.ContentCommand }

// Path implements convert.Document.
func (c *Command) Path() string { return c.FilePath }

// ParseCommand parses a raw TOML command document.
func ParseCommand(path string, raw []byte) (*Command, error) {
	var decoded map[string]any
	if _, err := toml.Decode(string(raw), &decoded); err != nil {
		return nil, &parser.ParseError{Path: path, Err: err}
	}

	prompt, _ := decoded["prompt"].(string)
	delete(decoded, "prompt")

	fields, err := model.FieldsFromAny(decoded)
	if err != nil {
		return nil, &parser.ParseError{Path: path, Err: err}
	}

	return &Command{
		Fields:   fields,
		Prompt:   parser.NormalizeContent(prompt),
		FilePath: path,
	}, nil
}

// Stringify renders the command as a TOML document. The encoder sorts
// keys, so rendering is deterministic.
func (c *Command) Stringify() ([]byte, error) {
	doc := c.Fields.Interface()
	doc["prompt"] = c.Prompt

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CommandToIR projects a Gemini command into the semantic IR.
func CommandToIR(c *Command) (model.SemanticIR, error) {
	sem := model.Semantic{}
	if d, ok := c.Fields["description"].AsString(); ok {
		sem.Description = d
	}
	if from, ok := c.Fields["_from"].AsStringList(); ok && len(from) > 0 {
		sem.From = from
	}

	return model.SemanticIR{
		ContentType: model.ContentCommand,
		Body:        body.Tokenize(c.Prompt, Table()),
		Semantic:    sem,
		Extras:      convert.ExtrasFrom(c.Fields, "description", "_from"),
		Meta: model.Meta{
			SourcePath:  c.FilePath,
			SourceAgent: model.Gemini,
		},
	}, nil
}

// CommandFromIR materializes a Gemini command from the IR. Gemini has no
// model-invocation switch; a stated preference cannot be represented and
// is logged, not carried.
func CommandFromIR(ir model.SemanticIR, opts convert.Options) (*Command, error) {
	fields := make(model.Fields)
	if ir.Semantic.Description != "" {
		fields["description"] = model.String(ir.Semantic.Description)
	}
	if len(ir.Semantic.From) > 0 {
		fields["_from"] = model.StringList(ir.Semantic.From)
	}
	if ir.Semantic.ModelInvocation != nil {
		logging.Debug("model-invocation preference has no gemini field",
			logging.Agent(string(model.Gemini)),
		)
	}
	convert.ApplyExtras(fields, ir, model.Gemini, commandNativeKeys, foreignKeys, opts)

	prompt, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	return &Command{
		Fields:   fields,
		Prompt:   prompt,
		FilePath: convert.ForceExtension(ir.Meta.SourcePath, Extension),
	}, nil
}

// Skill is the on-disk shape of a Gemini skill bundle.
type Skill struct {
	Fields       model.Fields
	Content      string
	DirPath      string
	SupportFiles []model.SupportFile
}

// Agent implements convert.Document.
func (s *Skill) Agent() model.Agent { return model.Gemini }

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

// ParseSkill parses a skill's primary file.
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

// SkillToIR projects a Gemini skill into the semantic IR.
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
			SourcePath:   s.Path(),
			SourceAgent:  model.Gemini,
			SkillName:    sem.Name,
			SupportFiles: s.SupportFiles,
		},
	}, nil
}

// SkillFromIR materializes a Gemini skill from the IR.
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
	convert.ApplyExtras(fields, ir, model.Gemini, skillNativeKeys, foreignKeys, opts)

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
			logging.Agent(string(model.Gemini)),
			logging.Placeholder(string(d.Tag)),
		)
	}
}
