// Package codex implements parsing and IR conversion for OpenAI Codex
// CLI prompts and skills. Prompts are bare markdown files; skills are a
// SKILL.md plus a sibling openai.yaml policy block whose
// allow_implicit_invocation maps straight onto the IR's unified
// model-invocation switch (no inversion, unlike Claude).
package codex

import (
	"path/filepath"

	"gopkg.in/yaml.v3"

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

// ConfigFile is the policy block sitting next to SKILL.md.
const ConfigFile = "openai.yaml"

// Table returns Codex's placeholder table: Claude spellings, with shell
// commands and file references flagged unsupported.
func Table() body.Table {
	return body.Restricted(body.ClaudeFamily(), body.TagShellCommand, body.TagFileReference)
}

var skillNativeKeys = map[string]bool{
	"version": true,
}

var foreignKeys = map[string]bool{
	"argument-hint": true, // claude
	"allowed-tools": true, // claude
	"agent":         true, // opencode
	"subtask":       true, // opencode
	"mode":          true, // copilot
	"tools":         true, // copilot
	"globs":         true, // cursor
	"alwaysApply":   true, // cursor
}

// OpenAIConfig is the openai.yaml document.
type OpenAIConfig struct {
	Policy Policy `yaml:"policy"`
}

// Policy holds Codex's invocation policy.
type Policy struct {
	AllowImplicitInvocation *bool `yaml:"allow_implicit_invocation,omitempty"`
}

// Command is the on-disk shape of a Codex prompt: bare markdown, no
// frontmatter, so description and provenance are unavoidably lost.
type Command struct {
	Content  string
	FilePath string
}

// Agent implements convert.Document.
func (c *Command) Agent() model.Agent { return model.Codex }

// ContentType implements convert.Document.
func (c *Command) ContentType() model.ContentType { return model.ContentCommand }

// Path implements convert.Document.
func (c *Command) Path() string { return c.FilePath }

// ParseCommand parses a raw prompt file. A frontmatter block, if some
// other tool left one behind, is treated as part of the body.
func ParseCommand(path string, raw []byte) (*Command, error) {
	return &Command{
		Content:  parser.NormalizeContent(string(raw)),
		FilePath: path,
	}, nil
}

// Stringify renders the prompt back to its file form.
func (c *Command) Stringify() ([]byte, error) {
	return []byte(c.Content), nil
}

// CommandToIR projects a Codex prompt into the semantic IR. There is no
// frontmatter, so the semantic fields stay empty.
func CommandToIR(c *Command) (model.SemanticIR, error) {
	return model.SemanticIR{
		ContentType: model.ContentCommand,
		Body:        body.Tokenize(c.Content, Table()),
		Meta: model.Meta{
			SourcePath:  c.FilePath,
			SourceAgent: model.Codex,
		},
	}, nil
}

// CommandFromIR materializes a Codex prompt from the IR. Frontmatter
// fields cannot be represented and are logged, not carried.
func CommandFromIR(ir model.SemanticIR, _ convert.Options) (*Command, error) {
	if ir.Semantic.Description != "" || len(ir.Extras) > 0 {
		logging.Debug("codex prompts carry no frontmatter, fields dropped",
			logging.Agent(string(model.Codex)),
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

// Skill is the on-disk shape of a Codex skill bundle: SKILL.md, an
// optional openai.yaml policy block, and support files.
type Skill struct {
	Fields       model.Fields
	Content      string
	DirPath      string
	Config       *OpenAIConfig
	SupportFiles []model.SupportFile
}

// Agent implements convert.Document.
func (s *Skill) Agent() model.Agent { return model.Codex }

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

// ParseSkill parses a skill's primary file and its policy block.
// configRaw may be nil when the directory has no openai.yaml.
func ParseSkill(dirPath string, raw []byte, configRaw []byte, support []model.SupportFile) (*Skill, error) {
	result := parser.SplitFrontmatter(raw)

	fields := make(model.Fields)
	if result.HasFrontmatter {
		parsed, err := parser.ParseFrontmatterFields(result.Frontmatter)
		if err != nil {
			return nil, &parser.ParseError{Path: filepath.Join(dirPath, SkillFile), Err: err}
		}
		fields = parsed
	}

	var config *OpenAIConfig
	if len(configRaw) > 0 {
		config = &OpenAIConfig{}
		if err := yaml.Unmarshal(configRaw, config); err != nil {
			return nil, &parser.ParseError{Path: filepath.Join(dirPath, ConfigFile), Err: err}
		}
	}

	return &Skill{
		Fields:       fields,
		Content:      parser.NormalizeContent(result.Content),
		DirPath:      dirPath,
		Config:       config,
		SupportFiles: support,
	}, nil
}

// Stringify renders the skill's primary file.
func (s *Skill) Stringify() ([]byte, error) {
	return parser.RenderFrontmatter(s.Fields, s.Content)
}

// StringifyConfig renders the openai.yaml block, or nil when the skill
// has none.
func (s *Skill) StringifyConfig() ([]byte, error) {
	if s.Config == nil {
		return nil, nil
	}
	return yaml.Marshal(s.Config)
}

// SkillToIR projects a Codex skill into the semantic IR.
func SkillToIR(s *Skill) (model.SemanticIR, error) {
	sem := model.Semantic{Name: s.Name()}
	if d, ok := s.Fields["description"].AsString(); ok {
		sem.Description = d
	}
	if from, ok := s.Fields["_from"].AsStringList(); ok && len(from) > 0 {
		sem.From = from
	}
	if s.Config != nil && s.Config.Policy.AllowImplicitInvocation != nil {
		sem.ModelInvocation = model.BoolPtr(*s.Config.Policy.AllowImplicitInvocation)
	}

	return model.SemanticIR{
		ContentType: model.ContentSkill,
		Body:        body.Tokenize(s.Content, Table()),
		Semantic:    sem,
		Extras:      convert.ExtrasFrom(s.Fields, "name", "description", "_from"),
		Meta: model.Meta{
			SourcePath:   s.Path(),
			SourceAgent:  model.Codex,
			SkillName:    sem.Name,
			SupportFiles: s.SupportFiles,
		},
	}, nil
}

// SkillFromIR materializes a Codex skill from the IR. A stated
// model-invocation preference becomes the openai.yaml policy block; an
// unstated one produces no block at all.
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
	convert.ApplyExtras(fields, ir, model.Codex, skillNativeKeys, foreignKeys, opts)

	var config *OpenAIConfig
	if ir.Semantic.ModelInvocation != nil {
		config = &OpenAIConfig{
			Policy: Policy{AllowImplicitInvocation: model.BoolPtr(*ir.Semantic.ModelInvocation)},
		}
	}

	content, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	return &Skill{
		Fields:       fields,
		Content:      content,
		DirPath:      name,
		Config:       config,
		SupportFiles: ir.Meta.SupportFiles,
	}, nil
}

func logDiagnostics(diags []body.Diagnostic) {
	for _, d := range diags {
		logging.Warn("placeholder not natively supported, serialized best-effort",
			logging.Agent(string(model.Codex)),
			logging.Placeholder(string(d.Tag)),
		)
	}
}
