// Package chimera implements the synthetic multi-agent aggregate format.
// A Chimera document carries the shared semantic fields once, plus one
// extras block per target agent under the targets frontmatter map; the
// body uses Claude-family spellings with full placeholder support. It is
// the only converter that honors the DestinationType / ExistingTargets
// merge hints.
package chimera

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

// TargetsKey is the frontmatter key holding the per-agent extras blocks.
const TargetsKey = "targets"

// Table returns Chimera's placeholder table. The aggregate stores Claude
// spellings and supports every variant.
func Table() body.Table { return body.ClaudeFamily() }

// Command is the on-disk shape of a Chimera command.
type Command struct {
	Fields   model.Fields
	Content  string
	FilePath string
}

// Agent implements convert.Document.
func (c *Command) Agent() model.Agent { return model.Chimera }

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

// Targets extracts the per-agent extras blocks from a parsed document,
// for feeding back as Options.ExistingTargets on a merge.
func (c *Command) Targets() map[model.Agent]model.Fields {
	return targetsFrom(c.Fields)
}

// CommandToIR projects a Chimera command into the semantic IR. Target
// blocks flatten into agent-prefixed extras, which is the same reversible
// tagging every other converter uses for foreign fields.
func CommandToIR(c *Command) (model.SemanticIR, error) {
	sem := model.Semantic{}
	if d, ok := c.Fields["description"].AsString(); ok {
		sem.Description = d
	}
	if disabled, ok := c.Fields["disable-model-invocation"].AsBool(); ok {
		sem.ModelInvocation = model.BoolPtr(!disabled)
	}
	if from, ok := c.Fields["_from"].AsStringList(); ok && len(from) > 0 {
		sem.From = from
	}

	return model.SemanticIR{
		ContentType: model.ContentCommand,
		Body:        body.Tokenize(c.Content, Table()),
		Semantic:    sem,
		Extras:      flattenExtras(c.Fields, "description", "disable-model-invocation", "_from"),
		Meta: model.Meta{
			SourcePath:  c.FilePath,
			SourceAgent: model.Chimera,
		},
	}, nil
}

// CommandFromIR materializes a Chimera command from the IR, merging
// per-target extras blocks per the options.
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
	applyTargets(fields, ir, opts)

	content, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	return &Command{
		Fields:   fields,
		Content:  content,
		FilePath: convert.ForceExtension(ir.Meta.SourcePath, Extension),
	}, nil
}

// Skill is the on-disk shape of a Chimera skill bundle.
type Skill struct {
	Fields       model.Fields
	Content      string
	DirPath      string
	SupportFiles []model.SupportFile
}

// Agent implements convert.Document.
func (s *Skill) Agent() model.Agent { return model.Chimera }

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

// Targets extracts the per-agent extras blocks from a parsed skill.
func (s *Skill) Targets() map[model.Agent]model.Fields {
	return targetsFrom(s.Fields)
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

// SkillToIR projects a Chimera skill into the semantic IR.
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
		Extras:      flattenExtras(s.Fields, "name", "description", "disable-model-invocation", "_from"),
		Meta: model.Meta{
			SourcePath:   s.Path(),
			SourceAgent:  model.Chimera,
			SkillName:    sem.Name,
			SupportFiles: s.SupportFiles,
		},
	}, nil
}

// SkillFromIR materializes a Chimera skill from the IR.
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
	applyTargets(fields, ir, opts)

	content, diags := body.Serialize(ir.Body, Table())
	logDiagnostics(diags)

	return &Skill{
		Fields:       fields,
		Content:      content,
		DirPath:      name,
		SupportFiles: ir.Meta.SupportFiles,
	}, nil
}

// targetsFrom decodes the targets frontmatter map.
func targetsFrom(fields model.Fields) map[model.Agent]model.Fields {
	tm, ok := fields[TargetsKey].AsMap()
	if !ok {
		return nil
	}
	targets := make(map[model.Agent]model.Fields, len(tm))
	for name, block := range tm {
		agent, err := model.ParseAgent(name)
		if err != nil {
			logging.Warn("targets block names unknown agent, skipping",
				logging.Agent(name),
			)
			continue
		}
		if blockFields, ok := block.AsMap(); ok {
			targets[agent] = blockFields.Clone()
		}
	}
	return targets
}

// flattenExtras converts top-level extras and per-agent target blocks
// into the flat, agent-prefixed extras bag the IR carries.
func flattenExtras(fields model.Fields, semanticKeys ...string) model.Fields {
	extras := convert.ExtrasFrom(fields, append(semanticKeys, TargetsKey)...)
	if extras == nil {
		extras = make(model.Fields)
	}
	for agent, block := range targetsFrom(fields) {
		for key, val := range block {
			extras[convert.PrefixField(agent, key)] = val
		}
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}

// applyTargets rebuilds the targets frontmatter map from the IR's extras
// bag. The block selected by opts.DestinationType (defaulting to the
// IR's source agent) is replaced wholesale; sibling blocks from
// opts.ExistingTargets are preserved untouched.
func applyTargets(fields model.Fields, ir model.SemanticIR, opts convert.Options) {
	targets := make(map[model.Agent]model.Fields, len(opts.ExistingTargets))
	for agent, block := range opts.ExistingTargets {
		targets[agent] = block.Clone()
	}

	dest := opts.DestinationType
	if dest == "" {
		dest = ir.Meta.SourceAgent
	}
	if dest != "" && dest != model.Chimera {
		delete(targets, dest)
	}

	for _, key := range ir.Extras.SortedKeys() {
		val := ir.Extras[key]
		if agent, plain, ok := convert.SplitPrefixed(key); ok {
			if targets[agent] == nil {
				targets[agent] = make(model.Fields)
			}
			targets[agent][plain] = val
			continue
		}
		if dest != "" && dest != model.Chimera {
			if targets[dest] == nil {
				targets[dest] = make(model.Fields)
			}
			targets[dest][key] = val
			continue
		}
		fields[key] = val
	}

	tm := make(model.Fields, len(targets))
	for agent, block := range targets {
		if len(block) > 0 {
			tm[string(agent)] = model.Map(block)
		}
	}
	if len(tm) > 0 {
		fields[TargetsKey] = model.Map(tm)
	}
}

func logDiagnostics(diags []body.Diagnostic) {
	for _, d := range diags {
		logging.Warn("placeholder not natively supported, serialized best-effort",
			logging.Agent(string(model.Chimera)),
			logging.Placeholder(string(d.Tag)),
		)
	}
}
