package registry_test

import (
	"strings"
	"testing"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/parser/codex"
	"github.com/klauern/promptsync/internal/registry"
)

func TestLookupKnowsEveryAgent(t *testing.T) {
	for _, agent := range model.AllAgents() {
		def, err := registry.Lookup(agent)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", agent, err)
		}
		if def.Agent != agent {
			t.Errorf("Lookup(%s).Agent = %s", agent, def.Agent)
		}
		if def.DisplayName == "" || def.CommandExtension == "" {
			t.Errorf("Lookup(%s) incomplete: %+v", agent, def)
		}
	}
}

func TestLookupUnknownAgent(t *testing.T) {
	if _, err := registry.Lookup(model.Agent("aider")); err == nil {
		t.Fatal("expected error for unregistered agent")
	}
}

func TestAllMatchesAgentOrder(t *testing.T) {
	defs := registry.All()
	agents := model.AllAgents()
	if len(defs) != len(agents) {
		t.Fatalf("All() returned %d definitions, want %d", len(defs), len(agents))
	}
	for i, def := range defs {
		if def.Agent != agents[i] {
			t.Errorf("All()[%d] = %s, want %s", i, def.Agent, agents[i])
		}
	}
}

// convertVia parses a raw claude command, converts it to target, and
// returns the stringified result plus the target document.
func convertCommand(t *testing.T, source, target model.Agent, path string, raw []byte, opts convert.Options) (convert.Document, []byte) {
	t.Helper()

	src, err := registry.Lookup(source)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := registry.Lookup(target)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := src.ParseCommand(path, raw)
	if err != nil {
		t.Fatalf("parse %s: %v", source, err)
	}
	ir, err := src.ToIR(doc)
	if err != nil {
		t.Fatalf("toIR %s: %v", source, err)
	}
	out, err := dst.CommandFromIR(ir, opts)
	if err != nil {
		t.Fatalf("fromIR %s: %v", target, err)
	}
	rendered, err := dst.Stringify(out)
	if err != nil {
		t.Fatalf("stringify %s: %v", target, err)
	}
	return out, rendered
}

func TestClaudeToGeminiAndBack(t *testing.T) {
	original := []byte(`---
argument-hint: "[pr-number]"
description: Review a pull request
model: opus
---
Review PR $1 in @src/main.go using !` + "`git diff`" + `.
`)

	toGemini, geminiRaw := convertCommand(t, model.Claude, model.Gemini, "review.md", original, convert.Options{})
	if toGemini.Agent() != model.Gemini {
		t.Fatalf("target agent = %s", toGemini.Agent())
	}
	if toGemini.Path() != "review.toml" {
		t.Errorf("target path = %q", toGemini.Path())
	}
	rendered := string(geminiRaw)
	if !strings.Contains(rendered, "!{git diff}") {
		t.Errorf("shell placeholder not respelled: %s", rendered)
	}
	if !strings.Contains(rendered, "@{src/main.go}") {
		t.Errorf("file placeholder not respelled: %s", rendered)
	}
	if !strings.Contains(rendered, `claude-argument-hint`) {
		t.Errorf("foreign field not prefixed: %s", rendered)
	}

	backDoc, backRaw := convertCommand(t, model.Gemini, model.Claude, "review.toml", geminiRaw, convert.Options{})
	if backDoc.Path() != "review.md" {
		t.Errorf("restored path = %q", backDoc.Path())
	}
	restored := string(backRaw)
	if !strings.Contains(restored, "!`git diff`") {
		t.Errorf("shell placeholder not restored: %s", restored)
	}
	if !strings.Contains(restored, "@src/main.go") {
		t.Errorf("file placeholder not restored: %s", restored)
	}
	if !strings.Contains(restored, "argument-hint:") || !strings.Contains(restored, "[pr-number]") {
		t.Errorf("prefixed field did not come home: %s", restored)
	}
	if strings.Contains(restored, "claude-argument-hint") {
		t.Errorf("prefix survived the trip home: %s", restored)
	}
}

func TestRemoveUnsupportedStripsForeignOnTarget(t *testing.T) {
	original := []byte(`---
argument-hint: "[file]"
description: Fix a bug
---
Fix $ARGUMENTS.
`)

	_, rendered := convertCommand(t, model.Claude, model.OpenCode, "fix.md", original, convert.Options{RemoveUnsupported: true})
	if strings.Contains(string(rendered), "argument-hint") {
		t.Errorf("foreign field survived RemoveUnsupported: %s", rendered)
	}
	if !strings.Contains(string(rendered), "description: Fix a bug") {
		t.Errorf("shared field stripped: %s", rendered)
	}
}

func TestClaudeSkillToCodexPolicy(t *testing.T) {
	raw := []byte(`---
name: pdf-tools
description: Work with PDF files
disable-model-invocation: true
---
Extract text from @input.pdf.
`)

	src, err := registry.Lookup(model.Claude)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := registry.Lookup(model.Codex)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := src.ParseSkill("pdf-tools", raw, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ir, err := src.ToIR(doc)
	if err != nil {
		t.Fatalf("toIR: %v", err)
	}
	if ir.Semantic.ModelInvocation == nil || *ir.Semantic.ModelInvocation {
		t.Fatalf("model invocation = %v, want disabled", ir.Semantic.ModelInvocation)
	}

	out, err := dst.SkillFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("fromIR: %v", err)
	}
	skill, ok := out.(*codex.Skill)
	if !ok {
		t.Fatalf("target type = %T", out)
	}
	if skill.Config == nil || skill.Config.Policy.AllowImplicitInvocation == nil {
		t.Fatal("policy block not materialized")
	}
	if *skill.Config.Policy.AllowImplicitInvocation {
		t.Error("allow_implicit_invocation = true, want false")
	}

	// Back to claude: the inverted spelling must reappear.
	backIR, err := dst.ToIR(skill)
	if err != nil {
		t.Fatalf("toIR codex: %v", err)
	}
	back, err := src.SkillFromIR(backIR, convert.Options{})
	if err != nil {
		t.Fatalf("fromIR claude: %v", err)
	}
	restored, err := src.Stringify(back)
	if err != nil {
		t.Fatalf("stringify: %v", err)
	}
	if !strings.Contains(string(restored), "disable-model-invocation: true") {
		t.Errorf("inverted spelling not restored: %s", restored)
	}
}

func TestCodexSkillConfigViaSupportSplit(t *testing.T) {
	def, err := registry.Lookup(model.Codex)
	if err != nil {
		t.Fatal(err)
	}

	support := []model.SupportFile{
		{RelPath: "openai.yaml", Kind: model.SupportConfig, Content: "policy:\n  allow_implicit_invocation: false\n"},
		{RelPath: "scripts/run.sh", Kind: model.SupportText, Content: "#!/bin/sh\n"},
	}
	doc, err := def.ParseSkill("tool", []byte("---\nname: tool\n---\nbody\n"), support)
	if err != nil {
		t.Fatalf("ParseSkill: %v", err)
	}
	skill := doc.(*codex.Skill)
	if skill.Config == nil || skill.Config.Policy.AllowImplicitInvocation == nil || *skill.Config.Policy.AllowImplicitInvocation {
		t.Fatalf("config not split from support list: %+v", skill.Config)
	}
	if len(skill.SupportFiles) != 1 || skill.SupportFiles[0].RelPath != "scripts/run.sh" {
		t.Errorf("support list = %+v", skill.SupportFiles)
	}
}

func TestChimeraAggregatesForeignBlocks(t *testing.T) {
	original := []byte(`---
argument-hint: "[pr]"
description: Review
---
Review $1.
`)

	out, rendered := convertCommand(t, model.Claude, model.Chimera, "review.md", original, convert.Options{})
	if out.Agent() != model.Chimera {
		t.Fatalf("agent = %s", out.Agent())
	}
	text := string(rendered)
	if !strings.Contains(text, "targets:") {
		t.Errorf("no targets block: %s", text)
	}
	if !strings.Contains(text, "argument-hint") {
		t.Errorf("claude block missing its field: %s", text)
	}
}
