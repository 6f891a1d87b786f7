package cursor

import (
	"reflect"
	"testing"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/model"
)

func TestCommandDropsAllMetadata(t *testing.T) {
	ir := model.SemanticIR{
		ContentType: model.ContentCommand,
		Semantic:    model.Semantic{Description: "will be lost"},
		Extras:      model.Fields{"claude-model": model.String("opus")},
		Meta:        model.Meta{SourcePath: "fix.toml", SourceAgent: model.Gemini},
	}

	cmd, err := CommandFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}
	if cmd.FilePath != "fix.md" {
		t.Errorf("path = %q, want extension forced to .md", cmd.FilePath)
	}

	back, err := CommandToIR(cmd)
	if err != nil {
		t.Fatalf("CommandToIR: %v", err)
	}
	if back.Semantic.Description != "" || len(back.Extras) > 0 {
		t.Errorf("metadata survived a format with no frontmatter: %#v", back)
	}
}

func TestCommandBodyRoundTrip(t *testing.T) {
	raw := []byte("Fix the bug in $ARGUMENTS and explain $2.\n")
	cmd, err := ParseCommand("fix.md", raw)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	ir, err := CommandToIR(cmd)
	if err != nil {
		t.Fatalf("CommandToIR: %v", err)
	}
	back, err := CommandFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}
	if back.Content != cmd.Content {
		t.Errorf("content = %q, want %q", back.Content, cmd.Content)
	}
}

func TestRuleRoundTripIdentity(t *testing.T) {
	s := &Skill{
		Fields: model.Fields{
			"name":        model.String("style-guide"),
			"description": model.String("project style"),
			"globs":       model.StringList([]string{"**/*.go"}),
			"alwaysApply": model.Bool(true),
		},
		Content:  "Follow the house style.",
		FilePath: "style-guide.mdc",
	}

	ir, err := SkillToIR(s)
	if err != nil {
		t.Fatalf("SkillToIR: %v", err)
	}
	if ir.Semantic.Name != "style-guide" {
		t.Errorf("name = %q", ir.Semantic.Name)
	}

	back, err := SkillFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("SkillFromIR: %v", err)
	}
	if !reflect.DeepEqual(back.Fields, s.Fields) {
		t.Errorf("fields round trip:\n got %#v\nwant %#v", back.Fields, s.Fields)
	}
	if back.FilePath != "style-guide.mdc" {
		t.Errorf("path = %q", back.FilePath)
	}
}

func TestSkillFromIRForcesMdcExtension(t *testing.T) {
	ir := model.SemanticIR{
		ContentType: model.ContentSkill,
		Semantic:    model.Semantic{Name: "pdf-tools"},
		Meta:        model.Meta{SourcePath: "pdf-tools/SKILL.md", SourceAgent: model.Claude},
	}
	s, err := SkillFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("SkillFromIR: %v", err)
	}
	if s.FilePath != "pdf-tools/SKILL.mdc" {
		t.Errorf("path = %q", s.FilePath)
	}
}

func TestUnsupportedShellRendersBestEffort(t *testing.T) {
	cmd, err := ParseCommand("status.md", []byte("Current state: !`git status`"))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	ir, err := CommandToIR(cmd)
	if err != nil {
		t.Fatalf("CommandToIR: %v", err)
	}
	back, err := CommandFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}
	if back.Content != "Current state: !`git status`" {
		t.Errorf("content = %q", back.Content)
	}
}
