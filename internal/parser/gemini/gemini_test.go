package gemini

import (
	"reflect"
	"strings"
	"testing"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/model"
)

func TestParseCommand(t *testing.T) {
	raw := []byte(`description = "Plan a feature"
prompt = "Plan {{args}} using !{git log --oneline -10}"
`)

	cmd, err := ParseCommand("commands/plan.toml", raw)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}

	if desc, _ := cmd.Fields["description"].AsString(); desc != "Plan a feature" {
		t.Errorf("description = %q", desc)
	}
	if !strings.Contains(cmd.Prompt, "{{args}}") {
		t.Errorf("prompt = %q", cmd.Prompt)
	}
	if _, ok := cmd.Fields["prompt"]; ok {
		t.Error("prompt leaked into fields")
	}
}

func TestParseCommandMalformedTOML(t *testing.T) {
	if _, err := ParseCommand("bad.toml", []byte("description = unclosed\"")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStringifyReparse(t *testing.T) {
	cmd := &Command{
		Fields: model.Fields{
			"description": model.String("check types"),
			"_from":       model.StringList([]string{"github.com/acme/prompts"}),
		},
		Prompt:   "Check {{args}} and @{tsconfig.json}",
		FilePath: "check.toml",
	}

	raw, err := cmd.Stringify()
	if err != nil {
		t.Fatalf("Stringify: %v", err)
	}

	parsed, err := ParseCommand("check.toml", raw)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(parsed.Fields, cmd.Fields) {
		t.Errorf("fields = %#v, want %#v", parsed.Fields, cmd.Fields)
	}
	if parsed.Prompt != cmd.Prompt {
		t.Errorf("prompt = %q", parsed.Prompt)
	}
}

func TestCommandRoundTripIdentity(t *testing.T) {
	cmd := &Command{
		Fields: model.Fields{
			"description": model.String("Summarize changes"),
		},
		Prompt:   "Summarize {{args}} from !{git diff}",
		FilePath: "commands/summarize.toml",
	}

	ir, err := CommandToIR(cmd)
	if err != nil {
		t.Fatalf("CommandToIR: %v", err)
	}

	back, err := CommandFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}
	if back.Prompt != cmd.Prompt {
		t.Errorf("prompt round trip = %q", back.Prompt)
	}
	if !reflect.DeepEqual(back.Fields, cmd.Fields) {
		t.Errorf("fields round trip = %#v", back.Fields)
	}
}

func TestCommandFromIRForcesTOMLExtension(t *testing.T) {
	ir := model.SemanticIR{
		ContentType: model.ContentCommand,
		Meta:        model.Meta{SourcePath: "commands/deploy.md", SourceAgent: model.Claude},
	}

	cmd, err := CommandFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}
	if cmd.FilePath != "commands/deploy.toml" {
		t.Errorf("FilePath = %q", cmd.FilePath)
	}
}

func TestModelInvocationNotRepresentable(t *testing.T) {
	ir := model.SemanticIR{
		ContentType: model.ContentCommand,
		Semantic:    model.Semantic{ModelInvocation: model.BoolPtr(false)},
		Meta:        model.Meta{SourcePath: "c.md", SourceAgent: model.Claude},
	}

	cmd, err := CommandFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}
	if _, ok := cmd.Fields["disable-model-invocation"]; ok {
		t.Error("claude-only spelling written into gemini document")
	}
}
