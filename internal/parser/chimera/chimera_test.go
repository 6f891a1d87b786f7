package chimera

import (
	"reflect"
	"testing"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/model"
)

func TestCommandToIRFlattensTargets(t *testing.T) {
	cmd := &Command{
		Fields: model.Fields{
			"description": model.String("shared description"),
			"targets": model.Map(model.Fields{
				"claude": model.Map(model.Fields{
					"argument-hint": model.String("[file]"),
				}),
				"opencode": model.Map(model.Fields{
					"agent": model.String("build"),
				}),
			}),
		},
		Content:  "do the thing with $ARGUMENTS",
		FilePath: "thing.md",
	}

	ir, err := CommandToIR(cmd)
	if err != nil {
		t.Fatalf("CommandToIR: %v", err)
	}

	if v, _ := ir.Extras["claude-argument-hint"].AsString(); v != "[file]" {
		t.Errorf("claude block not flattened: %#v", ir.Extras)
	}
	if v, _ := ir.Extras["opencode-agent"].AsString(); v != "build" {
		t.Errorf("opencode block not flattened: %#v", ir.Extras)
	}
	if _, ok := ir.Extras["targets"]; ok {
		t.Error("raw targets map leaked into extras")
	}
}

func TestFromIRRoutesPrefixedExtrasIntoBlocks(t *testing.T) {
	ir := model.SemanticIR{
		ContentType: model.ContentCommand,
		Semantic:    model.Semantic{Description: "d"},
		Extras: model.Fields{
			"argument-hint": model.String("[pr]"),
			"gemini-model":  model.String("flash"),
		},
		Meta: model.Meta{SourcePath: "review.md", SourceAgent: model.Claude},
	}

	cmd, err := CommandFromIR(ir, convert.Options{})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}

	targets := cmd.Targets()
	if v, _ := targets[model.Claude]["argument-hint"].AsString(); v != "[pr]" {
		t.Errorf("plain extras not routed to source agent block: %#v", targets)
	}
	if v, _ := targets[model.Gemini]["model"].AsString(); v != "flash" {
		t.Errorf("prefixed extras not routed: %#v", targets)
	}
}

func TestFromIRMergePreservesSiblingBlocks(t *testing.T) {
	existing := map[model.Agent]model.Fields{
		model.Gemini: {"model": model.String("flash")},
		model.Claude: {"argument-hint": model.String("[old]")},
	}

	ir := model.SemanticIR{
		ContentType: model.ContentCommand,
		Extras:      model.Fields{"argument-hint": model.String("[new]")},
		Meta:        model.Meta{SourcePath: "c.md", SourceAgent: model.Claude},
	}

	cmd, err := CommandFromIR(ir, convert.Options{
		DestinationType: model.Claude,
		ExistingTargets: existing,
	})
	if err != nil {
		t.Fatalf("CommandFromIR: %v", err)
	}

	targets := cmd.Targets()
	if v, _ := targets[model.Claude]["argument-hint"].AsString(); v != "[new]" {
		t.Errorf("destination block not replaced: %#v", targets)
	}
	if v, _ := targets[model.Gemini]["model"].AsString(); v != "flash" {
		t.Errorf("sibling block not preserved: %#v", targets)
	}
}

func TestRoundTripThroughStringify(t *testing.T) {
	cmd := &Command{
		Fields: model.Fields{
			"description": model.String("aggregate"),
			"targets": model.Map(model.Fields{
				"claude": model.Map(model.Fields{
					"model": model.String("opus"),
				}),
			}),
		},
		Content:  "run $1",
		FilePath: "agg.md",
	}

	raw, err := cmd.Stringify()
	if err != nil {
		t.Fatalf("Stringify: %v", err)
	}
	parsed, err := ParseCommand("agg.md", raw)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(parsed.Targets(), cmd.Targets()) {
		t.Errorf("targets round trip = %#v", parsed.Targets())
	}
	if parsed.Content != cmd.Content {
		t.Errorf("content = %q", parsed.Content)
	}
}

func TestTargetsSkipsUnknownAgents(t *testing.T) {
	cmd := &Command{
		Fields: model.Fields{
			"targets": model.Map(model.Fields{
				"aider": model.Map(model.Fields{"x": model.String("y")}),
			}),
		},
	}
	if targets := cmd.Targets(); len(targets) != 0 {
		t.Errorf("unknown agent block kept: %#v", targets)
	}
}
