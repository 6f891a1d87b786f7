package convert

import (
	"testing"

	"github.com/klauern/promptsync/internal/model"
)

func irWithExtras(source model.Agent, extras model.Fields) model.SemanticIR {
	return model.SemanticIR{
		ContentType: model.ContentCommand,
		Extras:      extras,
		Meta:        model.Meta{SourceAgent: source},
	}
}

func TestExtrasFromRemovesSemanticKeys(t *testing.T) {
	fields := model.Fields{
		"description":   model.String("d"),
		"argument-hint": model.String("[file]"),
	}
	extras := ExtrasFrom(fields, "description")
	if _, ok := extras["description"]; ok {
		t.Error("semantic key leaked into extras")
	}
	if _, ok := extras["argument-hint"]; !ok {
		t.Error("native extra lost")
	}
	if _, ok := fields["description"]; !ok {
		t.Error("ExtrasFrom mutated its input")
	}
}

func TestExtrasFromEmptyIsNil(t *testing.T) {
	if got := ExtrasFrom(model.Fields{"description": model.String("d")}, "description"); got != nil {
		t.Errorf("expected nil extras, got %#v", got)
	}
}

func TestApplyExtrasPrefixesForeignFields(t *testing.T) {
	ir := irWithExtras(model.Claude, model.Fields{
		"argument-hint": model.String("[file]"),
	})

	dst := make(model.Fields)
	ApplyExtras(dst, ir, model.Gemini, map[string]bool{}, map[string]bool{}, Options{})

	if _, ok := dst["claude-argument-hint"]; !ok {
		t.Errorf("foreign field not prefixed: %#v", dst)
	}
}

func TestApplyExtrasUnprefixesComingHome(t *testing.T) {
	// claude -> gemini -> claude: the prefixed field returns to its
	// original name and value.
	ir := irWithExtras(model.Gemini, model.Fields{
		"claude-argument-hint": model.String("[file]"),
	})

	dst := make(model.Fields)
	ApplyExtras(dst, ir, model.Claude, map[string]bool{"argument-hint": true}, map[string]bool{}, Options{})

	if v, _ := dst["argument-hint"].AsString(); v != "[file]" {
		t.Errorf("field did not come home: %#v", dst)
	}
	if _, ok := dst["claude-argument-hint"]; ok {
		t.Error("prefixed form survived the return trip")
	}
}

func TestApplyExtrasKeepsForeignPrefixIntact(t *testing.T) {
	// A claude-tagged field passing through cursor keeps its tag so a
	// later conversion to claude can still recover it.
	ir := irWithExtras(model.Gemini, model.Fields{
		"claude-argument-hint": model.String("[file]"),
	})

	dst := make(model.Fields)
	ApplyExtras(dst, ir, model.Cursor, map[string]bool{}, map[string]bool{}, Options{})

	if _, ok := dst["claude-argument-hint"]; !ok {
		t.Errorf("prefixed field was altered: %#v", dst)
	}
}

func TestApplyExtrasRemoveUnsupported(t *testing.T) {
	ir := irWithExtras(model.Claude, model.Fields{
		"globs":          model.String("*.ts"),
		"gemini-command": model.String("x"),
		"argument-hint":  model.String("[file]"),
	})

	dst := make(model.Fields)
	ApplyExtras(dst, ir, model.Claude,
		map[string]bool{"argument-hint": true},
		map[string]bool{"globs": true},
		Options{RemoveUnsupported: true})

	if _, ok := dst["globs"]; ok {
		t.Error("foreign-list field survived RemoveUnsupported")
	}
	if _, ok := dst["gemini-command"]; ok {
		t.Error("prefixed foreign field survived RemoveUnsupported")
	}
	if _, ok := dst["argument-hint"]; !ok {
		t.Error("native field was dropped")
	}
}

func TestApplyExtrasNativeKeyWrittenAsIs(t *testing.T) {
	ir := irWithExtras(model.Claude, model.Fields{
		"model": model.String("opus"),
	})

	dst := make(model.Fields)
	ApplyExtras(dst, ir, model.OpenCode, map[string]bool{"model": true}, map[string]bool{}, Options{})

	if v, _ := dst["model"].AsString(); v != "opus" {
		t.Errorf("shared native key mangled: %#v", dst)
	}
}
