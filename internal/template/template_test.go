package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	gen, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if gen == nil {
		t.Fatal("New() returned nil generator")
	}

	templates := gen.ListTemplates()
	if len(templates) != 3 {
		t.Errorf("Expected 3 built-in templates, got %d", len(templates))
	}
}

func TestGenerate_Basic(t *testing.T) {
	gen, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	data := Data{
		Name:        "fix-issue",
		Description: "Fix a reported issue",
		Agent:       "claude",
	}

	content, err := gen.Generate(Basic, data)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if !strings.Contains(content, "# fix-issue") {
		t.Error("Generated content missing markdown header")
	}
	if !strings.Contains(content, "Fix a reported issue") {
		t.Error("Generated content missing description")
	}
	if !strings.Contains(content, "$ARGUMENTS") {
		t.Error("Generated content missing arguments placeholder")
	}
}

func TestGenerate_Review(t *testing.T) {
	gen, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	content, err := gen.Generate(Review, Data{Name: "review-pr", Description: "Review the current diff"})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if !strings.Contains(content, "!`git diff`") {
		t.Error("Generated content missing shell placeholder")
	}
}

func TestGenerate_UnknownKind(t *testing.T) {
	gen, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := gen.Generate(Kind("nope"), Data{}); err == nil {
		t.Error("expected error for unknown template kind")
	}
}

func TestLoadCustomTemplate(t *testing.T) {
	gen, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.md")
	if err := os.WriteFile(path, []byte("# {{.Name}}\n\ncustom body\n"), 0o644); err != nil {
		t.Fatalf("failed to write template file: %v", err)
	}

	if err := gen.LoadCustomTemplate("custom", path); err != nil {
		t.Fatalf("LoadCustomTemplate() failed: %v", err)
	}

	content, err := gen.Generate(Kind("custom"), Data{Name: "mine"})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if !strings.Contains(content, "# mine") {
		t.Errorf("expected substituted name, got %q", content)
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Kind
		wantErr bool
	}{
		"basic":            {input: "basic", want: Basic},
		"command alias":    {input: "command", want: Basic},
		"workflow":         {input: "Workflow", want: Workflow},
		"review":           {input: " review ", want: Review},
		"unknown errors":   {input: "utility", wantErr: true},
		"empty errors":     {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
