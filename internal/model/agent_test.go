package model

import "testing"

func TestParseAgent(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Agent
		wantErr bool
	}{
		"claude":            {input: "claude", want: Claude},
		"uppercase":         {input: "GEMINI", want: Gemini},
		"padded":            {input: "  codex ", want: Codex},
		"chimera":           {input: "chimera", want: Chimera},
		"unknown":           {input: "aider", wantErr: true},
		"empty":             {input: "", wantErr: true},
		"partial no match":  {input: "clau", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAgent(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAgent(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAgent(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAgent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllAgentsAreValid(t *testing.T) {
	for _, a := range AllAgents() {
		if !a.IsValid() {
			t.Errorf("agent %q reported invalid", a)
		}
	}
	if Agent("aider").IsValid() {
		t.Error("unknown agent reported valid")
	}
}

func TestParseContentType(t *testing.T) {
	if _, err := ParseContentType("command"); err != nil {
		t.Errorf("command: %v", err)
	}
	if _, err := ParseContentType("Skill"); err != nil {
		t.Errorf("skill: %v", err)
	}
	if _, err := ParseContentType("prompt"); err == nil {
		t.Error("expected error for unknown content type")
	}
}
