package convert

import (
	"testing"

	"github.com/klauern/promptsync/internal/model"
)

func TestPrefixUnprefixInverse(t *testing.T) {
	keys := []string{"argument-hint", "allowed-tools", "a", "already-dashed-key"}
	for _, agent := range model.AllAgents() {
		for _, key := range keys {
			tagged := PrefixField(agent, key)
			got, ok := UnprefixField(agent, tagged)
			if !ok || got != key {
				t.Errorf("UnprefixField(%s, PrefixField(%s, %q)) = %q, %v", agent, agent, key, got, ok)
			}
		}
	}
}

func TestUnprefixField(t *testing.T) {
	tests := map[string]struct {
		agent  model.Agent
		key    string
		want   string
		wantOK bool
	}{
		"own prefix strips":        {agent: model.Claude, key: "claude-argument-hint", want: "argument-hint", wantOK: true},
		"other agent prefix stays": {agent: model.Gemini, key: "claude-argument-hint", want: "claude-argument-hint", wantOK: false},
		"no prefix":                {agent: model.Claude, key: "description", want: "description", wantOK: false},
		"bare prefix not stripped": {agent: model.Claude, key: "claude-", want: "claude-", wantOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := UnprefixField(tt.agent, tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("UnprefixField(%s, %q) = %q, %v; want %q, %v", tt.agent, tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSplitPrefixed(t *testing.T) {
	agent, key, ok := SplitPrefixed("opencode-subtask")
	if !ok || agent != model.OpenCode || key != "subtask" {
		t.Errorf("SplitPrefixed = %v, %q, %v", agent, key, ok)
	}
	if _, _, ok := SplitPrefixed("plainfield"); ok {
		t.Error("SplitPrefixed matched a bare key")
	}
}
