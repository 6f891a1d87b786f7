package convert

import (
	"strings"

	"github.com/klauern/promptsync/internal/model"
)

// PrefixField tags a field name with its originating agent so a later
// conversion back to that agent can recover the original name exactly.
// UnprefixField is its inverse: UnprefixField(a, PrefixField(a, k)) == k.
func PrefixField(origin model.Agent, key string) string {
	return string(origin) + "-" + key
}

// UnprefixField strips origin's tag from key, reporting whether the tag
// was present. The remainder must be non-empty for the strip to apply.
func UnprefixField(origin model.Agent, key string) (string, bool) {
	prefix := string(origin) + "-"
	rest, found := strings.CutPrefix(key, prefix)
	if !found || rest == "" {
		return key, false
	}
	return rest, true
}

// SplitPrefixed reports whether key carries any known agent's tag,
// returning the agent and the bare field name.
func SplitPrefixed(key string) (model.Agent, string, bool) {
	for _, a := range model.AllAgents() {
		if rest, ok := UnprefixField(a, key); ok {
			return a, rest, true
		}
	}
	return "", key, false
}
