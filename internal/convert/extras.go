package convert

import (
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
)

// ExtrasFrom returns a copy of fields with the named semantic keys
// removed. A field name lives in exactly one of {semantic, extras} per
// conversion pass; the per-agent ToIR pulls its semantic fields first and
// hands everything else here.
func ExtrasFrom(fields model.Fields, semanticKeys ...string) model.Fields {
	extras := fields.Clone()
	for _, key := range semanticKeys {
		delete(extras, key)
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}

// ApplyExtras projects the IR's extras bag into dst following the
// preserve-or-drop rules:
//
//   - a key tagged with the target's own prefix comes home: the prefix is
//     stripped and the original name restored;
//   - a key native to the target's vocabulary is written as is;
//   - any other key is foreign: with opts.RemoveUnsupported it is dropped
//     when it appears on the converter's foreign-field list or carries
//     another agent's prefix, otherwise it is preserved, gaining the
//     source agent's prefix if it does not already carry one.
//
// Dropped and prefixed fields are reported at debug level only; extras
// handling never fails.
func ApplyExtras(dst model.Fields, ir model.SemanticIR, target model.Agent, nativeKeys map[string]bool, foreignKeys map[string]bool, opts Options) {
	for _, key := range ir.Extras.SortedKeys() {
		val := ir.Extras[key]

		if plain, ok := UnprefixField(target, key); ok {
			dst[plain] = val
			continue
		}
		if nativeKeys[key] {
			dst[key] = val
			continue
		}

		_, _, prefixed := SplitPrefixed(key)
		if opts.RemoveUnsupported && (prefixed || foreignKeys[key]) {
			logging.Debug("dropping foreign field",
				logging.Agent(string(target)),
				logging.Field(key),
			)
			continue
		}
		if prefixed {
			dst[key] = val
			continue
		}

		origin := ir.Meta.SourceAgent
		if origin == "" || origin == target {
			dst[key] = val
			continue
		}
		tagged := PrefixField(origin, key)
		logging.Debug("preserving foreign field with prefix",
			logging.Agent(string(target)),
			logging.Field(tagged),
		)
		dst[tagged] = val
	}
}
