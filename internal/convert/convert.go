// Package convert provides the conversion contract shared by every
// per-agent converter: the native document interface, conversion options,
// the reversible foreign-field prefix transform, and the extras
// projection rules. Conversion is total over well-formed documents; it
// never fails for an unsupported feature, it degrades with a diagnostic.
package convert

import "github.com/klauern/promptsync/internal/model"

// Document is a parsed native artifact for one agent and content type,
// ready to be projected into the IR or serialized back to disk.
type Document interface {
	// Agent reports the format this document belongs to.
	Agent() model.Agent
	// ContentType reports whether this is a command or a skill.
	ContentType() model.ContentType
	// Path is the file path (commands) or primary-file path (skills).
	Path() string
}

// SkillDocument is a skill-shaped Document: it has a name and may carry
// a bundle of support files alongside its primary file.
type SkillDocument interface {
	Document
	// Name is the skill name after frontmatter/directory fallback.
	Name() string
	// Support lists the bundle members other than the primary file.
	// Single-file skill formats return nil.
	Support() []model.SupportFile
}

// Options configures FromIR behavior.
type Options struct {
	// RemoveUnsupported drops extras fields on the converter's
	// foreign-field list instead of carrying them with an agent prefix.
	RemoveUnsupported bool
	// DestinationType selects which per-target extras block a Chimera
	// merge replaces. Ignored by every other converter. Empty means the
	// IR's source agent.
	DestinationType model.Agent
	// ExistingTargets carries an existing Chimera document's per-target
	// extras blocks so a merge can preserve sibling blocks. Ignored by
	// every other converter.
	ExistingTargets map[model.Agent]model.Fields
}
