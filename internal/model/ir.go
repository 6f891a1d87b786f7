package model

import "github.com/klauern/promptsync/internal/body"

// Semantic holds the fixed set of fields that carry a single cross-agent
// meaning. Everything else a source document carries lands in the extras
// bag; a field name lives in exactly one of the two for a given pass.
type Semantic struct {
	// Description is the human-readable summary shared by every format
	// that has frontmatter.
	Description string
	// Name is the skill name. Commands derive their name from the file
	// name instead.
	Name string
	// ModelInvocation unifies Claude's inverted disable-model-invocation
	// and Codex's allow_implicit_invocation. Nil means the source never
	// stated a preference, and no target field is written.
	ModelInvocation *bool
	// From is the append-only provenance of origin repositories. Writers
	// must omit the field entirely when the sequence is empty.
	From []string
}

// SupportFileKind classifies a skill support file.
type SupportFileKind string

const (
	SupportText   SupportFileKind = "text"
	SupportBinary SupportFileKind = "binary"
	SupportConfig SupportFileKind = "config"
)

// SupportFile is a skill bundle member other than the primary
// instructions file. Binary files are never loaded during parse; Content
// stays empty and the file is copied byte for byte on write.
type SupportFile struct {
	RelPath string
	Kind    SupportFileKind
	Content string
}

// Meta carries conversion-only context. It is consulted to reconstruct
// paths and names but is never serialized into a target document.
type Meta struct {
	SourcePath   string
	SourceAgent  Agent
	SkillName    string
	SupportFiles []SupportFile
}

// SemanticIR is the neutral document every converter projects into and
// out of. Instances are transient: produced by a ToIR call and consumed
// immediately by one or more FromIR calls, never persisted.
type SemanticIR struct {
	ContentType ContentType
	Body        []body.Segment
	Semantic    Semantic
	Extras      Fields
	Meta        Meta
}

// BoolPtr returns a pointer to b, for the ModelInvocation field.
func BoolPtr(b bool) *bool { return &b }
