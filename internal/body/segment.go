// Package body tokenizes prompt bodies into literal text runs and typed
// placeholders, and serializes them back into an agent family's native
// spelling.
package body

// Tag identifies a placeholder variant. Tags are used for unsupported-set
// membership and for diagnostics; rendering goes through Visitor.
type Tag string

const (
	// TagArguments is the "all arguments" marker.
	TagArguments Tag = "arguments"
	// TagArgument is a positional argument reference (1-9).
	TagArgument Tag = "individual-argument"
	// TagShellCommand is an embedded shell command.
	TagShellCommand Tag = "shell-command"
	// TagFileReference is an embedded file path.
	TagFileReference Tag = "file-reference"
)

// Segment is one piece of a tokenized body: either a Text run or a
// Placeholder. Concatenating the rendered segments reproduces the body.
type Segment interface {
	isSegment()
}

// Text is a literal run of body text. Never empty in engine output.
type Text string

func (Text) isSegment() {}

// Placeholder is a typed non-literal token inside a body. The variant set
// is closed: Arguments, Argument, ShellCommand, FileReference. Each
// variant routes its own rendering through Visitor, so a serializer
// cannot silently miss a variant.
type Placeholder interface {
	Segment
	// Tag reports the variant for diagnostics and unsupported checks.
	Tag() Tag

	accept(v Visitor) string
}

// Visitor renders each placeholder variant in one agent family's native
// (or best-effort) spelling. Adding a placeholder variant adds a method
// here, which breaks every serializer at compile time until it handles
// the new variant. That is deliberate: a missed case would be silent
// data loss in one agent's output.
type Visitor interface {
	VisitArguments(p Arguments) string
	VisitArgument(p Argument) string
	VisitShellCommand(p ShellCommand) string
	VisitFileReference(p FileReference) string
}

// Arguments marks the "all arguments" interpolation point.
type Arguments struct{}

func (Arguments) isSegment() {}

// Tag implements Placeholder.
func (Arguments) Tag() Tag { return TagArguments }

func (p Arguments) accept(v Visitor) string { return v.VisitArguments(p) }

// Argument references a single positional argument. Index is 1-9; the
// parse patterns never produce anything outside that range.
type Argument struct {
	Index int
}

func (Argument) isSegment() {}

// Tag implements Placeholder.
func (Argument) Tag() Tag { return TagArgument }

func (p Argument) accept(v Visitor) string { return v.VisitArgument(p) }

// ShellCommand embeds a shell command whose output is spliced into the
// prompt by the agent at run time. Command is the literal command text.
type ShellCommand struct {
	Command string
}

func (ShellCommand) isSegment() {}

// Tag implements Placeholder.
func (ShellCommand) Tag() Tag { return TagShellCommand }

func (p ShellCommand) accept(v Visitor) string { return v.VisitShellCommand(p) }

// FileReference embeds a file whose contents are spliced into the prompt
// by the agent at run time. Path is the literal path text.
type FileReference struct {
	Path string
}

func (FileReference) isSegment() {}

// Tag implements Placeholder.
func (FileReference) Tag() Tag { return TagFileReference }

func (p FileReference) accept(v Visitor) string { return v.VisitFileReference(p) }
