package body

import (
	"fmt"
	"regexp"
	"strconv"
)

// The Claude family spelling is shared by Claude, Codex, OpenCode,
// Copilot, Cursor, and Chimera: $ARGUMENTS, $1-$9, !`cmd`, @path.
// Gemini has its own: {{args}}, !{cmd}, @{path}, and no positional
// argument syntax at all.
var (
	claudeArgumentsRe = regexp.MustCompile(`\$ARGUMENTS`)
	claudeArgumentRe  = regexp.MustCompile(`\$[0-9]+`)
	claudeShellRe     = regexp.MustCompile("!`([^`]+)`")
	claudeFileRe      = regexp.MustCompile(`@([A-Za-z0-9_~.][A-Za-z0-9_./~-]*)`)

	geminiArgumentsRe = regexp.MustCompile(`\{\{args\}\}`)
	geminiShellRe     = regexp.MustCompile(`!\{([^}]*)\}`)
	geminiFileRe      = regexp.MustCompile(`@\{([^}]*)\}`)
)

// buildArgument accepts only indices 1-9. Anything else ($0, $12, ...)
// is rejected so the span stays literal text.
func buildArgument(groups []string) Placeholder {
	n, err := strconv.Atoi(groups[0][1:])
	if err != nil || n < 1 || n > 9 {
		return nil
	}
	return Argument{Index: n}
}

// ClaudeFamily returns the shared Claude-spelling table with full
// placeholder support. Callers that restrict support (Codex, Cursor,
// Copilot) wrap it with Restricted.
func ClaudeFamily() Table {
	return Table{
		Patterns: []Pattern{
			{Regexp: claudeArgumentsRe, Build: func([]string) Placeholder { return Arguments{} }},
			{Regexp: claudeArgumentRe, Build: buildArgument},
			{Regexp: claudeShellRe, Build: func(g []string) Placeholder { return ShellCommand{Command: g[1]} }},
			{Regexp: claudeFileRe, Build: func(g []string) Placeholder { return FileReference{Path: g[1]} }},
		},
		Serializer: claudeSerializer{},
	}
}

// GeminiFamily returns Gemini's table. Gemini has no positional argument
// syntax; it neither parses $N (the raw text passes through as a literal)
// nor generates it except as the best-effort fallback.
func GeminiFamily() Table {
	return Table{
		Patterns: []Pattern{
			{Regexp: geminiArgumentsRe, Build: func([]string) Placeholder { return Arguments{} }},
			{Regexp: geminiShellRe, Build: func(g []string) Placeholder { return ShellCommand{Command: g[1]} }},
			{Regexp: geminiFileRe, Build: func(g []string) Placeholder { return FileReference{Path: g[1]} }},
		},
		Serializer: geminiSerializer{},
		Unsupported: map[Tag]bool{
			TagArgument: true,
		},
	}
}

// Restricted returns a copy of t with additional unsupported variants.
// Parsing and serialization are unchanged; the extra tags only cause
// diagnostics on serialize.
func Restricted(t Table, tags ...Tag) Table {
	unsupported := make(map[Tag]bool, len(t.Unsupported)+len(tags))
	for tag := range t.Unsupported {
		unsupported[tag] = true
	}
	for _, tag := range tags {
		unsupported[tag] = true
	}
	t.Unsupported = unsupported
	return t
}

// claudeSerializer renders the shared Claude-family spelling.
type claudeSerializer struct{}

func (claudeSerializer) VisitArguments(Arguments) string { return "$ARGUMENTS" }

func (claudeSerializer) VisitArgument(p Argument) string {
	return "$" + strconv.Itoa(p.Index)
}

func (claudeSerializer) VisitShellCommand(p ShellCommand) string {
	return fmt.Sprintf("!`%s`", p.Command)
}

func (claudeSerializer) VisitFileReference(p FileReference) string {
	return "@" + p.Path
}

// geminiSerializer renders Gemini's spelling. Positional arguments have
// no Gemini form; the $N passthrough is the best-effort rendering.
type geminiSerializer struct{}

func (geminiSerializer) VisitArguments(Arguments) string { return "{{args}}" }

func (geminiSerializer) VisitArgument(p Argument) string {
	return "$" + strconv.Itoa(p.Index)
}

func (geminiSerializer) VisitShellCommand(p ShellCommand) string {
	return fmt.Sprintf("!{%s}", p.Command)
}

func (geminiSerializer) VisitFileReference(p FileReference) string {
	return fmt.Sprintf("@{%s}", p.Path)
}
