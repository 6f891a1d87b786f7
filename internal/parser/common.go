package parser

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/promptsync/internal/model"
)

// ParseError is the typed failure for malformed input documents. It
// carries the offending path and the underlying cause; parse failures are
// never partially applied.
type ParseError struct {
	Path string
	Err  error
}

// Error returns the formatted parse error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ParseError) Unwrap() error { return e.Err }

// FrontmatterResult contains the parsed frontmatter and remaining content.
type FrontmatterResult struct {
	// Frontmatter contains the raw frontmatter bytes.
	Frontmatter []byte
	// Content contains the remaining content after frontmatter.
	Content string
	// HasFrontmatter indicates whether frontmatter was found.
	HasFrontmatter bool
}

// SplitFrontmatter extracts YAML frontmatter from content. Supports both
// --- and +++ delimiters and normalizes Windows line endings in the
// frontmatter block.
func SplitFrontmatter(content []byte) FrontmatterResult {
	if bytes.HasPrefix(content, []byte("---\n")) || bytes.HasPrefix(content, []byte("---\r\n")) {
		return extractFrontmatter(content, []byte("---"))
	}
	if bytes.HasPrefix(content, []byte("+++\n")) || bytes.HasPrefix(content, []byte("+++\r\n")) {
		return extractFrontmatter(content, []byte("+++"))
	}

	return FrontmatterResult{
		Frontmatter:    nil,
		Content:        string(content),
		HasFrontmatter: false,
	}
}

// extractFrontmatter extracts frontmatter between delimiters.
func extractFrontmatter(content []byte, delimiter []byte) FrontmatterResult {
	remaining := content[len(delimiter):]

	if bytes.HasPrefix(remaining, []byte("\r\n")) {
		remaining = remaining[2:]
	} else if bytes.HasPrefix(remaining, []byte("\n")) {
		remaining = remaining[1:]
	}

	var frontmatter []byte
	var bodyStart int
	delimFound := false

	if bytes.HasPrefix(remaining, delimiter) {
		// Empty frontmatter case: ---\n---\n
		frontmatter = []byte{}
		bodyStart = len(delimiter)
		delimFound = true
	} else {
		closingDelim := append([]byte("\n"), delimiter...)
		idx := bytes.Index(remaining, closingDelim)
		if idx != -1 {
			frontmatter = remaining[:idx]
			bodyStart = idx + len(closingDelim)
			delimFound = true
		} else {
			closingDelim = append([]byte("\r\n"), delimiter...)
			idx = bytes.Index(remaining, closingDelim)
			if idx != -1 {
				frontmatter = remaining[:idx]
				bodyStart = idx + len(closingDelim)
				delimFound = true
			}
		}
	}

	if !delimFound {
		// No closing delimiter, treat entire content as body.
		return FrontmatterResult{
			Frontmatter:    nil,
			Content:        string(content),
			HasFrontmatter: false,
		}
	}

	cleanFrontmatter := bytes.ReplaceAll(frontmatter, []byte("\r\n"), []byte("\n"))
	cleanFrontmatter = bytes.TrimRight(cleanFrontmatter, "\r")

	if bodyStart < len(remaining) {
		if bytes.HasPrefix(remaining[bodyStart:], []byte("\r\n")) {
			bodyStart += 2
		} else if bytes.HasPrefix(remaining[bodyStart:], []byte("\n")) {
			bodyStart++
		}
	}

	var body string
	if bodyStart < len(remaining) {
		body = string(remaining[bodyStart:])
	}

	return FrontmatterResult{
		Frontmatter:    cleanFrontmatter,
		Content:        body,
		HasFrontmatter: true,
	}
}

// ParseFrontmatterFields parses YAML frontmatter into typed Fields.
func ParseFrontmatterFields(frontmatter []byte) (model.Fields, error) {
	if len(frontmatter) == 0 {
		return make(model.Fields), nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(frontmatter, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	fields, err := model.FieldsFromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("unsupported frontmatter value: %w", err)
	}
	return fields, nil
}

// RenderFrontmatter renders fields as a --- delimited YAML block followed
// by the body. Keys are emitted in lexical order so rendering is
// deterministic. Empty fields render the body alone.
func RenderFrontmatter(fields model.Fields, bodyText string) ([]byte, error) {
	if len(fields) == 0 {
		return []byte(bodyText), nil
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	for _, key := range fields.SortedKeys() {
		line, err := yaml.Marshal(map[string]any{key: fields[key].Interface()})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", key, err)
		}
		sb.Write(line)
	}
	sb.WriteString("---\n\n")
	sb.WriteString(bodyText)

	return []byte(sb.String()), nil
}

// NormalizeContent trims surrounding whitespace and normalizes line
// endings to \n.
func NormalizeContent(content string) string {
	trimmed := strings.TrimSpace(content)
	return strings.ReplaceAll(trimmed, "\r\n", "\n")
}
