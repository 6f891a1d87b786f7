// Package validation provides advisory structural checks for agent
// documents. A document is valid when its required fields are present:
// non-empty content, and for skills a non-empty name. Failures are
// reported as field-level errors, never thrown; conversion does not
// consult validation before proceeding.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/parser/chimera"
	"github.com/klauern/promptsync/internal/parser/claude"
	"github.com/klauern/promptsync/internal/parser/codex"
	"github.com/klauern/promptsync/internal/parser/copilot"
	"github.com/klauern/promptsync/internal/parser/cursor"
	"github.com/klauern/promptsync/internal/parser/gemini"
	"github.com/klauern/promptsync/internal/parser/opencode"
)

// Error represents a validation failure with field context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of validating one document.
type Result struct {
	// Path identifies the document that was checked
	Path string
	// Valid indicates whether all checks passed
	Valid bool
	// Warnings contains non-fatal issues
	Warnings []string
	// Errors contains field-level failures
	Errors []error
}

// AddError adds an error to the result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns the combined validation error, or nil.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return Errors(r.Errors)
}

// Document checks one parsed document and returns an advisory result.
func Document(doc convert.Document) *Result {
	result := &Result{Path: doc.Path(), Valid: true}

	content := documentContent(doc)
	if strings.TrimSpace(content) == "" {
		result.AddError(&Error{Field: "content", Message: "content must not be empty"})
	}

	if skill, ok := doc.(convert.SkillDocument); ok {
		validateSkillName(skill.Name(), result)
	}

	return result
}

func validateSkillName(name string, result *Result) {
	if name == "" {
		result.AddError(&Error{Field: "name", Message: "skill name must not be empty"})
		return
	}
	if strings.TrimSpace(name) != name {
		result.AddError(&Error{
			Field:   "name",
			Message: fmt.Sprintf("skill name has leading or trailing whitespace: %q", name),
		})
		return
	}
	for _, r := range name {
		if !isValidNameChar(r) {
			result.AddWarning(fmt.Sprintf("skill name contains unusual character %q: %q", r, name))
			return
		}
	}
}

func isValidNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}

// documentContent extracts the body of any known document type. Unknown
// types validate as empty.
func documentContent(doc convert.Document) string {
	switch d := doc.(type) {
	case *claude.Command:
		return d.Content
	case *claude.Skill:
		return d.Content
	case *gemini.Command:
		return d.Prompt
	case *gemini.Skill:
		return d.Content
	case *codex.Command:
		return d.Content
	case *codex.Skill:
		return d.Content
	case *opencode.Command:
		return d.Content
	case *opencode.Skill:
		return d.Content
	case *cursor.Command:
		return d.Content
	case *cursor.Skill:
		return d.Content
	case *copilot.Command:
		return d.Content
	case *copilot.Skill:
		return d.Content
	case *chimera.Command:
		return d.Content
	case *chimera.Skill:
		return d.Content
	}
	return ""
}

// Content returns the primary prompt text of a parsed document.
func Content(doc convert.Document) string {
	return documentContent(doc)
}

// Describe renders a one-line summary for a result, for report output.
func Describe(r *Result) string {
	if r.Valid && len(r.Warnings) == 0 {
		return fmt.Sprintf("%s: ok", r.Path)
	}
	var parts []string
	for _, err := range r.Errors {
		parts = append(parts, err.Error())
	}
	parts = append(parts, r.Warnings...)
	return fmt.Sprintf("%s: %s", r.Path, strings.Join(parts, "; "))
}
