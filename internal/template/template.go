// Package template generates starter bodies for new commands and skills.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// Kind identifies a built-in template.
type Kind string

const (
	// Basic is a minimal single-prompt command body.
	Basic Kind = "basic"
	// Workflow orchestrates several numbered steps.
	Workflow Kind = "workflow"
	// Review wraps repository state into a review prompt.
	Review Kind = "review"
)

// Data holds the values substituted into a template.
type Data struct {
	Name        string
	Description string
	Agent       string
}

// Generator renders command and skill bodies from named templates.
type Generator struct {
	templates map[Kind]*template.Template
}

// New creates a generator with the built-in templates loaded.
func New() (*Generator, error) {
	g := &Generator{
		templates: make(map[Kind]*template.Template),
	}

	builtins := map[Kind]string{
		Basic:    basicTemplate,
		Workflow: workflowTemplate,
		Review:   reviewTemplate,
	}
	for kind, content := range builtins {
		tmpl, err := template.New(string(kind)).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", kind, err)
		}
		g.templates[kind] = tmpl
	}

	return g, nil
}

// LoadCustomTemplate registers a template from a file under the given name.
func (g *Generator) LoadCustomTemplate(name string, path string) error {
	content, err := os.ReadFile(path) // #nosec G304 - user-supplied template path
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	g.templates[Kind(name)] = tmpl
	return nil
}

// Generate renders the named template with the given data. The result is
// a markdown body using Claude-family placeholders; serializing for another
// agent translates them.
func (g *Generator) Generate(kind Kind, data Data) (string, error) {
	tmpl, exists := g.templates[kind]
	if !exists {
		return "", fmt.Errorf("template %s not found", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// ListTemplates returns the names of all registered templates.
func (g *Generator) ListTemplates() []string {
	names := make([]string, 0, len(g.templates))
	for kind := range g.templates {
		names = append(names, string(kind))
	}
	return names
}

// ParseKind parses a template kind string.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic", "command":
		return Basic, nil
	case "workflow":
		return Workflow, nil
	case "review":
		return Review, nil
	default:
		return "", errors.New("unknown template kind")
	}
}
