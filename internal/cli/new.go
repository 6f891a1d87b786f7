package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/promptsync/internal/body"
	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/discovery"
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/registry"
	"github.com/klauern/promptsync/internal/template"
	"github.com/klauern/promptsync/internal/ui"
	"github.com/klauern/promptsync/internal/validation"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Scaffold a new command or skill for an agent",
		UsageText: `promptsync new <name> --agent claude
   promptsync new review-pr --agent gemini --template review
   promptsync new pdf-tools --agent claude --type skill`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "agent",
				Aliases:  []string{"a"},
				Usage:    "Agent to create the document for",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "type",
				Value: "command",
				Usage: "What to create: command or skill",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Value:   "basic",
				Usage:   "Template to start from (basic, workflow, review)",
			},
			&cli.StringFlag{
				Name:  "template-file",
				Usage: "Path to a custom template file",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "One-line description of what the prompt does",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Override the agent's base directory",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the generated document instead of writing it",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return errors.New("a name is required")
			}
			return runNew(cmd, cmd.Args().Get(0))
		},
	}
}

func runNew(cmd *cli.Command, name string) error {
	logging.Debug("scaffolding document", slog.String("name", name))

	agent, err := model.ParseAgent(cmd.String("agent"))
	if err != nil {
		return err
	}
	def, err := registry.Lookup(agent)
	if err != nil {
		return err
	}

	contentType, err := model.ParseContentType(cmd.String("type"))
	if err != nil {
		return err
	}

	description := cmd.String("description")
	if description == "" {
		description = fmt.Sprintf("The %s %s", name, contentType)
	}

	content, err := renderTemplate(cmd, name, description, agent)
	if err != nil {
		return err
	}

	ir := model.SemanticIR{
		ContentType: contentType,
		Body:        body.Tokenize(content, body.ClaudeFamily()),
		Semantic: model.Semantic{
			Name:        name,
			Description: description,
		},
	}

	var doc convert.Document
	if contentType == model.ContentSkill {
		ir.Meta.SkillName = name
		ir.Meta.SourcePath = filepath.Join(name, def.SkillFile)
		doc, err = def.SkillFromIR(ir, convert.Options{})
	} else {
		ir.Meta.SourcePath = name + def.CommandExtension
		doc, err = def.CommandFromIR(ir, convert.Options{})
	}
	if err != nil {
		return fmt.Errorf("failed to build %s document: %w", agent, err)
	}

	if result := validation.Document(doc); result.HasErrors() {
		return fmt.Errorf("generated document is invalid: %w", result.Err())
	}

	if cmd.Bool("dry-run") {
		raw, err := def.Stringify(doc)
		if err != nil {
			return err
		}
		fmt.Print(string(raw))
		return nil
	}

	base := cmd.String("dir")
	if base == "" {
		base = appConfig.BaseDir(agent)
	}

	var written string
	if contentType == model.ContentSkill {
		skillDoc, ok := doc.(convert.SkillDocument)
		if !ok {
			return fmt.Errorf("%s converter produced a non-skill document", agent)
		}
		written, err = discovery.WriteSkill(def, skillDoc, filepath.Join(base, def.SkillsSubdir), "")
	} else {
		written, err = discovery.WriteCommand(def, doc, filepath.Join(base, def.CommandsSubdir))
	}
	if err != nil {
		return err
	}

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("created %s", written)))
	return nil
}

func renderTemplate(cmd *cli.Command, name, description string, agent model.Agent) (string, error) {
	gen, err := template.New()
	if err != nil {
		return "", err
	}

	kind := template.Kind(cmd.String("template"))
	if path := cmd.String("template-file"); path != "" {
		kind = template.Kind("custom")
		if err := gen.LoadCustomTemplate(string(kind), path); err != nil {
			return "", err
		}
	} else {
		kind, err = template.ParseKind(cmd.String("template"))
		if err != nil {
			return "", fmt.Errorf("invalid --template %q: %w", cmd.String("template"), err)
		}
	}

	return gen.Generate(kind, template.Data{
		Name:        name,
		Description: description,
		Agent:       string(agent),
	})
}
