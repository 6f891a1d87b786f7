package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/discovery"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/registry"
	"github.com/klauern/promptsync/internal/security"
	"github.com/klauern/promptsync/internal/ui"
	"github.com/klauern/promptsync/internal/validation"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check an agent's commands and skills for problems",
		UsageText: `promptsync validate --agent claude
   promptsync validate --agent opencode --dir ./fixtures`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "agent",
				Usage:    "Agent whose documents to validate",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Override the agent's base directory",
			},
			&cli.BoolFlag{
				Name:  "no-secret-scan",
				Usage: "Skip scanning document content for leaked credentials",
			},
		},
		Action: runValidate,
	}
}

func runValidate(_ context.Context, cmd *cli.Command) error {
	agent, err := model.ParseAgent(cmd.String("agent"))
	if err != nil {
		return err
	}
	def, err := registry.Lookup(agent)
	if err != nil {
		return err
	}

	base := cmd.String("dir")
	if base == "" {
		base = appConfig.BaseDir(agent)
	}

	scanSecrets := !cmd.Bool("no-secret-scan")
	detector := security.NewDetectorDefault()

	check := func(doc convert.Document) *validation.Result {
		result := validation.Document(doc)
		if scanSecrets {
			scan := detector.ScanDocument(doc)
			for _, err := range scan.Errors {
				result.AddError(err)
			}
			for _, warning := range scan.Warnings {
				result.AddWarning(warning)
			}
		}
		return result
	}

	var results []*validation.Result

	commands, err := discovery.Commands(def, filepath.Join(base, def.CommandsSubdir))
	if err != nil {
		return fmt.Errorf("failed to discover commands: %w", err)
	}
	for _, path := range commands {
		doc, err := discovery.LoadCommand(def, path)
		if err != nil {
			r := &validation.Result{Path: path}
			r.AddError(err)
			results = append(results, r)
			continue
		}
		results = append(results, check(doc))
	}

	skills, err := discovery.Skills(def, filepath.Join(base, def.SkillsSubdir))
	if err != nil {
		return fmt.Errorf("failed to discover skills: %w", err)
	}
	for _, path := range skills {
		doc, err := discovery.LoadSkill(def, path)
		if err != nil {
			r := &validation.Result{Path: path}
			r.AddError(err)
			results = append(results, r)
			continue
		}
		results = append(results, check(doc))
	}

	if len(results) == 0 {
		fmt.Println(ui.StatusSkipped(fmt.Sprintf("no documents found for %s in %s", def.DisplayName, base)))
		return nil
	}

	var failed int
	for _, r := range results {
		line := validation.Describe(r)
		switch {
		case r.HasErrors():
			failed++
			fmt.Println(ui.StatusError(line))
		case len(r.Warnings) > 0:
			fmt.Println(ui.StatusWarning(line))
		default:
			fmt.Println(ui.StatusSuccess(line))
		}
	}

	fmt.Printf("\n%d checked, %d with errors\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed validation", failed)
	}
	return nil
}
