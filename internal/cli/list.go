package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/promptsync/internal/discovery"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/registry"
	"github.com/klauern/promptsync/internal/ui"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the commands and skills installed for each agent",
		UsageText: `promptsync list
   promptsync list --agent claude
   promptsync list --agent gemini --type skill`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "agent",
				Usage: "Only list a single agent",
			},
			&cli.StringFlag{
				Name:  "type",
				Value: "all",
				Usage: "What to list: command, skill, or all",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Override the agent's base directory (requires --agent)",
			},
		},
		Action: runList,
	}
}

func runList(_ context.Context, cmd *cli.Command) error {
	typeFlag := cmd.String("type")
	if typeFlag != "all" && typeFlag != "command" && typeFlag != "skill" {
		return fmt.Errorf("invalid --type %q (expected command, skill, or all)", typeFlag)
	}

	defs := registry.All()
	if agentStr := cmd.String("agent"); agentStr != "" {
		agent, err := model.ParseAgent(agentStr)
		if err != nil {
			return err
		}
		def, err := registry.Lookup(agent)
		if err != nil {
			return err
		}
		defs = []registry.Definition{def}
	} else if cmd.String("dir") != "" {
		return fmt.Errorf("--dir requires --agent")
	}

	for _, def := range defs {
		base := cmd.String("dir")
		if base == "" {
			base = appConfig.BaseDir(def.Agent)
		}
		if err := listAgent(def, base, typeFlag); err != nil {
			return err
		}
	}
	return nil
}

func listAgent(def registry.Definition, baseDir, typeFlag string) error {
	fmt.Printf("%s (%s)\n", ui.Header(def.DisplayName), ui.Dim(baseDir))

	total := 0
	if typeFlag == "all" || typeFlag == "command" {
		paths, err := discovery.Commands(def, filepath.Join(baseDir, def.CommandsSubdir))
		if err != nil {
			return fmt.Errorf("failed to list %s commands: %w", def.Agent, err)
		}
		for _, p := range paths {
			fmt.Printf("  command  %s\n", filepath.Base(p))
		}
		total += len(paths)
	}
	if typeFlag == "all" || typeFlag == "skill" {
		paths, err := discovery.Skills(def, filepath.Join(baseDir, def.SkillsSubdir))
		if err != nil {
			return fmt.Errorf("failed to list %s skills: %w", def.Agent, err)
		}
		for _, p := range paths {
			fmt.Printf("  skill    %s\n", filepath.Base(p))
		}
		total += len(paths)
	}

	if total == 0 {
		fmt.Printf("  %s\n", ui.Dim("(none)"))
	}
	fmt.Println()
	return nil
}
