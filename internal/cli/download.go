package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/promptsync/internal/cache"
	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/discovery"
	"github.com/klauern/promptsync/internal/github"
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/registry"
	"github.com/klauern/promptsync/internal/ui"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Install commands and skills from a GitHub repository",
		UsageText: `promptsync download owner/repo --agent claude
   promptsync download owner/repo@v1.2.0 --agent gemini
   promptsync download https://github.com/owner/repo --agent opencode --from claude`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "agent",
				Aliases:  []string{"a"},
				Usage:    "Agent to install the documents for",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "from",
				Value: "claude",
				Usage: "Format the repository's documents are written in",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Override the agent's base directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return errors.New("a repository is required (owner/repo or owner/repo@ref)")
			}
			return runDownload(ctx, cmd, cmd.Args().Get(0))
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Re-fetch every downloaded repository an agent's documents came from",
		UsageText: `promptsync update --agent claude
   promptsync update --agent gemini --from claude`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "agent",
				Aliases:  []string{"a"},
				Usage:    "Agent whose documents to update",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "from",
				Value: "claude",
				Usage: "Format the repositories' documents are written in",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Override the agent's base directory",
			},
		},
		Action: runUpdate,
	}
}

func runDownload(ctx context.Context, cmd *cli.Command, spec string) error {
	repo, ref, err := github.ParseRepoSpec(spec)
	if err != nil {
		return err
	}

	destDef, destBase, srcDef, err := downloadTarget(cmd)
	if err != nil {
		return err
	}

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	installed, err := installFromRepo(ctx, client, repo, ref, srcDef, destDef, destBase)
	if err != nil {
		return err
	}
	if installed == 0 {
		fmt.Println(ui.StatusSkipped(fmt.Sprintf("no %s documents found in %s", srcDef.DisplayName, repo)))
		return nil
	}

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("installed %d document(s) from %s", installed, repo)))
	return nil
}

func runUpdate(ctx context.Context, cmd *cli.Command) error {
	destDef, destBase, srcDef, err := downloadTarget(cmd)
	if err != nil {
		return err
	}

	repos, err := provenanceRepos(destDef, destBase)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		fmt.Println(ui.StatusSkipped("no documents with a repository provenance"))
		return nil
	}

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	var failed int
	for _, spec := range repos {
		repo, ref, err := github.ParseRepoSpec(spec)
		if err != nil {
			logging.Warn("skipping malformed provenance entry", logging.Err(err))
			continue
		}
		installed, err := installFromRepo(ctx, client, repo, ref, srcDef, destDef, destBase)
		if err != nil {
			failed++
			fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", repo, err)))
			continue
		}
		fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s: %d document(s)", repo, installed)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d repositories failed to update", failed, len(repos))
	}
	return nil
}

func downloadTarget(cmd *cli.Command) (registry.Definition, string, registry.Definition, error) {
	agent, err := model.ParseAgent(cmd.String("agent"))
	if err != nil {
		return registry.Definition{}, "", registry.Definition{}, err
	}
	destDef, err := registry.Lookup(agent)
	if err != nil {
		return registry.Definition{}, "", registry.Definition{}, err
	}

	fromStr := cmd.String("from")
	if !cmd.IsSet("from") && appConfig.Download.DefaultFrom != "" {
		fromStr = appConfig.Download.DefaultFrom
	}
	source, err := model.ParseAgent(fromStr)
	if err != nil {
		return registry.Definition{}, "", registry.Definition{}, fmt.Errorf("invalid --from: %w", err)
	}
	srcDef, err := registry.Lookup(source)
	if err != nil {
		return registry.Definition{}, "", registry.Definition{}, err
	}

	base := cmd.String("dir")
	if base == "" {
		base = appConfig.BaseDir(agent)
	}
	return destDef, base, srcDef, nil
}

func newGitHubClient() (*github.Client, error) {
	if !appConfig.Cache.Enabled {
		return github.NewClient(nil), nil
	}
	repoCache, err := cache.New(appConfig.Cache.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository cache: %w", err)
	}
	return github.NewClient(repoCache), nil
}

// installFromRepo fetches a repository tarball and converts every source
// document it contains into the destination agent's directories, stamping
// each one with the repository's provenance.
func installFromRepo(ctx context.Context, client *github.Client, repo, ref string, srcDef, destDef registry.Definition, destBase string) (int, error) {
	tmpDir, err := os.MkdirTemp("", "promptsync-download-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logging.Warn("failed to remove staging directory", logging.Path(tmpDir), logging.Err(err))
		}
	}()

	if err := client.Download(ctx, repo, ref, tmpDir); err != nil {
		return 0, err
	}

	provenance := github.Provenance(repo, ref)
	opts := convert.Options{}
	if destDef.Agent == model.Chimera {
		opts.DestinationType = srcDef.Agent
	}

	installed := 0

	commands, err := discoverEither(srcDef, tmpDir, srcDef.CommandsSubdir, discovery.Commands)
	if err != nil {
		return installed, err
	}
	for _, path := range commands {
		doc, err := discovery.LoadCommand(srcDef, path)
		if err != nil {
			return installed, err
		}
		ir, err := srcDef.ToIR(doc)
		if err != nil {
			return installed, err
		}
		ir.Semantic.From = github.AppendProvenance(ir.Semantic.From, provenance)
		out, err := destDef.CommandFromIR(ir, opts)
		if err != nil {
			return installed, err
		}
		if _, err := discovery.WriteCommand(destDef, out, filepath.Join(destBase, destDef.CommandsSubdir)); err != nil {
			return installed, err
		}
		installed++
	}

	skills, err := discoverEither(srcDef, tmpDir, srcDef.SkillsSubdir, discovery.Skills)
	if err != nil {
		return installed, err
	}
	for _, path := range skills {
		doc, err := discovery.LoadSkill(srcDef, path)
		if err != nil {
			return installed, err
		}
		ir, err := srcDef.ToIR(doc)
		if err != nil {
			return installed, err
		}
		ir.Semantic.From = github.AppendProvenance(ir.Semantic.From, provenance)
		out, err := destDef.SkillFromIR(ir, opts)
		if err != nil {
			return installed, err
		}
		skillDoc, ok := out.(convert.SkillDocument)
		if !ok {
			return installed, fmt.Errorf("%s converter produced a non-skill document", destDef.Agent)
		}
		srcRoot := path
		if srcDef.SkillLayout == registry.SkillSingleFile {
			srcRoot = ""
		}
		if _, err := discovery.WriteSkill(destDef, skillDoc, filepath.Join(destBase, destDef.SkillsSubdir), srcRoot); err != nil {
			return installed, err
		}
		installed++
	}

	return installed, nil
}

// discoverEither looks for documents under the agent's conventional
// subdirectory first and falls back to the repository root, since prompt
// repositories often keep everything top-level.
func discoverEither(def registry.Definition, root, subdir string, find func(registry.Definition, string) ([]string, error)) ([]string, error) {
	paths, err := find(def, filepath.Join(root, subdir))
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		return paths, nil
	}
	return find(def, root)
}

// provenanceRepos scans an agent's documents and returns the unique set
// of github.com provenance entries, in stable order.
func provenanceRepos(def registry.Definition, baseDir string) ([]string, error) {
	seen := make(map[string]bool)

	collect := func(ir model.SemanticIR) {
		for _, entry := range ir.Semantic.From {
			if strings.HasPrefix(entry, "github.com/") {
				seen[strings.TrimPrefix(entry, "github.com/")] = true
			}
		}
	}

	commands, err := discovery.Commands(def, filepath.Join(baseDir, def.CommandsSubdir))
	if err != nil {
		return nil, err
	}
	for _, path := range commands {
		doc, err := discovery.LoadCommand(def, path)
		if err != nil {
			logging.Warn("skipping unreadable command", logging.Path(path), logging.Err(err))
			continue
		}
		ir, err := def.ToIR(doc)
		if err != nil {
			continue
		}
		collect(ir)
	}

	skills, err := discovery.Skills(def, filepath.Join(baseDir, def.SkillsSubdir))
	if err != nil {
		return nil, err
	}
	for _, path := range skills {
		doc, err := discovery.LoadSkill(def, path)
		if err != nil {
			logging.Warn("skipping unreadable skill", logging.Path(path), logging.Err(err))
			continue
		}
		ir, err := def.ToIR(doc)
		if err != nil {
			continue
		}
		collect(ir)
	}

	repos := make([]string, 0, len(seen))
	for repo := range seen {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	return repos, nil
}
