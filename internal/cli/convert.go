package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/discovery"
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/progress"
	"github.com/klauern/promptsync/internal/registry"
	"github.com/klauern/promptsync/internal/ui"
	"github.com/klauern/promptsync/internal/ui/tui"
)

const defaultConvertWorkers = 4

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert commands and skills from one agent to another",
		UsageText: `promptsync convert --from claude --to gemini
   promptsync convert --from gemini --to opencode --type command
   promptsync convert --from claude --to chimera --remove-unsupported`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "Source agent (claude, gemini, codex, opencode, cursor, copilot, chimera)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Target agent",
			},
			&cli.StringFlag{
				Name:  "type",
				Value: "all",
				Usage: "What to convert: command, skill, or all",
			},
			&cli.StringFlag{
				Name:  "source-dir",
				Usage: "Override the source agent's base directory",
			},
			&cli.StringFlag{
				Name:  "dest-dir",
				Usage: "Override the target agent's base directory",
			},
			&cli.BoolFlag{
				Name:  "remove-unsupported",
				Usage: "Drop fields the target agent does not understand instead of tagging them",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would be converted without writing files",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: defaultConvertWorkers,
				Usage: "Number of concurrent conversion workers",
			},
		},
		Action: runConvert,
	}
}

// conversionJob is a single document to convert. Skills carry their
// directory root so binary support files can be copied across.
type conversionJob struct {
	contentType model.ContentType
	srcPath     string
}

type conversionResult struct {
	job      conversionJob
	destPath string
	err      error
}

func runConvert(ctx context.Context, cmd *cli.Command) error {
	source, target, err := resolveAgents(cmd)
	if err != nil {
		return err
	}
	if source == target {
		return fmt.Errorf("source and target agent are both %q", source)
	}

	srcDef, err := registry.Lookup(source)
	if err != nil {
		return err
	}
	destDef, err := registry.Lookup(target)
	if err != nil {
		return err
	}

	srcBase := cmd.String("source-dir")
	if srcBase == "" {
		srcBase = appConfig.BaseDir(source)
	}
	destBase := cmd.String("dest-dir")
	if destBase == "" {
		destBase = appConfig.BaseDir(target)
	}

	jobs, err := gatherJobs(srcDef, srcBase, cmd.String("type"))
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println(ui.StatusSkipped(fmt.Sprintf("nothing to convert in %s", srcBase)))
		return nil
	}

	if cmd.Bool("dry-run") {
		fmt.Printf("Would convert %d document(s) from %s to %s:\n", len(jobs), srcDef.DisplayName, destDef.DisplayName)
		for _, job := range jobs {
			fmt.Printf("  %s %s\n", job.contentType, job.srcPath)
		}
		return nil
	}

	opts := convert.Options{
		RemoveUnsupported: cmd.Bool("remove-unsupported") || appConfig.Convert.RemoveUnsupported,
	}
	if target == model.Chimera {
		opts.DestinationType = source
	}

	workers := int(cmd.Int("workers"))
	if !cmd.IsSet("workers") && appConfig.Convert.Workers > 0 {
		workers = appConfig.Convert.Workers
	}

	results := convertAll(ctx, srcDef, destDef, destBase, jobs, opts, workers)

	var failed int
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", res.job.srcPath, res.err)))
			continue
		}
		fmt.Println(ui.Converted(res.job.srcPath, res.destPath))
	}

	fmt.Printf("\n%s\n", ui.Summary(len(results)-failed, failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(results))
	}
	return nil
}

// resolveAgents reads --from/--to, falling back to the interactive picker
// when both are omitted on a terminal.
func resolveAgents(cmd *cli.Command) (model.Agent, model.Agent, error) {
	fromStr := cmd.String("from")
	toStr := cmd.String("to")

	if fromStr == "" && toStr == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return "", "", errors.New("--from and --to are required when not running interactively")
		}
		result, err := tui.RunAgentPicker()
		if err != nil {
			return "", "", fmt.Errorf("agent picker failed: %w", err)
		}
		if result.Action != tui.AgentPickerActionSelect {
			return "", "", errors.New("no agents selected")
		}
		return result.Source, result.Target, nil
	}

	source, err := model.ParseAgent(fromStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid --from: %w", err)
	}
	target, err := model.ParseAgent(toStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid --to: %w", err)
	}
	return source, target, nil
}

// gatherJobs discovers source documents of the requested type.
func gatherJobs(def registry.Definition, baseDir, typeFlag string) ([]conversionJob, error) {
	wantCommands := typeFlag == "all" || typeFlag == "command"
	wantSkills := typeFlag == "all" || typeFlag == "skill"
	if !wantCommands && !wantSkills {
		return nil, fmt.Errorf("invalid --type %q (expected command, skill, or all)", typeFlag)
	}

	var jobs []conversionJob

	if wantCommands {
		paths, err := discovery.Commands(def, filepath.Join(baseDir, def.CommandsSubdir))
		if err != nil {
			return nil, fmt.Errorf("failed to discover commands: %w", err)
		}
		for _, p := range paths {
			jobs = append(jobs, conversionJob{contentType: model.ContentCommand, srcPath: p})
		}
	}

	if wantSkills {
		paths, err := discovery.Skills(def, filepath.Join(baseDir, def.SkillsSubdir))
		if err != nil {
			return nil, fmt.Errorf("failed to discover skills: %w", err)
		}
		for _, p := range paths {
			jobs = append(jobs, conversionJob{contentType: model.ContentSkill, srcPath: p})
		}
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].srcPath < jobs[j].srcPath })
	return jobs, nil
}

// convertAll fans jobs out to a bounded worker pool. The conversion core
// is pure, so workers only contend on the results slice.
func convertAll(ctx context.Context, srcDef, destDef registry.Definition, destBase string, jobs []conversionJob, opts convert.Options, workers int) []conversionResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	bar := progress.Simple(int64(len(jobs)), fmt.Sprintf("Converting %s -> %s", srcDef.DisplayName, destDef.DisplayName))
	defer func() {
		if err := bar.Finish(); err != nil {
			logging.Debug("failed to finish progress bar", logging.Err(err))
		}
	}()

	jobCh := make(chan conversionJob)
	results := make([]conversionResult, 0, len(jobs))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				destPath, err := convertOne(srcDef, destDef, destBase, job, opts)
				mu.Lock()
				results = append(results, conversionResult{job: job, destPath: destPath, err: err})
				mu.Unlock()
				if err := bar.Add(1); err != nil {
					logging.Debug("failed to advance progress bar", logging.Err(err))
				}
			}
		}()
	}

	for _, job := range jobs {
		select {
		case jobCh <- job:
		case <-ctx.Done():
		}
	}
	close(jobCh)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].job.srcPath < results[j].job.srcPath })
	return results
}

// convertOne runs a single document through parse -> IR -> serialize -> write.
func convertOne(srcDef, destDef registry.Definition, destBase string, job conversionJob, opts convert.Options) (string, error) {
	logging.Debug("converting document",
		slog.String("path", job.srcPath),
		logging.Agent(string(destDef.Agent)))

	switch job.contentType {
	case model.ContentCommand:
		doc, err := discovery.LoadCommand(srcDef, job.srcPath)
		if err != nil {
			return "", err
		}
		ir, err := srcDef.ToIR(doc)
		if err != nil {
			return "", err
		}
		if destDef.Agent == model.Chimera {
			mergeExistingTargets(destDef, filepath.Join(destBase, destDef.CommandsSubdir), doc, &opts)
		}
		out, err := destDef.CommandFromIR(ir, opts)
		if err != nil {
			return "", err
		}
		return discovery.WriteCommand(destDef, out, filepath.Join(destBase, destDef.CommandsSubdir))

	case model.ContentSkill:
		doc, err := discovery.LoadSkill(srcDef, job.srcPath)
		if err != nil {
			return "", err
		}
		ir, err := srcDef.ToIR(doc)
		if err != nil {
			return "", err
		}
		out, err := destDef.SkillFromIR(ir, opts)
		if err != nil {
			return "", err
		}
		skillDoc, ok := out.(convert.SkillDocument)
		if !ok {
			return "", fmt.Errorf("%s converter produced a non-skill document", destDef.Agent)
		}
		srcRoot := job.srcPath
		if srcDef.SkillLayout == registry.SkillSingleFile {
			srcRoot = ""
		}
		return discovery.WriteSkill(destDef, skillDoc, filepath.Join(destBase, destDef.SkillsSubdir), srcRoot)

	default:
		return "", fmt.Errorf("unknown content type %q", job.contentType)
	}
}

// mergeExistingTargets loads an already-converted Chimera document at the
// destination, if any, so its sibling agent blocks survive the rewrite.
func mergeExistingTargets(destDef registry.Definition, destDir string, srcDoc convert.Document, opts *convert.Options) {
	name := convert.BaseName(srcDoc.Path()) + destDef.CommandExtension
	existing, err := discovery.LoadCommand(destDef, filepath.Join(destDir, name))
	if err != nil {
		return
	}
	carrier, ok := existing.(interface {
		Targets() map[model.Agent]model.Fields
	})
	if !ok {
		return
	}
	opts.ExistingTargets = carrier.Targets()
}
