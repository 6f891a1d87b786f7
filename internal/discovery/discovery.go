// Package discovery finds, loads, and writes agent documents on disk.
// It walks agent directories (following symlinks with cycle detection),
// collects skill support files without loading binary content, and
// materializes converted documents including their bundles.
package discovery

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauern/promptsync/internal/convert"
	"github.com/klauern/promptsync/internal/logging"
	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/parser/codex"
	"github.com/klauern/promptsync/internal/registry"
)

// sniffLen is how many leading bytes are inspected to classify a
// support file as text or binary.
const sniffLen = 512

// Commands lists command files for an agent under dir, sorted by path.
// A missing directory is not an error; it yields an empty list.
func Commands(def registry.Definition, dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)
	}

	var files []string
	err := walkFollowSymlinks(dir, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(filepath.Base(path), def.CommandExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Skills lists skill roots for an agent under dir: directories holding
// the primary skill file, or individual rule files for single-file
// layouts. A missing directory yields an empty list.
func Skills(def registry.Definition, dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)
	}

	var roots []string
	err := walkFollowSymlinks(dir, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		switch def.SkillLayout {
		case registry.SkillSingleFile:
			if strings.HasSuffix(filepath.Base(path), def.SkillExtension) {
				roots = append(roots, path)
			}
		case registry.SkillDirectory:
			if filepath.Base(path) == def.SkillFile {
				roots = append(roots, filepath.Dir(path))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", dir, err)
	}

	sort.Strings(roots)
	return roots, nil
}

// LoadCommand reads and parses one command file.
func LoadCommand(def registry.Definition, path string) (convert.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read command %q: %w", path, err)
	}
	return def.ParseCommand(path, raw)
}

// LoadSkill reads a skill bundle rooted at root. For directory layouts
// it loads the primary file and collects the rest of the tree as
// support files; for single-file layouts root is the rule file itself.
func LoadSkill(def registry.Definition, root string) (convert.Document, error) {
	if def.SkillLayout == registry.SkillSingleFile {
		raw, err := os.ReadFile(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read skill %q: %w", root, err)
		}
		return def.ParseSkill(root, raw, nil)
	}

	primary := filepath.Join(root, def.SkillFile)
	raw, err := os.ReadFile(primary)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill %q: %w", primary, err)
	}

	support, err := collectSupport(root, def.SkillFile)
	if err != nil {
		return nil, err
	}
	return def.ParseSkill(root, raw, support)
}

// collectSupport walks a skill directory and classifies every file
// other than the primary one. Binary content is never loaded; the file
// is recorded by path and copied byte for byte on write.
func collectSupport(root, primaryName string) ([]model.SupportFile, error) {
	var support []model.SupportFile

	err := walkFollowSymlinks(root, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if rel == primaryName {
			return nil
		}

		kind, content, err := classifyFile(path, rel)
		if err != nil {
			return err
		}
		support = append(support, model.SupportFile{
			RelPath: filepath.ToSlash(rel),
			Kind:    kind,
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect support files under %q: %w", root, err)
	}

	sort.Slice(support, func(i, j int) bool { return support[i].RelPath < support[j].RelPath })
	return support, nil
}

// classifyFile decides a support file's kind and loads its content
// unless it is binary.
func classifyFile(path, rel string) (model.SupportFileKind, string, error) {
	if rel == codex.ConfigFile {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("failed to read config %q: %w", path, err)
		}
		return model.SupportConfig, string(raw), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	if bytes.IndexByte(head[:n], 0) >= 0 {
		return model.SupportBinary, "", nil
	}

	rest, err := io.ReadAll(f)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return model.SupportText, string(head[:n]) + string(rest), nil
}

// WriteCommand writes a command document under destDir and returns the
// written path.
func WriteCommand(def registry.Definition, doc convert.Document, destDir string) (string, error) {
	raw, err := def.Stringify(doc)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", destDir, err)
	}
	dest := filepath.Join(destDir, filepath.Base(doc.Path()))
	if err := os.WriteFile(dest, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", dest, err)
	}

	logging.Debug("wrote command",
		logging.Agent(string(doc.Agent())),
		logging.Path(dest),
	)
	return dest, nil
}

// WriteSkill writes a skill document under destDir and returns the
// primary file path. srcRoot is the source bundle root, used to copy
// binary support files byte for byte; it may be empty when the bundle
// carries no binaries.
func WriteSkill(def registry.Definition, doc convert.SkillDocument, destDir, srcRoot string) (string, error) {
	raw, err := def.Stringify(doc)
	if err != nil {
		return "", err
	}

	if def.SkillLayout == registry.SkillSingleFile {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", destDir, err)
		}
		dest := filepath.Join(destDir, filepath.Base(doc.Path()))
		if err := os.WriteFile(dest, raw, 0o644); err != nil {
			return "", fmt.Errorf("failed to write %q: %w", dest, err)
		}
		return dest, nil
	}

	skillDir := filepath.Join(destDir, filepath.Base(filepath.Dir(doc.Path())))
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", skillDir, err)
	}

	primary := filepath.Join(skillDir, def.SkillFile)
	if err := os.WriteFile(primary, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", primary, err)
	}

	if cs, ok := doc.(*codex.Skill); ok && cs.Config != nil {
		configRaw, err := cs.StringifyConfig()
		if err != nil {
			return "", err
		}
		configPath := filepath.Join(skillDir, codex.ConfigFile)
		if err := os.WriteFile(configPath, configRaw, 0o644); err != nil {
			return "", fmt.Errorf("failed to write %q: %w", configPath, err)
		}
	}

	for _, sf := range doc.Support() {
		dest := filepath.Join(skillDir, filepath.FromSlash(sf.RelPath))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", filepath.Dir(dest), err)
		}

		if sf.Kind == model.SupportBinary {
			if srcRoot == "" {
				logging.Warn("binary support file has no source, skipped",
					logging.Path(sf.RelPath),
				)
				continue
			}
			if err := copyFile(filepath.Join(srcRoot, filepath.FromSlash(sf.RelPath)), dest); err != nil {
				return "", err
			}
			continue
		}

		if err := os.WriteFile(dest, []byte(sf.Content), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %q: %w", dest, err)
		}
	}

	logging.Debug("wrote skill",
		logging.Agent(string(doc.Agent())),
		logging.Name(doc.Name()),
		logging.Path(primary),
		logging.Count(len(doc.Support())),
	)
	return primary, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %q: %w", src, err)
	}
	return out.Close()
}

// walkFollowSymlinks walks a directory tree, following symlinks to
// directories. Cycles are detected by tracking resolved paths.
func walkFollowSymlinks(root string, walkFn func(path string, info os.FileInfo) error) error {
	visited := make(map[string]bool)
	return walkFollowSymlinksImpl(root, visited, walkFn)
}

func walkFollowSymlinksImpl(path string, visited map[string]bool, walkFn func(path string, info os.FileInfo) error) error {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil // skip paths we can't resolve
	}
	if visited[realPath] {
		return nil
	}
	visited[realPath] = true

	info, err := os.Stat(path)
	if err != nil {
		return nil // skip paths we can't stat
	}

	if err := walkFn(path, info); err != nil {
		return err
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil // skip directories we can't read
		}
		for _, entry := range entries {
			if err := walkFollowSymlinksImpl(filepath.Join(path, entry.Name()), visited, walkFn); err != nil {
				return err
			}
		}
	}
	return nil
}
