package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/registry"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}

// EnvVar returns the environment variable that overrides an agent's
// base directory, e.g. PROMPTSYNC_CLAUDE_PATH.
func EnvVar(agent model.Agent) string {
	return "PROMPTSYNC_" + strings.ToUpper(string(agent)) + "_PATH"
}

// BaseDir returns the base directory holding an agent's commands and
// skills. The PROMPTSYNC_<AGENT>_PATH environment variable overrides
// the default. Copilot is project-local; everything else is user-level.
func BaseDir(agent model.Agent) string {
	if override := os.Getenv(EnvVar(agent)); override != "" {
		return ExpandPath(override)
	}

	switch agent {
	case model.Claude:
		return filepath.Join(HomeDir(), ".claude")
	case model.Gemini:
		return filepath.Join(HomeDir(), ".gemini")
	case model.Codex:
		return filepath.Join(HomeDir(), ".codex")
	case model.OpenCode:
		return filepath.Join(HomeDir(), ".config", "opencode")
	case model.Cursor:
		return filepath.Join(HomeDir(), ".cursor")
	case model.Copilot:
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Join(".", ".github")
		}
		return filepath.Join(cwd, ".github")
	case model.Chimera:
		return filepath.Join(HomeDir(), ".chimera")
	}
	return ""
}

// CommandsDir returns the directory holding an agent's command files.
func CommandsDir(def registry.Definition) string {
	return filepath.Join(BaseDir(def.Agent), def.CommandsSubdir)
}

// SkillsDir returns the directory holding an agent's skills.
func SkillsDir(def registry.Definition) string {
	return filepath.Join(BaseDir(def.Agent), def.SkillsSubdir)
}

// ConfigDir returns the directory holding promptsync's own configuration.
// PROMPTSYNC_CONFIG_DIR overrides the default.
func ConfigDir() string {
	if override := os.Getenv("PROMPTSYNC_CONFIG_DIR"); override != "" {
		return ExpandPath(override)
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "promptsync")
	}
	return filepath.Join(HomeDir(), ".config", "promptsync")
}

// CacheDir returns the directory for promptsync's download cache.
// PROMPTSYNC_CACHE_DIR overrides the default.
func CacheDir() string {
	if override := os.Getenv("PROMPTSYNC_CACHE_DIR"); override != "" {
		return ExpandPath(override)
	}
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "promptsync")
	}
	return filepath.Join(HomeDir(), ".cache", "promptsync")
}
