package convert

import (
	"path/filepath"
	"strings"
)

// compoundExtensions are multi-part extensions that must be replaced as a
// unit; filepath.Ext alone would only strip the final part.
var compoundExtensions = []string{".prompt.md"}

// StripExtension removes path's extension, including compound ones such
// as Copilot's .prompt.md.
func StripExtension(path string) string {
	for _, ext := range compoundExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// ForceExtension replaces path's extension with ext (which may itself be
// compound). The extension is replaced, never appended.
func ForceExtension(path, ext string) string {
	return StripExtension(path) + ext
}

// BaseName returns the file name without any extension, used to derive
// command names from paths.
func BaseName(path string) string {
	return filepath.Base(StripExtension(path))
}
