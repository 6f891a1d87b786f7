// Package archive extracts gzip-compressed tarballs, as served by
// GitHub's codeload endpoint. Extraction strips the tarball's single
// top-level directory and refuses entries that would escape the
// destination.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxFileSize caps a single extracted file. Codeload tarballs of
// prompt repositories are small; anything larger is suspect.
const maxFileSize = 64 << 20

// ExtractTarball unpacks a tar.gz stream into destDir. The first path
// element of every entry (the repo-commit directory GitHub prepends)
// is stripped. Symlinks and other special entries are skipped.
func ExtractTarball(r io.Reader, destDir string) error {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		rel, ok := stripTopDir(header.Name)
		if !ok {
			continue
		}

		dest, err := secureJoin(destDir, rel)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o750); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dest, err)
			}
		case tar.TypeReg:
			if header.Size > maxFileSize {
				return fmt.Errorf("entry %s exceeds size limit", header.Name)
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(dest), err)
			}
			if err := writeEntry(dest, tarReader, header.Size); err != nil {
				return fmt.Errorf("failed to extract %s: %w", header.Name, err)
			}
		default:
			// symlinks, devices etc. are not extracted
		}
	}

	return nil
}

// stripTopDir removes the leading path element. Entries with no
// remainder (the top directory itself, pax headers) report ok=false.
func stripTopDir(name string) (string, bool) {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return "", false
	}
	rest := name[idx+1:]
	if rest == "" {
		return "", false
	}
	return rest, true
}

// secureJoin joins rel onto destDir and rejects traversal outside it.
func secureJoin(destDir, rel string) (string, error) {
	dest := filepath.Join(destDir, filepath.FromSlash(rel))
	cleanDest := filepath.Clean(dest)
	cleanRoot := filepath.Clean(destDir)
	if cleanDest != cleanRoot && !strings.HasPrefix(cleanDest, cleanRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("tar entry %q escapes destination directory", rel)
	}
	return cleanDest, nil
}

func writeEntry(dest string, r io.Reader, size int64) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.CopyN(out, r, size); err != nil && err != io.EOF {
		return err
	}
	return out.Close()
}
