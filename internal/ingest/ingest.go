// Package ingest discovers and stages claim documents for processing.
package ingest

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// supportedExts are the document types the pipeline accepts.
var supportedExts = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".txt":  true,
}

// Supported reports whether the file extension is a processable type.
func Supported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// ListInputs resolves an input path into an ordered list of processable
// files. A file path yields itself (whatever its extension — the caller
// asked for it explicitly); a directory yields its supported files sorted
// by name. A missing path is an error so the CLI can exit non-zero.
func ListInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: input path %s", path)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read dir %s", path)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(path, entry.Name())
		if Supported(full) {
			files = append(files, full)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Stage copies a document into the staging directory and returns the
// staged path. The original file is left untouched.
func Stage(path, stagingDir string) (string, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "ingest: create staging dir %s", stagingDir)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: open %s", path)
	}
	defer src.Close()

	staged := filepath.Join(stagingDir, filepath.Base(path))
	dst, err := os.Create(staged)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: create %s", staged)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", eris.Wrapf(err, "ingest: copy %s", path)
	}
	return staged, nil
}
