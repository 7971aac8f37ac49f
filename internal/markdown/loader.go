package markdown

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ErrDocumentNotFound is returned when the upward walk reaches the
// filesystem root without finding a candidate document.
var ErrDocumentNotFound = errors.New("markdown: document not found")

// Locator discovers the runbook document for an invocation. Starting at a
// directory it walks upward, trying <program>.md, .<program>.md, and
// README.md (case-insensitive, in that order) in every directory on the way
// to the filesystem root. The filesystem is abstracted behind fs.FS so tests
// can run against in-memory trees.
type Locator struct {
	fsys    fs.FS
	program string
}

// NewLocator builds a locator for the given filesystem and program name. The
// program name is reduced to its base without extension, matching the name
// callers would use for "<program>.md".
func NewLocator(fsys fs.FS, program string) *Locator {
	base := path.Base(strings.ReplaceAll(program, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return &Locator{fsys: fsys, program: base}
}

// Discover returns the slash-separated path of the first matching document
// at or above startDir. startDir is relative to the locator's filesystem
// root ("." for the root itself).
func (l *Locator) Discover(startDir string) (string, error) {
	dir := path.Clean(startDir)
	if dir == "" {
		dir = "."
	}

	candidates := []string{
		l.program + ".md",
		"." + l.program + ".md",
		"README.md",
	}

	for {
		entries, err := fs.ReadDir(l.fsys, dir)
		if err != nil {
			return "", fmt.Errorf("markdown locator read %s: %w", dir, err)
		}

		for _, want := range candidates {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if strings.EqualFold(entry.Name(), want) {
					return path.Join(dir, entry.Name()), nil
				}
			}
		}

		parent := path.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: %s.md, .%s.md, or README.md", ErrDocumentNotFound, l.program, l.program)
}
