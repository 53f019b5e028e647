package selector

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joescharf/reviewgate/internal/git"
	"github.com/joescharf/reviewgate/internal/models"
	"github.com/joescharf/reviewgate/internal/output"
)

// DefaultExtensions are the file families reviewed out of the box.
var DefaultExtensions = []string{".py", ".ts", ".mjs"}

// Selector picks the staged and new files eligible for review.
type Selector struct {
	git  git.Client
	exts map[string]bool
	ui   *output.UI
}

// New creates a Selector. An empty extension list falls back to the defaults.
func New(gc git.Client, extensions []string, ui *output.UI) *Selector {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return &Selector{git: gc, exts: exts, ui: ui}
}

// Supported reports whether a path's extension is in the allowlist.
func (s *Selector) Supported(path string) bool {
	return s.exts[strings.ToLower(filepath.Ext(path))]
}

// Select returns the union of staged and untracked files that match the
// allowlist and are readable, in lexical path order. An empty result means
// nothing to review and is not an error. Files that cannot be read are
// excluded with a warning rather than aborting the run.
func (s *Selector) Select(repoRoot string) ([]models.ReviewableFile, error) {
	staged, err := s.git.StagedFiles(repoRoot)
	if err != nil {
		return nil, err
	}
	untracked, err := s.git.UntrackedFiles(repoRoot)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string
	for _, p := range append(staged, untracked...) {
		if seen[p] || !s.Supported(p) {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var files []models.ReviewableFile
	for _, p := range paths {
		f, err := s.Load(repoRoot, p)
		if err != nil {
			s.ui.Warning("skipping %s: %v", p, err)
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// Load snapshots a single file relative to the repo root.
func (s *Selector) Load(repoRoot, path string) (models.ReviewableFile, error) {
	full := filepath.Join(repoRoot, path)
	info, err := os.Stat(full)
	if err != nil {
		return models.ReviewableFile{}, err
	}
	if !info.Mode().IsRegular() {
		return models.ReviewableFile{}, &os.PathError{Op: "read", Path: full, Err: os.ErrInvalid}
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return models.ReviewableFile{}, err
	}
	return models.ReviewableFile{
		Path:      path,
		Extension: strings.ToLower(filepath.Ext(path)),
		Content:   string(content),
	}, nil
}
