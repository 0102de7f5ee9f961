// Package discover expands mapper arguments into the list of Python source
// files to analyze.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/silice-dev/silice/internal/fileutil"
)

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"node_modules":  {},
	"venv":          {},
	".venv":         {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
}

// Files expands each argument: a file is kept when it has a Python extension,
// a directory is walked recursively with cache and VCS directories skipped
// and the directory's .gitignore honored. Output is deduplicated and sorted.
func Files(paths []string) ([]string, error) {
	results := make([]string, 0)

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %q: %w", p, err)
		}

		if !info.IsDir() {
			if isPythonFile(p) {
				results = append(results, filepath.Clean(p))
			}
			continue
		}

		found, err := walkDirectory(p)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}

	results = fileutil.DedupeStrings(results)
	sort.Strings(results)
	return results, nil
}

func walkDirectory(root string) ([]string, error) {
	gi := loadGitignore(root)

	var results []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isPythonFile(path) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		results = append(results, filepath.Clean(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return results, nil
}

func isPythonFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
