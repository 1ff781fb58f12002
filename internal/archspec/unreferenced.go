package archspec

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archtest-go/conform/internal/domain"
)

// UnreferencedFiles walks root looking for `.rs` files the module tree
// never visited: files matching one of excludePatterns (doublestar glob,
// `target/**` style) are skipped, everything else is compared against
// every node's FilePath. This is a diagnostic, not a spec invariant — a
// crate can legitimately contain generated or build-script-only sources
// the module tree never reaches.
func UnreferencedFiles(root string, tree *domain.ModuleTree, excludePatterns []string) ([]string, error) {
	visited := make(map[string]struct{}, tree.Len())
	for i := 0; i < tree.Len(); i++ {
		abs, err := filepath.Abs(tree.Node(i).FilePath)
		if err != nil {
			return nil, err
		}
		visited[abs] = struct{}{}
	}

	var unreferenced []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".rs") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matchesAny(excludePatterns, rel) {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if _, ok := visited[abs]; !ok {
			unreferenced = append(unreferenced, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unreferenced, nil
}

// matchesAny reports whether rel matches any of patterns, either as a full
// path glob or, for a pattern with no path separator, against rel's
// basename, following the teacher's matchPattern fallback.
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, rel); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, filepath.Base(rel)); err == nil && matched {
				return true
			}
		}
	}
	return false
}
