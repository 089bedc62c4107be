package fileops

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFiles returns all paths matching searchPath. The pattern may contain
// `**` segments for recursive matching, which the standard library glob does
// not support. No ordering is guaranteed.
func FindFiles(searchPath string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(searchPath)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", searchPath, err)
	}
	return matches, nil
}

// SearchPath joins a directory with a recursive wildcard segment and a file
// pattern, e.g. ("/tmp/x", "*.md") -> "/tmp/x/**/*.md".
func SearchPath(directory, pattern string) string {
	return filepath.Join(directory, "**", pattern)
}

// AbsolutePaths resolves every path to absolute form. Paths that cannot be
// resolved are kept as-is rather than dropped.
func AbsolutePaths(paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			resolved = append(resolved, p)
			continue
		}
		resolved = append(resolved, abs)
	}
	return resolved
}
