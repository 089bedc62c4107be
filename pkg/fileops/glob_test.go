package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSearchTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "c.md"), []byte("c"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d.txt"), []byte("d"), 0644))

	return dir
}

func TestSearchPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp/x", "**", "*.md"), SearchPath("/tmp/x", "*.md"))
}

func TestFindFilesRecursive(t *testing.T) {
	dir := createSearchTree(t)

	matches, err := FindFiles(SearchPath(dir, "*.md"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b", "c.md"),
	}, matches)
}

func TestFindFilesNoMatches(t *testing.T) {
	dir := t.TempDir()

	matches, err := FindFiles(SearchPath(dir, "*.md"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindFilesIdempotent(t *testing.T) {
	dir := createSearchTree(t)
	searchPath := SearchPath(dir, "*.md")

	first, err := FindFiles(searchPath)
	require.NoError(t, err)
	second, err := FindFiles(searchPath)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestFindFilesBadPattern(t *testing.T) {
	_, err := FindFiles("[")
	assert.Error(t, err)
}

func TestAbsolutePaths(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	resolved := AbsolutePaths([]string{"a.md", "/already/abs/b.md"})
	assert.Equal(t, []string{
		filepath.Join(wd, "a.md"),
		"/already/abs/b.md",
	}, resolved)
}

func TestAbsolutePathsEmpty(t *testing.T) {
	assert.Empty(t, AbsolutePaths(nil))
}
