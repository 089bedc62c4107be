package fileops

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileContentEmptyPath(t *testing.T) {
	content := ReadFileContent("")
	assert.Contains(t, content, "No file was provided")
}

func TestReadFileContentMissingFile(t *testing.T) {
	content := ReadFileContent(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Contains(t, content, "Failed to read file:")
}

func TestReadFileContentPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	assert.Equal(t, "hello world", ReadFileContent(path))
}

func TestReadFileContentStripsFrontmatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	doc := "---\ntitle: Test\ntags: [a, b]\n---\n# Heading\n\nBody text.\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	content := ReadFileContent(path)
	assert.NotContains(t, content, "title: Test")
	assert.Contains(t, content, "# Heading")
}

func TestReadFileContentNoFrontmatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heading\n\nBody.\n"), 0644))

	assert.Equal(t, "# Heading\n\nBody.\n", ReadFileContent(path))
}

func TestReadFileContentLatin1Fallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.txt")
	// 0xE9 is 'é' in Latin-1 but invalid as standalone UTF-8.
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0644))

	content := ReadFileContent(path)
	assert.True(t, utf8.ValidString(content))
	assert.Equal(t, "café", content)
}

func TestStripFrontmatterOnlyLeading(t *testing.T) {
	content := "body\n---\nnot frontmatter\n---\n"
	assert.Equal(t, content, stripFrontmatter(content))
}
