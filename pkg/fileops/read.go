package fileops

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// noFileMessage is returned when a caller asks for an analysis without a path.
const noFileMessage = "No file was provided. Please specify a file_path in your request to analyze specific content."

// frontmatterPattern matches a leading YAML frontmatter block (--- ... ---).
var frontmatterPattern = regexp.MustCompile(`(?s)^---\s*.*?---\s*`)

// ReadFileContent reads a file for analysis. It never fails: problems are
// reported as human-readable placeholder strings so the caller can still feed
// something meaningful to the completion backend.
func ReadFileContent(path string) string {
	if path == "" {
		return noFileMessage
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Failed to read file: %v", err)
	}

	content := string(data)
	if !utf8.ValidString(content) {
		content = decodeLatin1(data)
	}

	return stripFrontmatter(content)
}

// decodeLatin1 widens each byte to its equivalent rune. Every byte sequence is
// valid Latin-1, so this is the same fallback the bridge has always used for
// non-UTF-8 files.
func decodeLatin1(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

// stripFrontmatter removes a leading YAML frontmatter block if present.
func stripFrontmatter(content string) string {
	return frontmatterPattern.ReplaceAllString(content, "")
}
