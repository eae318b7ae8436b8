package ignore

import (
	"bytes"
	"path"
	"path/filepath"
	"strings"
)

// normalizePath cleans an absolute OS path and converts it to forward slashes.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// withSlash returns dir with exactly one trailing slash.
func withSlash(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// isWithin reports whether p equals dir or lies beneath it.
func isWithin(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, withSlash(dir))
}

// parentOf returns the parent of a forward-slash path.
func parentOf(p string) string {
	return path.Dir(p)
}

// normalizeContent strips UTF-8 BOMs and converts CRLF and CR line endings to LF.
func normalizeContent(content []byte) []byte {
	for bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		content = content[3:]
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
}

// trimTrailingWhitespace removes trailing spaces and tabs.
// A backslash-escaped trailing space is kept (without the backslash).
func trimTrailingWhitespace(line string) string {
	end := len(line)
	for end > 0 && (line[end-1] == ' ' || line[end-1] == '\t') {
		end--
	}
	if end == len(line) {
		return line
	}

	bs := 0
	for i := end - 1; i >= 0 && line[i] == '\\'; i-- {
		bs++
	}
	if bs%2 == 1 && line[end] == ' ' {
		return line[:end-1] + " "
	}
	return line[:end]
}
