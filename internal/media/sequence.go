package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ParseSequence reads a frame list: one image path per line, blank lines
// and lines starting with '#' ignored (the m3u layout). Relative entries are
// resolved against the list file's directory.
func ParseSequence(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSequenceExt(ext) {
		return nil, fmt.Errorf("unsupported frame list format %s", ext)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading frame list: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("frame list is not valid UTF-8")
	}

	baseDir := filepath.Dir(absPath)
	entries := make([]string, 0)
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, resolveEntryPath(line, baseDir))
	}
	return entries, nil
}

// FilterImagePaths keeps only existing, non-directory, decodable image files.
func FilterImagePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if !IsImageExt(filepath.Ext(p)) {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, p)
	}
	return out
}

func resolveEntryPath(raw, baseDir string) string {
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}
