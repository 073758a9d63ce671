// Package importer turns a local directory into the flat path->content map a
// session is seeded from.
package importer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fakeyudi/studio/internal/vfs"
)

// ErrEmpty is returned when a folder contains no importable file.
var ErrEmpty = errors.New("no importable files")

// DefaultMaxFileSize bounds the size of a single imported file.
const DefaultMaxFileSize = 1 << 20

// alwaysSkipped directories are never descended into.
var alwaysSkipped = []string{".git", "node_modules", ".venv", "__pycache__"}

// Folder imports the text files under Root.
type Folder struct {
	Root           string
	IgnorePatterns []string
	MaxFileSize    int64 // 0 means DefaultMaxFileSize
}

// Result is the outcome of an import. Skipped files are reported as
// warnings rather than failing the whole import.
type Result struct {
	Files    vfs.Tree
	Warnings []string
}

// Import walks Root with an explicit stack, so arbitrarily deep trees do not
// grow the call stack. Paths in the result are slash-separated and relative
// to Root.
func (f *Folder) Import(ctx context.Context) (Result, error) {
	info, err := os.Stat(f.Root)
	if err != nil {
		return Result{}, fmt.Errorf("importing %s: %w", f.Root, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("importing %s: not a directory", f.Root)
	}

	patterns, err := f.loadIgnorePatterns()
	if err != nil {
		return Result{}, fmt.Errorf("reading ignore patterns: %w", err)
	}
	limit := f.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}

	res := Result{Files: vfs.Tree{}}
	stack := []string{""}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(filepath.Join(f.Root, filepath.FromSlash(rel)))
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping %s: %v", displayPath(rel), err))
			continue
		}
		// Push in reverse so directories are visited in name order.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			p := path.Join(rel, e.Name())
			if isIgnored(p, patterns) {
				continue
			}
			if e.IsDir() {
				if !slices.Contains(alwaysSkipped, e.Name()) {
					stack = append(stack, p)
				}
				continue
			}
			if !e.Type().IsRegular() {
				continue
			}
			content, warn := readText(filepath.Join(f.Root, filepath.FromSlash(p)), limit)
			if warn != "" {
				res.Warnings = append(res.Warnings, p+": "+warn)
				continue
			}
			res.Files.Put(p, content)
		}
	}

	if len(res.Files) == 0 {
		return res, ErrEmpty
	}
	return res, nil
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}

// readText returns the file content, or a reason to skip it.
func readText(p string, limit int64) (string, string) {
	info, err := os.Stat(p)
	if err != nil {
		return "", err.Error()
	}
	if info.Size() > limit {
		return "", fmt.Sprintf("larger than %d bytes", limit)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err.Error()
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", "binary file"
	}
	return string(data), ""
}

// isIgnored reports whether the slash-separated relative path matches any
// pattern, by base name or by full path. A trailing slash on a pattern is
// dropped, so "build/" ignores the build directory. Only a subset of
// gitignore syntax is understood: patterns follow path.Match, "**" has no
// special meaning and "!" negations are skipped when the files are read.
func isIgnored(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(strings.TrimSuffix(pattern, "/"), "/")
		if matched, _ := path.Match(pattern, base); matched {
			return true
		}
		if matched, _ := path.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// loadIgnorePatterns merges the configured patterns with those from
// .gitignore and .studioignore in Root.
func (f *Folder) loadIgnorePatterns() ([]string, error) {
	patterns := slices.Clone(f.IgnorePatterns)
	for _, name := range []string{".gitignore", ".studioignore"} {
		extra, err := readPatternFile(filepath.Join(f.Root, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return patterns, err
		}
		patterns = append(patterns, extra...)
	}
	return patterns, nil
}

// readPatternFile reads a gitignore-style file and returns non-empty,
// non-comment, non-negated lines.
func readPatternFile(p string) ([]string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
