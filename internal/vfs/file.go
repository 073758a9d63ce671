// Package vfs holds the working set of project files. Files are plain values:
// copying a Tree copies every File, so no two trees ever share state.
package vfs

import (
	"path"
	"strings"
)

// File is a single project file. Language is derived from the path once, when
// the file is first created, and is never recomputed on overwrite.
type File struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

var languages = map[string]string{
	"js":   "javascript",
	"jsx":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"html": "html",
	"css":  "css",
	"json": "json",
	"md":   "markdown",
	"py":   "python",
	"java": "java",
	"c":    "cpp",
	"cpp":  "cpp",
	"cs":   "csharp",
	"go":   "go",
	"rb":   "ruby",
	"php":  "php",
	"sh":   "bash",
	"yml":  "yaml",
	"yaml": "yaml",
}

// LanguageFor maps a path's extension to a language tag, "plaintext" when unknown.
func LanguageFor(p string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if lang, ok := languages[ext]; ok {
		return lang
	}
	return "plaintext"
}

// NewFile builds a File with its language inferred from p.
func NewFile(p, content string) File {
	return File{Path: p, Content: content, Language: LanguageFor(p)}
}
