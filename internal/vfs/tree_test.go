package vfs_test

import (
	"errors"
	"sort"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/studio/internal/vfs"
)

func TestLanguageFor(t *testing.T) {
	cases := map[string]string{
		"index.html":      "html",
		"src/App.tsx":     "typescript",
		"lib/util.jsx":    "javascript",
		"style.CSS":       "css",
		"main.c":          "cpp",
		"Program.cs":      "csharp",
		"deploy.yml":      "yaml",
		"run.sh":          "bash",
		"README":          "plaintext",
		"archive.tar.gz":  "plaintext",
		"dist/script.js":  "javascript",
		"notes/README.md": "markdown",
		"x.xml":           "plaintext",
		"a.csproj":        "plaintext",
	}
	for p, want := range cases {
		if got := vfs.LanguageFor(p); got != want {
			t.Errorf("LanguageFor(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestPutKeepsLanguageOnOverwrite(t *testing.T) {
	tree := vfs.Tree{}
	tree.PutFile(vfs.File{Path: "notes.txt", Content: "a", Language: "markdown"})
	tree.Put("notes.txt", "b")

	f, err := tree.Get("notes.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.Content != "b" {
		t.Errorf("content: got %q, want %q", f.Content, "b")
	}
	if f.Language != "markdown" {
		t.Errorf("language changed on overwrite: got %q", f.Language)
	}
}

func TestGetMissing(t *testing.T) {
	_, err := vfs.Tree{}.Get("nope.js")
	if !errors.Is(err, vfs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Feature: studio, Property: List is sorted and Clone never aliases
func TestListSortedAndCloneIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		contents := rapid.MapOf(
			rapid.StringMatching(`[a-z]{1,8}\.(js|css|html|py|txt)`),
			rapid.String(),
		).Draw(t, "contents")
		tree := vfs.FromContents(contents)

		paths := tree.List()
		if !sort.StringsAreSorted(paths) {
			t.Fatalf("List not sorted: %v", paths)
		}
		if len(paths) != len(contents) {
			t.Fatalf("List length: got %d, want %d", len(paths), len(contents))
		}

		clone := tree.Clone()
		for _, p := range paths {
			clone.Put(p, "changed:"+p)
		}
		for p, c := range contents {
			if tree[p].Content != c {
				t.Fatalf("original mutated through clone at %q", p)
			}
		}
	})
}
