package vfs

import (
	"errors"
	"sort"

	"github.com/samber/lo"
)

// ErrNotFound is returned by Get when a path is not in the tree.
var ErrNotFound = errors.New("no such file or directory")

// Tree maps a path to its File. There is intentionally no delete: files can
// only be created or overwritten.
type Tree map[string]File

// FromContents builds a Tree from a flat path->content map, inferring languages.
func FromContents(contents map[string]string) Tree {
	t := make(Tree, len(contents))
	for p, c := range contents {
		t[p] = NewFile(p, c)
	}
	return t
}

// Get returns the file at p or ErrNotFound.
func (t Tree) Get(p string) (File, error) {
	f, ok := t[p]
	if !ok {
		return File{}, ErrNotFound
	}
	return f, nil
}

// Has reports whether p exists.
func (t Tree) Has(p string) bool {
	_, ok := t[p]
	return ok
}

// Put creates p with an inferred language, or overwrites the content of an
// existing file keeping its language.
func (t Tree) Put(p, content string) {
	if f, ok := t[p]; ok {
		f.Content = content
		t[p] = f
		return
	}
	t[p] = NewFile(p, content)
}

// PutFile is Put with an explicit language for newly created files.
func (t Tree) PutFile(f File) {
	if existing, ok := t[f.Path]; ok {
		existing.Content = f.Content
		t[f.Path] = existing
		return
	}
	if f.Language == "" {
		f.Language = LanguageFor(f.Path)
	}
	t[f.Path] = f
}

// List returns all paths in lexicographic order.
func (t Tree) List() []string {
	paths := lo.Keys(t)
	sort.Strings(paths)
	return paths
}

// Clone returns an independent copy of t. A nil tree clones to an empty one.
func (t Tree) Clone() Tree {
	c := make(Tree, len(t))
	for p, f := range t {
		c[p] = f
	}
	return c
}

// Subset returns a copy of t restricted to the given paths that exist.
func (t Tree) Subset(paths ...string) Tree {
	s := make(Tree)
	for _, p := range paths {
		if f, ok := t[p]; ok {
			s[p] = f
		}
	}
	return s
}

// Contents flattens t back to path->content.
func (t Tree) Contents() map[string]string {
	out := make(map[string]string, len(t))
	for p, f := range t {
		out[p] = f.Content
	}
	return out
}
