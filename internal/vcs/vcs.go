// Package vcs compares the working tree against the last committed snapshot.
//
// A file that disappeared from the working tree cannot be represented: the
// tree has no delete, so Diff only ever reports added or modified paths.
package vcs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/fakeyudi/studio/internal/vfs"
)

// Diff returns the sorted paths that are absent from committed or whose
// content differs from it.
func Diff(working, committed vfs.Tree) []string {
	var changed []string
	for p, f := range working {
		c, ok := committed[p]
		if !ok || c.Content != f.Content {
			changed = append(changed, p)
		}
	}
	sort.Strings(changed)
	return changed
}

// Clean reports whether working has no changes relative to committed.
func Clean(working, committed vfs.Tree) bool {
	return len(Diff(working, committed)) == 0
}

// Commit returns the new committed snapshot: a deep copy of working.
func Commit(working vfs.Tree) vfs.Tree {
	return working.Clone()
}

// Discard restores path from committed into a copy of working. When committed
// has no such path the working copy is returned unchanged and restored is
// false; an uncommitted new file is never removed.
func Discard(working, committed vfs.Tree, path string) (next vfs.Tree, restored bool) {
	next = working.Clone()
	c, ok := committed[path]
	if !ok {
		return next, false
	}
	next[path] = c
	return next, true
}

// CommitID derives a short, stable commit identifier from the committed
// content and message.
func CommitID(tree vfs.Tree, message string) string {
	var sb strings.Builder
	for _, p := range tree.List() {
		sb.WriteString(p)
		sb.WriteByte(0)
		sb.WriteString(tree[p].Content)
		sb.WriteByte(0)
	}
	sb.WriteString(message)
	return fmt.Sprintf("%016x", xxh3.HashString(sb.String()))[:7]
}
