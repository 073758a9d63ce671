package vcs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fakeyudi/studio/internal/vcs"
	"github.com/fakeyudi/studio/internal/vfs"
)

func TestDiffReportsAddedAndModified(t *testing.T) {
	committed := vfs.FromContents(map[string]string{"a.js": "1", "b.css": "2"})
	working := committed.Clone()
	working.Put("a.js", "changed")
	working.Put("c.html", "<p>")

	assert.Equal(t, []string{"a.js", "c.html"}, vcs.Diff(working, committed))
}

func TestCommitDoesNotAlias(t *testing.T) {
	working := vfs.FromContents(map[string]string{"a.js": "1"})
	committed := vcs.Commit(working)
	working.Put("a.js", "2")

	assert.Equal(t, "1", committed["a.js"].Content)
	assert.False(t, vcs.Clean(working, committed))
}

func TestDiscardRestoresCommitted(t *testing.T) {
	committed := vfs.FromContents(map[string]string{"a.js": "original"})
	working := committed.Clone()
	working.Put("a.js", "edited")

	next, restored := vcs.Discard(working, committed, "a.js")
	require.True(t, restored)
	assert.Equal(t, committed["a.js"], next["a.js"])
	assert.Equal(t, "edited", working["a.js"].Content, "input tree must not be mutated")
}

// An uncommitted new file survives a discard; there is no delete.
func TestDiscardUncommittedIsNoop(t *testing.T) {
	committed := vfs.Tree{}
	working := vfs.FromContents(map[string]string{"new.js": "x"})

	next, restored := vcs.Discard(working, committed, "new.js")
	assert.False(t, restored)
	assert.Equal(t, working, next)
}

func TestCommitIDStable(t *testing.T) {
	tree := vfs.FromContents(map[string]string{"a.js": "1", "b.js": "2"})
	id := vcs.CommitID(tree, "init")
	assert.Len(t, id, 7)
	assert.Equal(t, id, vcs.CommitID(tree.Clone(), "init"))
	assert.NotEqual(t, id, vcs.CommitID(tree, "other"))
}

func TestFileDiff(t *testing.T) {
	committed := vfs.FromContents(map[string]string{"a.txt": "one\ntwo\n"})
	working := committed.Clone()
	working.Put("a.txt", "one\nthree\n")

	out := vcs.FileDiff(working, committed, "a.txt")
	assert.Contains(t, out, "-two")
	assert.Contains(t, out, "+three")
	assert.Contains(t, out, " one")
	assert.Empty(t, vcs.FileDiff(committed, committed, "a.txt"))

	added := vcs.FileDiff(vfs.FromContents(map[string]string{"n.txt": "hi\n"}), vfs.Tree{}, "n.txt")
	assert.True(t, strings.Contains(added, "+hi"))
}

// Feature: studio, Property: committing yields a clean tree
func TestCommitThenClean(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		working := vfs.FromContents(rapid.MapOf(
			rapid.StringMatching(`[a-z]{1,6}\.txt`), rapid.String(),
		).Draw(t, "working"))
		committed := vfs.FromContents(rapid.MapOf(
			rapid.StringMatching(`[a-z]{1,6}\.txt`), rapid.String(),
		).Draw(t, "committed"))

		if !vcs.Clean(working, vcs.Commit(working)) {
			t.Fatalf("tree not clean after commit")
		}
		for _, p := range vcs.Diff(working, committed) {
			c, ok := committed[p]
			if ok && c.Content == working[p].Content {
				t.Fatalf("%q reported changed but content equal", p)
			}
		}
	})
}
