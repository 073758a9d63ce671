package preview_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fakeyudi/studio/internal/preview"
	"github.com/fakeyudi/studio/internal/vfs"
)

const page = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Pong</title>
  <link rel="stylesheet" href="style.css">
  <link rel="stylesheet" href="https://cdn.example.com/reset.css">
  <link rel="stylesheet" href="missing.css">
</head>
<body>
  <canvas id="c"></canvas>
  <script type="module" defer src="./script.js"></script>
  <script src="vendor.js"></script>
  <script>console.log("inline")</script>
</body>
</html>`

func project() vfs.Tree {
	return vfs.FromContents(map[string]string{
		"index.html": page,
		"style.css":  "body { background: #111; }",
		"script.js":  "const a = 1 < 2 && 3 > 2;",
		"README.md":  "# readme",
	})
}

func TestCompileInlinesLocalAssets(t *testing.T) {
	doc := preview.Compile(project())

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>\n"))
	assert.Equal(t, 1, strings.Count(strings.ToLower(doc), "<!doctype"))
	assert.Contains(t, doc, "<style>body { background: #111; }</style>")
	assert.Contains(t, doc, `<script type="module" defer="">const a = 1 < 2 && 3 > 2;</script>`)
	assert.NotContains(t, doc, `href="style.css"`)
	assert.NotContains(t, doc, `src="./script.js"`)

	// Unresolvable references are left in place.
	assert.Contains(t, doc, `href="https://cdn.example.com/reset.css"`)
	assert.Contains(t, doc, `href="missing.css"`)
	assert.Contains(t, doc, `<script src="vendor.js"></script>`)
	assert.Contains(t, doc, `<script>console.log("inline")</script>`)
}

func TestCompileWithoutEntryFile(t *testing.T) {
	assert.Equal(t, preview.Placeholder, preview.Compile(vfs.FromContents(map[string]string{"app.py": "x"})))
}

func TestServerSubset(t *testing.T) {
	sub := preview.ServerSubset(project())
	assert.Equal(t, []string{"index.html", "script.js", "style.css"}, sub.List())
}

// Feature: studio, Property: compilation is deterministic and ignores unreferenced files
func TestCompileIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		files := project()
		files.Put("style.css", rapid.String().Draw(t, "css"))
		files.Put("script.js", rapid.StringMatching(`[a-z0-9 =;().]{0,40}`).Draw(t, "js"))

		first := preview.Compile(files)
		if second := preview.Compile(files.Clone()); first != second {
			t.Fatalf("compile not deterministic")
		}

		files.Put("README.md", rapid.String().Draw(t, "readme"))
		files.Put("notes/todo.txt", rapid.String().Draw(t, "todo"))
		if after := preview.Compile(files); after != first {
			t.Fatalf("unreferenced file changed the document")
		}
		if preview.Hash(first) != preview.Hash(preview.Compile(files)) {
			t.Fatalf("hash not stable")
		}
	})
}

func TestWatchFiresOnRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "files.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- preview.Watch(ctx, func() { changed <- struct{}{} }, target)
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	tmp := filepath.Join(dir, "files-123.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("{}"), 0o644))
	require.NoError(t, os.Rename(tmp, target))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification for renamed file")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchRequiresPath(t *testing.T) {
	require.Error(t, preview.Watch(context.Background(), func() {}))
}
