package export_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fakeyudi/studio/internal/export"
	"github.com/fakeyudi/studio/internal/vfs"
)

var names = []string{"index.html", "style.css", "script.js", "app.py", "src/main.ts", "docs/README.md"}

// generateProject produces a Project with at least one file. Contents may
// contain backtick runs to exercise fencing.
func generateProject(t *rapid.T) *export.Project {
	files := vfs.Tree{}
	n := rapid.IntRange(1, len(names)).Draw(t, "num_files")
	for _, name := range rapid.Permutation(names).Draw(t, "names")[:n] {
		files.Put(name, rapid.OneOf(rapid.String(), rapid.Just("```\ncode\n```")).Draw(t, name))
	}
	committed := files.Clone()
	if rapid.Bool().Draw(t, "dirty") {
		committed = vfs.Tree{}
	}
	var packages []string
	if rapid.Bool().Draw(t, "has_packages") {
		packages = []string{"flask"}
	}
	sec := rapid.Int64Range(1_000_000_000, 1_700_000_000).Draw(t, "unix_sec")
	return export.NewProject(
		rapid.StringMatching(`[a-z][a-z0-9-]{0,15}`).Draw(t, "name"),
		"session-1",
		files, committed, packages,
		time.Unix(sec, 0),
	)
}

// Feature: studio, Property: export round-trip
func TestBundleRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "markdown"} {
		t.Run(format, func(t *testing.T) {
			renderer, ext, err := export.RendererFor(format)
			require.NoError(t, err)
			parser, err := export.ParserFor("bundle" + ext)
			require.NoError(t, err)

			rapid.Check(t, func(t *rapid.T) {
				original := generateProject(t)
				data, err := renderer.Render(original)
				if err != nil {
					t.Fatalf("Render: %v", err)
				}
				got, err := parser.Parse(data)
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if !reflect.DeepEqual(got, original) {
					t.Fatalf("round-trip mismatch:\n got  %+v\n want %+v", got, original)
				}
			})
		})
	}
}

func TestZipRoundTripFiles(t *testing.T) {
	files := vfs.FromContents(map[string]string{
		"index.html":  "<p>hi</p>",
		"src/main.ts": "export {}",
	})
	p := export.NewProject("pong", "s", files, nil, nil, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	data, err := (&export.ZipRenderer{}).Render(p)
	require.NoError(t, err)
	again, err := (&export.ZipRenderer{}).Render(p)
	require.NoError(t, err)
	assert.Equal(t, data, again, "zip output should be deterministic")

	got, err := (&export.ZipParser{}).Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "pong", got.Name)
	assert.Equal(t, files, got.Files)
}

func TestMarkdownRendersReadableFiles(t *testing.T) {
	files := vfs.FromContents(map[string]string{
		"README.md": "Use ```go fences```",
		"app.py":    "print('hi')",
	})
	p := export.NewProject("demo", "s", files, vfs.Tree{}, []string{"flask"}, time.Unix(0, 0))

	data, err := (&export.MarkdownRenderer{}).Render(p)
	require.NoError(t, err)
	md := string(data)

	for _, want := range []string{
		"# demo",
		"## Summary",
		"- Packages: flask",
		"- Uncommitted: README.md, app.py",
		"### app.py\n\n```python\nprint('hi')\n```",
		"````markdown\nUse ```go fences```\n````",
	} {
		assert.Contains(t, md, want)
	}
	assert.True(t, strings.Index(md, "### README.md") < strings.Index(md, "### app.py"))
}

func TestRendererForUnknownFormat(t *testing.T) {
	_, _, err := export.RendererFor("pdf")
	assert.Error(t, err)
	_, err = export.ParserFor("bundle.pdf")
	assert.Error(t, err)
}
