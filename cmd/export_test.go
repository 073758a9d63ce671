package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/studio/internal/session"
	"github.com/fakeyudi/studio/internal/templates"
)

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "markdown", "zip"} {
		t.Run(format, func(t *testing.T) {
			tmp := setupEnv(t)
			mustRun(t, "new", "ts-sorter")

			out := mustRun(t, "export", "--format", format, "--name", "sorter")
			assert.Contains(t, out, "Exported 2 files")

			matches, err := filepath.Glob(filepath.Join(tmp, "sorter.*"))
			require.NoError(t, err)
			require.Len(t, matches, 1)

			mustRun(t, "new", "js-pong")
			assert.Contains(t, mustRun(t, "import", matches[0]), "Imported 2 files.")

			want, err := templates.Load("ts-sorter")
			require.NoError(t, err)
			assert.Equal(t, want.Contents(), currentState(t).Files.Contents())
		})
	}
}

func TestExportUnknownFormat(t *testing.T) {
	setupEnv(t)
	mustRun(t, "new")

	_, err := executeCommand(rootCmd, "export", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestImportKeepsUsageAndResetsChat(t *testing.T) {
	tmp := setupEnv(t)
	mustRun(t, "new", "js-pong")
	editStyle(t, "body {}")
	mustRun(t, "run", "pip", "install", "flask")

	dir := filepath.Join(tmp, "site")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "x", "index.js"), []byte("x"), 0o644))

	id, err := session.CurrentID()
	require.NoError(t, err)
	mustRun(t, "import", dir)

	st := currentState(t)
	assert.Equal(t, id, st.ID)
	assert.Equal(t, map[string]string{"index.html": "<h1>hi</h1>"}, st.Files.Contents())
	assert.Equal(t, st.Files.Contents(), st.Committed.Contents())
	assert.Empty(t, st.Packages)
	assert.Len(t, st.History, 1)
	assert.Equal(t, 1, st.Usage)
}

func TestImportWithoutSessionCreatesOne(t *testing.T) {
	tmp := setupEnv(t)
	dir := filepath.Join(tmp, "proj")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print('hi')"), 0o644))

	out := mustRun(t, "import", dir)
	assert.Contains(t, out, "1 imported files")
	f, err := currentState(t).Files.Get("main.py")
	require.NoError(t, err)
	assert.Equal(t, "python", f.Language)
}

func TestImportEmptyFolder(t *testing.T) {
	tmp := setupEnv(t)

	_, err := executeCommand(rootCmd, "import", tmp)
	require.Error(t, err)
}

func TestPreviewWritesCompiledDocument(t *testing.T) {
	tmp := setupEnv(t)
	mustRun(t, "new", "js-pong")

	out := mustRun(t, "preview")
	assert.Contains(t, out, "preview.html")

	doc, err := os.ReadFile(filepath.Join(tmp, "preview.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "<!DOCTYPE html>"))
	assert.NotContains(t, string(doc), `src="script.js"`)
	assert.Contains(t, string(doc), "<style>")

	mustRun(t, "preview", "-o", "other.html")
	_, err = os.Stat(filepath.Join(tmp, "other.html"))
	assert.NoError(t, err)
}

func TestShowHighlights(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, highlight(&buf, "const x = 1;\n", "javascript", "dracula"))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "const")

	buf.Reset()
	require.NoError(t, highlight(&buf, "plain words\n", "plaintext", "dracula"))
	assert.Contains(t, buf.String(), "plain words")
}

func TestShowMissingFile(t *testing.T) {
	setupEnv(t)
	mustRun(t, "new", "js-pong")

	_, err := executeCommand(rootCmd, "show", "nope.txt")
	require.Error(t, err)
}
