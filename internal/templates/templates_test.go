package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/studio/internal/preview"
)

func TestEveryTemplateLoads(t *testing.T) {
	for _, id := range IDs() {
		tree, err := Load(id)
		require.NoError(t, err, id)
		assert.NotEmpty(t, tree, id)
	}
}

func TestJSPongPreviewInlinesAssets(t *testing.T) {
	tree, err := Load("js-pong")
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html", "script.js", "style.css"}, tree.List())
	assert.Equal(t, "javascript", tree["script.js"].Language)

	doc := preview.Compile(tree)
	assert.Contains(t, doc, "<style>")
	assert.Contains(t, doc, "pongCanvas")
	assert.NotContains(t, doc, `src="script.js"`)
}

func TestFlaskTemplate(t *testing.T) {
	tree, err := Load("flask-api")
	require.NoError(t, err)
	require.True(t, tree.Has("app.py"))
	assert.True(t, strings.Contains(tree["app.py"].Content, "from flask import Flask"))

	cs, err := Load("csharp-console")
	require.NoError(t, err)
	assert.Equal(t, "xml", cs["HelloWorld.csproj"].Language)
	assert.Equal(t, "csharp", cs["Program.cs"].Language)
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("cobol-mainframe")
	assert.ErrorContains(t, err, "unknown template")
}
