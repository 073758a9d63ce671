// Package templates ships the built-in starter projects.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/samber/lo"

	"github.com/fakeyudi/studio/internal/vfs"
)

//go:embed files
var files embed.FS

// Template describes a starter project.
type Template struct {
	ID          string
	Name        string
	Description string
}

var catalog = []Template{
	{ID: "js-pong", Name: "JavaScript Pong", Description: "The classic Pong game in plain HTML, CSS and JavaScript."},
	{ID: "flask-api", Name: "Python Flask API", Description: "A frontend that calls a small Flask backend API."},
	{ID: "csharp-console", Name: "C# Console App", Description: "A .NET console app that prints a message and adds two numbers."},
	{ID: "ts-sorter", Name: "TypeScript Sorter", Description: "A TypeScript script that defines an interface and sorts an array of objects."},
}

// List returns the available templates in display order.
func List() []Template {
	return append([]Template(nil), catalog...)
}

// IDs returns the template ids in display order.
func IDs() []string {
	return lo.Map(catalog, func(t Template, _ int) string { return t.ID })
}

// languages tags template files whose extension the vfs table leaves as
// plaintext.
var languages = map[string]string{".csproj": "xml"}

// Load returns the files of template id.
func Load(id string) (vfs.Tree, error) {
	if !lo.ContainsBy(catalog, func(t Template) bool { return t.ID == id }) {
		return nil, fmt.Errorf("unknown template %q (available: %v)", id, IDs())
	}
	root := path.Join("files", id)
	tree := vfs.Tree{}
	err := fs.WalkDir(files, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := files.ReadFile(p)
		if err != nil {
			return err
		}
		name := p[len(root)+1:]
		lang := vfs.LanguageFor(name)
		if l, ok := languages[path.Ext(name)]; ok {
			lang = l
		}
		tree.PutFile(vfs.File{Path: name, Content: string(data), Language: lang})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", id, err)
	}
	return tree, nil
}
