// Package preview assembles a single self-contained HTML document from the
// project files, inlining local stylesheets and scripts.
package preview

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fakeyudi/studio/internal/vfs"
)

// EntryFile is the root document of the preview.
const EntryFile = "index.html"

const doctype = "<!DOCTYPE html>\n"

// Placeholder is emitted when the project has no entry file.
const Placeholder = doctype + `<html><head><title>Live Preview</title></head><body style="font-family: sans-serif; color: #666; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0;"><p>No index.html found. Create one to see a live preview.</p></body></html>`

// ServerSubset is the file set served while the simulated flask server runs.
func ServerSubset(files vfs.Tree) vfs.Tree {
	return files.Subset(EntryFile, "style.css", "script.js")
}

// Compile returns the preview document for files. The result depends only on
// the content of files, so identical inputs give byte-identical output.
func Compile(files vfs.Tree) string {
	entry, ok := files[EntryFile]
	if !ok {
		return Placeholder
	}
	doc, err := html.Parse(strings.NewReader(entry.Content))
	if err != nil {
		return Placeholder
	}

	for _, n := range collect(doc) {
		switch n.DataAtom {
		case atom.Link:
			inlineStylesheet(n, files)
		case atom.Script:
			inlineScript(n, files)
		}
	}

	var sb strings.Builder
	sb.WriteString(doctype)
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			continue
		}
		if err := html.Render(&sb, c); err != nil {
			return Placeholder
		}
	}
	return sb.String()
}

// Hash is a short fingerprint of a compiled document.
func Hash(doc string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(doc))
}

// collect walks the tree in document order with an explicit stack and returns
// the link and script elements. The tree is not modified while walking.
func collect(root *html.Node) []*html.Node {
	var found []*html.Node
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode && (n.DataAtom == atom.Link || n.DataAtom == atom.Script) {
			found = append(found, n)
		}
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// resolve maps an href/src to a project path. Remote and data URLs never
// resolve.
func resolve(ref string, files vfs.Tree) (vfs.File, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "data:") {
		return vfs.File{}, false
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	for strings.HasPrefix(ref, "./") {
		ref = strings.TrimPrefix(ref, "./")
	}
	ref = strings.TrimPrefix(ref, "/")
	f, ok := files[ref]
	return f, ok
}

func isStylesheet(n *html.Node) bool {
	rel, _ := attr(n, "rel")
	for _, r := range strings.Fields(rel) {
		if strings.EqualFold(r, "stylesheet") {
			return true
		}
	}
	return false
}

func inlineStylesheet(n *html.Node, files vfs.Tree) {
	if n.Parent == nil || !isStylesheet(n) {
		return
	}
	href, _ := attr(n, "href")
	f, ok := resolve(href, files)
	if !ok {
		return
	}
	style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: f.Content})
	replace(n, style)
}

func inlineScript(n *html.Node, files vfs.Tree) {
	if n.Parent == nil {
		return
	}
	src, ok := attr(n, "src")
	if !ok {
		return
	}
	f, ok := resolve(src, files)
	if !ok {
		return
	}
	script := &html.Node{Type: html.ElementNode, Data: "script", DataAtom: atom.Script}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, "src") {
			continue
		}
		script.Attr = append(script.Attr, a)
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: f.Content})
	replace(n, script)
}

func replace(old, repl *html.Node) {
	parent := old.Parent
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
}
