package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// Renderer serializes a Project to bytes.
type Renderer interface {
	Render(p *Project) ([]byte, error)
}

// RendererFor returns the renderer for format ("json", "markdown" or "zip")
// and the file extension it produces.
func RendererFor(format string) (Renderer, string, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONRenderer{}, ".json", nil
	case "markdown", "md":
		return &MarkdownRenderer{}, ".md", nil
	case "zip":
		return &ZipRenderer{}, ".zip", nil
	default:
		return nil, "", fmt.Errorf("unknown export format %q (want json, markdown or zip)", format)
	}
}

// JSONRenderer renders a Project as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(p *Project) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

const (
	versionSentinel = "<!-- studio-project-version: 1 -->"
	dataPrefix      = "<!-- studio-data: "
	dataSuffix      = " -->"
)

// MarkdownRenderer renders a Project as readable Markdown with every file in
// a fenced block, plus an embedded base64 JSON payload for lossless parsing.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(p *Project) ([]byte, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder
	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, encoded, dataSuffix)

	fmt.Fprintf(&sb, "# %s\n\n", p.Name)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Exported: %s\n", p.Exported.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Files: %d\n", len(p.Files))
	if len(p.Packages) > 0 {
		fmt.Fprintf(&sb, "- Packages: %s\n", strings.Join(p.Packages, ", "))
	}
	if len(p.Uncommitted) > 0 {
		fmt.Fprintf(&sb, "- Uncommitted: %s\n", strings.Join(p.Uncommitted, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("## Files\n\n")
	if len(p.Files) == 0 {
		sb.WriteString("_No files._\n\n")
	}
	for _, name := range p.Files.List() {
		f := p.Files[name]
		fence := fenceFor(f.Content)
		fmt.Fprintf(&sb, "### %s\n\n", name)
		fmt.Fprintf(&sb, "%s%s\n", fence, f.Language)
		sb.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(fence + "\n\n")
	}

	return []byte(sb.String()), nil
}

// fenceFor returns a backtick fence longer than any backtick run in content.
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

// ZipRenderer packs the files under a directory named after the project.
// Entries are written in path order with the export time, so the same
// project always yields the same archive.
type ZipRenderer struct{}

func (r *ZipRenderer) Render(p *Project) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	root := archiveRoot(p.Name)
	for _, name := range p.Files.List() {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     path.Join(root, name),
			Method:   zip.Deflate,
			Modified: p.Exported,
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := w.Write([]byte(p.Files[name].Content)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

func archiveRoot(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "project"
	}
	return name
}
