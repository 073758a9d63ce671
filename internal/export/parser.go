package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/fakeyudi/studio/internal/vfs"
)

// Parser deserializes a bundle back into a Project.
type Parser interface {
	Parse(data []byte) (*Project, error)
}

// ParserFor picks a parser from the bundle file name's extension.
func ParserFor(name string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return &JSONParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".zip":
		return &ZipParser{}, nil
	default:
		return nil, fmt.Errorf("unknown bundle type %q", name)
	}
}

// JSONParser parses a JSON-encoded Project.
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*Project, error) {
	var proj Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to parse JSON bundle: %w", err)
	}
	return &proj, nil
}

// MarkdownParser parses a Markdown-rendered Project by extracting the
// embedded base64 JSON payload from the sentinel comments.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte) (*Project, error) {
	content := string(data)

	if !strings.Contains(content, versionSentinel) {
		return nil, fmt.Errorf("not a valid studio bundle: missing version sentinel")
	}

	start := strings.Index(content, dataPrefix)
	if start == -1 {
		return nil, fmt.Errorf("not a valid studio bundle: missing data payload")
	}
	start += len(dataPrefix)
	end := strings.Index(content[start:], dataSuffix)
	if end == -1 {
		return nil, fmt.Errorf("not a valid studio bundle: malformed data payload")
	}

	jsonBytes, err := base64.StdEncoding.DecodeString(content[start : start+end])
	if err != nil {
		return nil, fmt.Errorf("not a valid studio bundle: corrupted base64 payload: %w", err)
	}

	var proj Project
	if err := json.Unmarshal(jsonBytes, &proj); err != nil {
		return nil, fmt.Errorf("not a valid studio bundle: failed to parse embedded JSON: %w", err)
	}
	return &proj, nil
}

// ZipParser reads every regular file of an archive. A single top-level
// directory shared by all entries becomes the project name and is stripped
// from the paths.
type ZipParser struct{}

func (p *ZipParser) Parse(data []byte) (*Project, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip bundle: %w", err)
	}

	contents := make(map[string]string)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Clean(f.Name)
		if strings.HasPrefix(name, "../") || path.IsAbs(name) {
			return nil, fmt.Errorf("zip bundle: unsafe path %q", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip bundle: opening %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zip bundle: reading %s: %w", f.Name, err)
		}
		contents[name] = string(b)
	}

	proj := &Project{Name: "project"}
	if root, ok := commonRoot(contents); ok {
		proj.Name = root
		stripped := make(map[string]string, len(contents))
		for name, c := range contents {
			stripped[strings.TrimPrefix(name, root+"/")] = c
		}
		contents = stripped
	}
	proj.Files = vfs.FromContents(contents)
	if len(zr.File) > 0 {
		proj.Exported = zr.File[0].Modified.UTC()
	}
	return proj, nil
}

// commonRoot reports the first path segment when every path has it and
// lives below it.
func commonRoot(contents map[string]string) (string, bool) {
	root := ""
	for name := range contents {
		dir, _, found := strings.Cut(name, "/")
		if !found {
			return "", false
		}
		if root == "" {
			root = dir
		} else if dir != root {
			return "", false
		}
	}
	return root, root != ""
}
