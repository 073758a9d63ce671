package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

type wireFile struct {
	FileName *string `json:"fileName"`
	Content  *string `json:"content"`
}

type wireResponse struct {
	Message           *string     `json:"message"`
	FilesToUpdate     *[]wireFile `json:"filesToUpdate"`
	CommandsToExecute []string    `json:"commandsToExecute"`
	Roadmap           []string    `json:"roadmap"`
}

// stripFences removes a surrounding ```json ... ``` wrapper.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Decode parses raw generator output into a Response. Unknown fields, wrong
// types, missing required fields and turns that mix planning with execution
// are all rejected with a *GeneratorError; nothing is coerced.
func Decode(raw string) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(stripFences(raw))))
	dec.DisallowUnknownFields()

	var w wireResponse
	if err := dec.Decode(&w); err != nil {
		return Response{}, malformed("%v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Response{}, malformed("trailing data after response object")
	}

	if w.Message == nil {
		return Response{}, malformed("missing message")
	}
	if w.FilesToUpdate == nil {
		return Response{}, malformed("missing filesToUpdate")
	}

	resp := Response{
		Message:           *w.Message,
		FilesToUpdate:     make(map[string]string, len(*w.FilesToUpdate)),
		CommandsToExecute: w.CommandsToExecute,
		Roadmap:           w.Roadmap,
	}
	for i, f := range *w.FilesToUpdate {
		if f.FileName == nil || f.Content == nil {
			return Response{}, malformed("filesToUpdate[%d]: fileName and content are required", i)
		}
		name := strings.TrimSpace(*f.FileName)
		if name == "" {
			return Response{}, malformed("filesToUpdate[%d]: empty fileName", i)
		}
		if _, dup := resp.FilesToUpdate[name]; dup {
			return Response{}, malformed("filesToUpdate[%d]: duplicate fileName %q", i, name)
		}
		resp.FilesToUpdate[name] = *f.Content
	}
	if err := resp.Validate(); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Validate checks the invariants every Response must hold regardless of how
// it was produced.
func (r Response) Validate() error {
	if len(r.Roadmap) > 0 && (len(r.FilesToUpdate) > 0 || len(r.CommandsToExecute) > 0) {
		return malformed("roadmap cannot be combined with file updates or commands")
	}
	for i, c := range r.CommandsToExecute {
		if strings.TrimSpace(c) == "" {
			return malformed("commandsToExecute[%d]: empty command", i)
		}
	}
	for i, t := range r.Roadmap {
		if strings.TrimSpace(t) == "" {
			return malformed("roadmap[%d]: empty task", i)
		}
	}
	return nil
}
