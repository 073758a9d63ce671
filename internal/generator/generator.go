// Package generator defines the boundary to the external content generator:
// the request it receives, the structured action it must return, and the
// strict decoding that rejects anything not matching that shape.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakeyudi/studio/internal/roadmap"
	"github.com/fakeyudi/studio/internal/vfs"
)

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one chat history entry.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request is everything the generator sees for one turn.
type Request struct {
	History []Message
	Files   vfs.Tree
	Roadmap *roadmap.Roadmap
}

// Response is a validated generator action.
type Response struct {
	Message           string
	FilesToUpdate     map[string]string
	CommandsToExecute []string
	Roadmap           []string
}

// Turn reduces r to the fields that drive roadmap pacing.
func (r Response) Turn() roadmap.Turn {
	return roadmap.Turn{
		Roadmap:      r.Roadmap,
		FilesUpdated: len(r.FilesToUpdate),
		Commands:     len(r.CommandsToExecute),
	}
}

// Generator produces the next action for a session.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

var (
	ErrMalformed = errors.New("malformed generator response")
	ErrNoAPIKey  = errors.New("API key not configured")
	ErrExhausted = errors.New("no scripted responses left")
)

// GeneratorError wraps any failure at the generator boundary: transport,
// configuration or a response that does not match the required shape.
type GeneratorError struct {
	Op  string
	Err error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("generator %s: %v", e.Op, e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return &GeneratorError{Op: "decode", Err: fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))}
}
