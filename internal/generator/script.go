package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Script replays a fixed sequence of raw responses, one per call. Each raw
// response goes through Decode, so scripts are held to the same contract as a
// live model.
type Script struct {
	mu        sync.Mutex
	responses []string
	next      int
	// Requests records every request received, for inspection.
	Requests []Request
}

// NewScript returns a Script over the given raw JSON responses.
func NewScript(responses ...string) *Script {
	return &Script{responses: responses}
}

// LoadScript reads a JSON array of response objects, or a single response
// object, from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return NewScript(string(trimmed)), nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	s := &Script{}
	for _, r := range raw {
		s.responses = append(s.responses, string(r))
	}
	return s, nil
}

// Generate returns the next scripted response.
func (s *Script) Generate(_ context.Context, req Request) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.next >= len(s.responses) {
		return Response{}, &GeneratorError{Op: "generate", Err: ErrExhausted}
	}
	raw := s.responses[s.next]
	s.next++
	return Decode(raw)
}

// Remaining reports how many responses are left.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses) - s.next
}
