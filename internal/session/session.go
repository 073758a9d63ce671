package session

import (
	"github.com/fakeyudi/studio/internal/generator"
	"github.com/fakeyudi/studio/internal/preview"
	"github.com/fakeyudi/studio/internal/roadmap"
	"github.com/fakeyudi/studio/internal/terminal"
	"github.com/fakeyudi/studio/internal/vfs"
)

// Greeting is the first model message of every fresh chat history.
const Greeting = "Hello! I'm your AI fullstack assistant. I can write and modify code in any language, and even run commands in the terminal. How can I help you today?"

// State is the whole session value. Every operation replaces it wholesale;
// nothing in it is shared with the previous value.
type State struct {
	ID        string
	Files     vfs.Tree
	Committed vfs.Tree
	Packages  []string
	Roadmap   *roadmap.Roadmap
	// Server is the running server kind, "" when stopped.
	Server string
	// ServerPreview is the file set captured when the server started.
	ServerPreview vfs.Tree
	History       []generator.Message
	// ModifiedByAI lists the paths written by the last generator turn.
	ModifiedByAI []string
	Usage        int
}

// NewState starts a session from files: the committed snapshot equals the
// working tree and the chat holds only the greeting.
func NewState(id string, files vfs.Tree) State {
	return State{
		ID:        id,
		Files:     files.Clone(),
		Committed: files.Clone(),
		History:   []generator.Message{{Role: generator.RoleModel, Text: Greeting}},
	}
}

// Clone deep-copies s.
func (s State) Clone() State {
	c := s
	c.Files = s.Files.Clone()
	c.Committed = s.Committed.Clone()
	c.Packages = append([]string(nil), s.Packages...)
	if s.Roadmap != nil {
		rm := *s.Roadmap
		rm.Tasks = append([]string(nil), s.Roadmap.Tasks...)
		c.Roadmap = &rm
	}
	if s.ServerPreview != nil {
		c.ServerPreview = s.ServerPreview.Clone()
	}
	c.History = append([]generator.Message(nil), s.History...)
	c.ModifiedByAI = append([]string(nil), s.ModifiedByAI...)
	return c
}

// Terminal returns the part of s a terminal command reads.
func (s State) Terminal() terminal.State {
	return terminal.State{Files: s.Files, Committed: s.Committed, Packages: s.Packages}
}

// withBatch folds a finished terminal batch back into s.
func (s State) withBatch(b terminal.Batch) State {
	s.Files = b.State.Files
	s.Committed = b.State.Committed
	s.Packages = b.State.Packages
	if b.ServerChanged {
		s.Server = b.Server
		s.ServerPreview = nil
		if b.Server != "" {
			s.ServerPreview = preview.ServerSubset(s.Files)
		}
	}
	return s
}

// PreviewFiles is the file set the preview is compiled from: the server
// subset while a server runs, the full working tree otherwise.
func (s State) PreviewFiles() vfs.Tree {
	if s.Server != "" && s.ServerPreview != nil {
		return s.ServerPreview
	}
	return s.Files
}
