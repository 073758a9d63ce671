// Package terminal simulates a shell over in-memory project state. Nothing is
// ever executed for real: every verb is a pure function of its inputs.
package terminal

import "github.com/fakeyudi/studio/internal/vfs"

// ServerFlask is the only server kind the simulation models.
const ServerFlask = "flask"

// Result is the outcome of one command. Nil Files/Committed/Packages mean the
// corresponding state is unchanged.
type Result struct {
	Output      []string
	Files       vfs.Tree
	Committed   vfs.Tree
	Packages    []string
	StartServer string
	StopServer  bool
	// Clear asks the caller to empty its own display buffer.
	Clear bool
}

// State is the slice of session state a command can read and replace.
type State struct {
	Files     vfs.Tree
	Committed vfs.Tree
	Packages  []string
}

// Apply returns s with r's replacements applied.
func (s State) Apply(r Result) State {
	if r.Files != nil {
		s.Files = r.Files
	}
	if r.Committed != nil {
		s.Committed = r.Committed
	}
	if r.Packages != nil {
		s.Packages = r.Packages
	}
	return s
}
