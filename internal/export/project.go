// Package export renders a project to a portable bundle and parses bundles
// back, for sharing a session's files outside the studio.
package export

import (
	"time"

	"github.com/fakeyudi/studio/internal/vcs"
	"github.com/fakeyudi/studio/internal/vfs"
)

// Project is the complete, renderable representation of an export.
type Project struct {
	Name      string    `json:"name"`
	SessionID string    `json:"session_id,omitempty"`
	Exported  time.Time `json:"exported"`
	Files     vfs.Tree  `json:"files"`
	Packages  []string  `json:"packages,omitempty"`
	// Uncommitted lists working-tree paths that differ from the last commit.
	Uncommitted []string `json:"uncommitted,omitempty"`
}

// NewProject captures files at the given time. committed may be nil.
func NewProject(name, sessionID string, files, committed vfs.Tree, packages []string, at time.Time) *Project {
	p := &Project{
		Name:      name,
		SessionID: sessionID,
		Exported:  at.UTC().Truncate(time.Second),
		Files:     files.Clone(),
		Packages:  append([]string(nil), packages...),
	}
	if committed != nil {
		p.Uncommitted = vcs.Diff(files, committed)
	}
	return p
}
