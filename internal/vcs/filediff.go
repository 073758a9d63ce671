package vcs

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/fakeyudi/studio/internal/vfs"
)

// FileDiff renders a line diff of path between committed and working. Lines
// are prefixed with "+", "-" or " ". An empty string means no difference.
func FileDiff(working, committed vfs.Tree, path string) string {
	newText := working[path].Content
	oldText := committed[path].Content
	if newText == oldText {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	sb.WriteString("--- a/" + path + "\n")
	sb.WriteString("+++ b/" + path + "\n")
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return sb.String()
}
