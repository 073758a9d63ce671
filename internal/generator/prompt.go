package generator

import (
	"fmt"
	"strings"

	"github.com/fakeyudi/studio/internal/roadmap"
	"github.com/fakeyudi/studio/internal/vfs"
)

// SystemInstruction builds the generator's system prompt: the current project
// files, the active roadmap block and the response contract.
func SystemInstruction(files vfs.Tree, rm *roadmap.Roadmap) string {
	var sb strings.Builder
	sb.WriteString(`You are an expert fullstack programmer AI assistant integrated into a code editor with a simulated terminal.
Your purpose is to help users by writing code, modifying existing files, creating new files and executing terminal commands.

The user is working on a project with the following files and their current content:
`)
	for _, p := range files.List() {
		f := files[p]
		fmt.Fprintf(&sb, "\n--- START OF %s ---\n```%s\n%s\n```\n--- END OF %s ---\n", p, f.Language, f.Content, p)
	}
	if block := rm.ContextBlock(); block != "" {
		sb.WriteString("\n" + block + "\n")
	}
	sb.WriteString(`
Based on the user's prompt, decide what actions to take:
1. Modify or create files: give the complete updated content of every changed file in 'filesToUpdate'.
2. Execute terminal commands: put them, in order, in 'commandsToExecute'. Available: help, ls, cat, npm run build,
   pip install, python, stop-server, git status, git add ., git commit -m "...".

For complex requests, first break the task into a roadmap: put the plan in 'message' and the steps in 'roadmap',
with 'filesToUpdate' and 'commandsToExecute' EMPTY. Wait for the user to approve before changing code.
Once the user agrees to proceed, execute ONE step at a time.

Respond with a single JSON object and nothing else:
{"message": string, "filesToUpdate": [{"fileName": string, "content": string}], "commandsToExecute": [string], "roadmap": [string]}
'message' and 'filesToUpdate' are required. If the request is unclear, ask in 'message' and leave the arrays empty.`)
	return sb.String()
}
