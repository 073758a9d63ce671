// Package roadmap paces multi-step agent work. A session is either Idle (nil
// *Roadmap) or Active with an ordered task list and a current step.
package roadmap

import (
	"fmt"
	"strings"
)

// Roadmap is an active multi-step plan. CurrentStep is in [0, len(Tasks)).
type Roadmap struct {
	Tasks       []string `json:"tasks"`
	CurrentStep int      `json:"current_step"`
}

// Event names the transition taken by Apply.
type Event string

const (
	EventNone      Event = "none"
	EventPlanned   Event = "planned"
	EventAdvanced  Event = "advanced"
	EventCompleted Event = "completed"
)

// Turn is the shape of a generator response relevant to pacing.
type Turn struct {
	Roadmap      []string
	FilesUpdated int
	Commands     int
}

// Planning reports whether t is a pure planning turn: a non-empty roadmap
// and no file or command actions.
func (t Turn) Planning() bool {
	return len(t.Roadmap) > 0 && t.FilesUpdated == 0 && t.Commands == 0
}

// Apply computes the roadmap after a turn. rm is never mutated.
//
// A planning turn enters Active at step 0 and replaces any active roadmap.
// While Active, any turn carrying file updates completes the current step,
// whether or not the user asked to proceed; the last step returns to Idle.
func Apply(rm *Roadmap, t Turn) (*Roadmap, Event) {
	if t.Planning() {
		return &Roadmap{Tasks: append([]string(nil), t.Roadmap...)}, EventPlanned
	}
	if rm == nil || t.FilesUpdated == 0 {
		return rm, EventNone
	}
	next := rm.CurrentStep + 1
	if next >= len(rm.Tasks) {
		return nil, EventCompleted
	}
	return &Roadmap{Tasks: append([]string(nil), rm.Tasks...), CurrentStep: next}, EventAdvanced
}

// Current returns the task at the current step.
func (rm *Roadmap) Current() (string, bool) {
	if rm == nil || rm.CurrentStep < 0 || rm.CurrentStep >= len(rm.Tasks) {
		return "", false
	}
	return rm.Tasks[rm.CurrentStep], true
}

// ProceedPrompt is the user message sent when the user confirms the next step.
func (rm *Roadmap) ProceedPrompt() (string, error) {
	task, ok := rm.Current()
	if !ok {
		return "", fmt.Errorf("roadmap has no current step")
	}
	return fmt.Sprintf("OK, please proceed with step %d: %q", rm.CurrentStep+1, task), nil
}

// Checklist renders completed steps as "- [x]", the current step flagged,
// and the remaining steps as "- [ ]".
func (rm *Roadmap) Checklist() string {
	if rm == nil {
		return ""
	}
	var lines []string
	for i, task := range rm.Tasks {
		switch {
		case i < rm.CurrentStep:
			lines = append(lines, "- [x] "+task)
		case i == rm.CurrentStep:
			lines = append(lines, "- [ ] "+task+" <-- YOU ARE HERE. EXECUTE THIS STEP.")
		default:
			lines = append(lines, "- [ ] "+task)
		}
	}
	return strings.Join(lines, "\n")
}

// ContextBlock is the instruction block handed to the generator while a
// roadmap is active. It is empty when Idle.
func (rm *Roadmap) ContextBlock() string {
	if rm == nil || len(rm.Tasks) == 0 {
		return ""
	}
	return `---
CONTEXT: You are in the middle of executing a multi-step plan that the user has already approved.
Your task is to execute the step marked with '<-- YOU ARE HERE'.

ROADMAP STATUS:
` + rm.Checklist() + `

Based on the user's confirmation to proceed, you MUST execute ONLY the current step.
Provide the file updates and/or terminal commands for this step.
In your response message, confirm that you've completed the step and state what the next step is.
Do NOT create a new roadmap. Do NOT ask for confirmation again. Just execute the current step.
---`
}
