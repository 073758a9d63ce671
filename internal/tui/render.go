package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/studio/internal/generator"
	"github.com/fakeyudi/studio/internal/vcs"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	modelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	aiStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Diff rendering
	diffAddStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	diffDelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	diffMetaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabTerminal:
		return strings.Join(m.terminal, "\n")
	case tabChat:
		return m.renderChat()
	case tabFiles:
		return m.renderFiles()
	case tabChanges:
		return m.renderChanges()
	case tabRoadmap:
		return m.renderRoadmap()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderChat() string {
	var sb strings.Builder
	for _, msg := range m.engine.State().History {
		label := modelStyle.Render("  AI ")
		if msg.Role == generator.RoleUser {
			label = userStyle.Render("  You")
		}
		sb.WriteString(label + "  " + indentTail(msg.Text, "       ") + "\n\n")
	}
	return sb.String()
}

func (m *Model) renderFiles() string {
	st := m.engine.State()
	changed := make(map[string]bool)
	for _, p := range vcs.Diff(st.Files, st.Committed) {
		changed[p] = true
	}
	byAI := make(map[string]bool)
	for _, p := range st.ModifiedByAI {
		byAI[p] = true
	}

	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Files (%d)", len(st.Files))))
	for _, p := range st.Files.List() {
		mark := "   "
		if changed[p] {
			mark = modifiedStyle.Render(" M ")
		}
		line := mark + " " + p + dimStyle.Render("  "+st.Files[p].Language)
		if byAI[p] {
			line += "  " + aiStyle.Render("AI")
		}
		sb.WriteString(line + "\n")
	}
	if len(st.Packages) > 0 {
		sb.WriteString(heading("Installed packages"))
		for _, pkg := range st.Packages {
			sb.WriteString("  " + pkg + "\n")
		}
	}
	return sb.String()
}

func (m *Model) renderChanges() string {
	st := m.engine.State()
	changed := vcs.Diff(st.Files, st.Committed)

	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Uncommitted changes (%d)", len(changed))))
	if len(changed) == 0 {
		sb.WriteString(dimStyle.Render("  nothing to commit, working tree clean") + "\n")
		return sb.String()
	}
	for _, p := range changed {
		sb.WriteString(modifiedStyle.Render("  "+p) + "\n")
		sb.WriteString(renderDiff(vcs.FileDiff(st.Files, st.Committed, p), m.width))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderRoadmap() string {
	rm := m.engine.State().Roadmap
	var sb strings.Builder
	sb.WriteString(heading("Roadmap"))
	if rm == nil {
		sb.WriteString(dimStyle.Render("  No active roadmap. Ask the AI for a plan to start one.") + "\n")
		return sb.String()
	}
	for i, task := range rm.Tasks {
		switch {
		case i < rm.CurrentStep:
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  [x] %d. %s", i+1, task)) + "\n")
		case i == rm.CurrentStep:
			sb.WriteString(currentStyle.Render(fmt.Sprintf("  [ ] %d. %s  ← next", i+1, task)) + "\n")
		default:
			sb.WriteString(fmt.Sprintf("  [ ] %d. %s", i+1, task) + "\n")
		}
	}
	sb.WriteString("\n" + dimStyle.Render("  Type /proceed to run the next step.") + "\n")
	return sb.String()
}

// renderDiff colorises a unified diff string.
func renderDiff(diff string, width int) string {
	var sb strings.Builder
	border := dimStyle.Render("  " + strings.Repeat("─", max(width-4, 1)))
	sb.WriteString(border + "\n")
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		var rendered string
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			rendered = diffMetaStyle.Render("  " + line)
		case strings.HasPrefix(line, "+"):
			rendered = diffAddStyle.Render("  " + line)
		case strings.HasPrefix(line, "-"):
			rendered = diffDelStyle.Render("  " + line)
		default:
			rendered = dimStyle.Render("  " + line)
		}
		sb.WriteString(rendered + "\n")
	}
	sb.WriteString(border + "\n")
	return sb.String()
}

// indentTail indents every line of s after the first.
func indentTail(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
