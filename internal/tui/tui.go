// Package tui provides the interactive Bubble Tea workspace: a simulated
// terminal, the agent chat and read-only views of files, changes and the
// roadmap.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/studio/internal/roadmap"
	"github.com/fakeyudi/studio/internal/session"
	"github.com/fakeyudi/studio/internal/terminal"
)

// Prompt precedes every command echoed in the terminal tab.
const Prompt = "user@codestudio:~$"

// ── Tab definitions ─────────────────

type tabID int

const (
	tabTerminal tabID = iota
	tabChat
	tabFiles
	tabChanges
	tabRoadmap
	tabCount
)

var tabNames = [tabCount]string{
	"Terminal", "Chat", "Files", "Changes", "Roadmap",
}

// ── Messages ────────────────────

// stepMsg carries one agent command executed while a turn is in flight.
type stepMsg terminal.Step

type runMsg struct {
	line string
	err  error
}

type turnMsg struct {
	turn session.Turn
	err  error
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the workspace.
type Model struct {
	ctx       context.Context
	engine    *session.Engine
	activeTab tabID
	viewports [tabCount]viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	width     int
	height    int
	ready     bool
	busy      bool
	// terminal is the scrollback of the terminal tab.
	terminal []string
	notice   string
}

// New creates a workspace model over engine.
func New(ctx context.Context, engine *session.Engine) Model {
	ti := textinput.New()
	ti.Prompt = Prompt + " "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = busyStyle

	return Model{
		ctx:      ctx,
		engine:   engine,
		input:    ti,
		spinner:  sp,
		terminal: []string{"Welcome to the simulated terminal. Type 'help' for available commands."},
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setTab((m.activeTab + 1) % tabCount)
			return m, nil
		case "shift+tab":
			m.setTab((m.activeTab - 1 + tabCount) % tabCount)
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		case "enter":
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil

	case stepMsg:
		m.appendStep(terminal.Step(msg))
		m.refresh(tabTerminal)
		return m, nil

	case runMsg:
		// Output arrives through stepMsg; this only ends the action.
		m.busy = false
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		m.refreshAll()
		return m, nil

	case turnMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.notice = msg.err.Error()
		case msg.turn.Err != nil:
			m.notice = "generator failed; see chat"
		default:
			m.notice = turnNotice(msg.turn)
		}
		m.refreshAll()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit dispatches the input line: terminal commands on the terminal tab,
// chat prompts everywhere else. /proceed works from any tab.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" && m.activeTab != tabTerminal {
		return m, nil
	}
	if m.busy {
		m.notice = session.ErrBusy.Error()
		return m, nil
	}
	m.notice = ""

	switch {
	case line == "/proceed":
		m.busy = true
		m.setTab(tabChat)
		e, ctx := m.engine, m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			turn, err := e.Proceed(ctx)
			return turnMsg{turn: turn, err: err}
		})

	case m.activeTab == tabTerminal:
		if line == "" {
			m.terminal = append(m.terminal, Prompt)
			m.refresh(tabTerminal)
			return m, nil
		}
		m.busy = true
		e := m.engine
		return m, func() tea.Msg {
			_, err := e.Run(line)
			return runMsg{line: line, err: err}
		}

	default:
		m.busy = true
		m.setTab(tabChat)
		// Show the prompt immediately; the engine appends it to the history
		// when the turn finishes.
		m.viewports[tabChat].SetContent(m.renderChat() + "\n" + userStyle.Render("  You") + "  " + line + "\n")
		m.viewports[tabChat].GotoBottom()
		e, ctx := m.engine, m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			turn, err := e.Send(ctx, line)
			return turnMsg{turn: turn, err: err}
		})
	}
}

func (m *Model) appendStep(s terminal.Step) {
	m.terminal = append(m.terminal, Prompt+" "+s.Command)
	if s.Result.Clear {
		m.terminal = nil
		return
	}
	m.terminal = append(m.terminal, s.Result.Output...)
}

func turnNotice(t session.Turn) string {
	var parts []string
	if n := len(t.Updated); n > 0 {
		parts = append(parts, fmt.Sprintf("%d file(s) updated", n))
	}
	if n := len(t.Steps); n > 0 {
		parts = append(parts, fmt.Sprintf("%d command(s) run", n))
	}
	if t.Roadmap != "" && t.Roadmap != roadmap.EventNone {
		parts = append(parts, "roadmap "+string(t.Roadmap))
	}
	return strings.Join(parts, ", ")
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}
	st := m.engine.State()

	// ── Row 1: title bar ──────────────────────────────────────────────────────
	title := "  studio  " + st.ID
	if st.Server != "" {
		title += "  ● " + st.Server + " server running"
	}
	titleBar := titleStyle.Width(m.width).Render(title)

	// ── Row 2: tab bar ────────────────────────────────────────────────────────
	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %s ", tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	// ── Row 3…N-2: scrollable content ────────────────────────────────────────
	content := m.viewports[m.activeTab].View()

	// ── Row N-1: input ────────────────────────────────────────────────────────
	input := m.input.View()
	if m.busy {
		input = m.spinner.View() + " " + busyStyle.Render("working…")
	}

	// ── Row N: status / hint bar ──────────────────────────────────────────────
	hint := "  tab switch  ↑/↓ scroll  enter run/send  /proceed  esc quit"
	if m.notice != "" {
		hint = "  " + m.notice
	}
	right := fmt.Sprintf("usage %d", st.Usage)
	pad := m.width - lipgloss.Width(hint) - len(right) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + right)

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, tabRow, content, input, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + input(1) + statusBar(1) = 4 fixed rows
	vpHeight := m.height - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.input.Width = m.width - len(Prompt) - 2
	for i := tabID(0); i < tabCount; i++ {
		m.viewports[i] = viewport.New(m.width, vpHeight)
	}
	m.refreshAll()
}

func (m *Model) setTab(t tabID) {
	m.activeTab = t
	if t == tabTerminal {
		m.input.Prompt = Prompt + " "
	} else {
		m.input.Prompt = "> "
	}
}

func (m *Model) refresh(t tabID) {
	if !m.ready {
		return
	}
	m.viewports[t].SetContent(m.renderTab(t))
	if t == tabTerminal || t == tabChat {
		m.viewports[t].GotoBottom()
	}
}

func (m *Model) refreshAll() {
	for i := tabID(0); i < tabCount; i++ {
		m.refresh(i)
	}
}

// Opener builds the engine. onStep must be installed as the engine's step
// observer: every executed command, typed or agent-issued, reaches the
// terminal tab through it.
type Opener func(onStep func(terminal.Step)) (*session.Engine, error)

// Run starts the workspace.
func Run(ctx context.Context, open Opener) error {
	var p *tea.Program
	engine, err := open(func(s terminal.Step) { p.Send(stepMsg(s)) })
	if err != nil {
		return err
	}
	p = tea.NewProgram(New(ctx, engine), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
