package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/fakeyudi/studio/internal/generator"
	"github.com/fakeyudi/studio/internal/preview"
	"github.com/fakeyudi/studio/internal/roadmap"
	"github.com/fakeyudi/studio/internal/terminal"
	"github.com/fakeyudi/studio/internal/vcs"
	"github.com/fakeyudi/studio/internal/vfs"
)

var (
	// ErrBusy is returned when an action starts while another is in flight.
	ErrBusy = errors.New("session is busy")
	// ErrNoRoadmap is returned by Proceed when no roadmap is active.
	ErrNoRoadmap = errors.New("no active roadmap")
	// ErrNothingToCommit is returned by Commit on a clean tree.
	ErrNothingToCommit = errors.New("nothing to commit, working tree clean")
	// ErrEmptyMessage is returned by Commit without a message.
	ErrEmptyMessage = errors.New("commit message is required")
)

// Turn reports what one chat turn did.
type Turn struct {
	// Reply is the model message appended to the history. When the
	// generator failed it carries the error text and Err is set.
	Reply   string
	Err     error
	Updated []string
	Steps   []terminal.Step
	Roadmap roadmap.Event
}

// Engine serialises every mutation of a session. Each action works on a
// private copy of the state and publishes it in one swap when it finishes,
// so a reader sees either the state before or after an action, never a mix.
type Engine struct {
	mu    sync.Mutex
	busy  bool
	state State

	store  Store
	gen    generator.Generator
	logger *slog.Logger
	delay  time.Duration
	sleep  terminal.Sleeper
	onStep func(terminal.Step)
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore persists the state after every action. Without a store the
// engine is in-memory only.
func WithStore(s Store) Option { return func(e *Engine) { e.store = s } }

func WithGenerator(g generator.Generator) Option { return func(e *Engine) { e.gen = g } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithCommandDelay sets the pause before each command of an agent batch.
func WithCommandDelay(d time.Duration) Option { return func(e *Engine) { e.delay = d } }

func WithSleeper(s terminal.Sleeper) Option { return func(e *Engine) { e.sleep = s } }

// WithStepObserver is called after every executed command, while the action
// is still in flight.
func WithStepObserver(fn func(terminal.Step)) Option { return func(e *Engine) { e.onStep = fn } }

// NewEngine wraps st.
func NewEngine(st State, opts ...Option) *Engine {
	e := &Engine{state: st.Clone()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Open loads session id from store and wraps it.
func Open(store Store, id string, opts ...Option) (*Engine, error) {
	st, err := LoadState(store, id)
	if err != nil {
		return nil, err
	}
	return NewEngine(st, append([]Option{WithStore(store)}, opts...)...), nil
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Busy reports whether an action is in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

func (e *Engine) begin() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return State{}, ErrBusy
	}
	e.busy = true
	return e.state.Clone(), nil
}

// finish publishes next, persists the given records and clears busy.
func (e *Engine) finish(next State, keys ...string) {
	e.mu.Lock()
	e.state = next
	e.mu.Unlock()

	e.persist(next, keys...)

	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

func (e *Engine) abort() {
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

// persist is best-effort: the in-memory state stays authoritative and a
// failed write is only logged.
func (e *Engine) persist(s State, keys ...string) {
	if e.store == nil {
		return
	}
	if err := SaveState(e.store, s, keys...); err != nil {
		e.logger.Warn("persisting session failed", "session", s.ID, "err", err)
	}
}

// Send runs one chat turn. Generator failures are not returned as errors:
// they become a model message in the history and leave files, commits and
// roadmap untouched. The only error is ErrBusy.
func (e *Engine) Send(ctx context.Context, prompt string) (Turn, error) {
	st, err := e.begin()
	if err != nil {
		return Turn{}, err
	}

	st.History = append(st.History, generator.Message{Role: generator.RoleUser, Text: prompt})
	st.Usage++

	resp, err := e.generate(ctx, st)
	if err != nil {
		e.logger.Error("generator failed", "session", st.ID, "err", err)
		reply := "An error occurred: " + err.Error()
		st.History = append(st.History, generator.Message{Role: generator.RoleModel, Text: reply})
		e.finish(st, KeyHistory, KeyUsage)
		return Turn{Reply: reply, Err: err}, nil
	}

	turn := Turn{Reply: resp.Message}
	st.History = append(st.History, generator.Message{Role: generator.RoleModel, Text: resp.Message})
	st.Roadmap, turn.Roadmap = roadmap.Apply(st.Roadmap, resp.Turn())

	if len(resp.FilesToUpdate) > 0 {
		files := st.Files.Clone()
		for p, content := range resp.FilesToUpdate {
			files.Put(p, content)
		}
		st.Files = files
		turn.Updated = lo.Keys(resp.FilesToUpdate)
		slices.Sort(turn.Updated)
		st.ModifiedByAI = turn.Updated
	}

	if len(resp.CommandsToExecute) > 0 {
		batch := terminal.RunBatch(resp.CommandsToExecute, st.Terminal(), st.Server, e.delay, e.sleep, e.observe)
		st = st.withBatch(batch)
		turn.Steps = batch.Steps
	}

	e.logger.Info("turn complete",
		"session", st.ID,
		"files", len(turn.Updated),
		"commands", len(turn.Steps),
		"roadmap", string(turn.Roadmap),
	)
	e.finish(st, AllKeys...)
	return turn, nil
}

func (e *Engine) generate(ctx context.Context, st State) (generator.Response, error) {
	if e.gen == nil {
		return generator.Response{}, &generator.GeneratorError{Op: "configure", Err: errors.New("no generator configured")}
	}
	e.logger.Debug("calling generator", "session", st.ID, "history", len(st.History))
	resp, err := e.gen.Generate(ctx, generator.Request{
		History: slices.Clone(st.History),
		Files:   st.Files.Clone(),
		Roadmap: st.Clone().Roadmap,
	})
	if err != nil {
		return generator.Response{}, err
	}
	if err := resp.Validate(); err != nil {
		return generator.Response{}, err
	}
	return resp, nil
}

func (e *Engine) observe(s terminal.Step) {
	e.logger.Debug("command executed", "command", s.Command, "lines", len(s.Result.Output))
	if e.onStep != nil {
		e.onStep(s)
	}
}

// Proceed asks the generator to execute the current roadmap step.
func (e *Engine) Proceed(ctx context.Context) (Turn, error) {
	rm := e.State().Roadmap
	if rm == nil {
		return Turn{}, ErrNoRoadmap
	}
	prompt, err := rm.ProceedPrompt()
	if err != nil {
		return Turn{}, err
	}
	return e.Send(ctx, prompt)
}

// Run executes one user-typed terminal command immediately.
func (e *Engine) Run(line string) (terminal.Result, error) {
	batch, err := e.run([]string{line}, 0)
	if err != nil {
		return terminal.Result{}, err
	}
	if len(batch.Steps) == 0 {
		return terminal.Result{}, nil
	}
	return batch.Steps[0].Result, nil
}

// RunScript executes commands as one paced batch, the way agent commands run.
func (e *Engine) RunScript(commands []string) (terminal.Batch, error) {
	return e.run(commands, e.delay)
}

func (e *Engine) run(commands []string, delay time.Duration) (terminal.Batch, error) {
	st, err := e.begin()
	if err != nil {
		return terminal.Batch{}, err
	}
	batch := terminal.RunBatch(commands, st.Terminal(), st.Server, delay, e.sleep, e.observe)
	st = st.withBatch(batch)
	e.finish(st, KeyFiles, KeyCommitted, KeyPackages, KeyServer)
	return batch, nil
}

// Commit snapshots the working tree and returns the commit id and the
// committed paths.
func (e *Engine) Commit(message string) (string, []string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", nil, ErrEmptyMessage
	}
	st, err := e.begin()
	if err != nil {
		return "", nil, err
	}
	changed := vcs.Diff(st.Files, st.Committed)
	if len(changed) == 0 {
		e.abort()
		return "", nil, ErrNothingToCommit
	}
	st.Committed = vcs.Commit(st.Files)
	id := vcs.CommitID(st.Committed, message)
	e.logger.Info("committed", "session", st.ID, "id", id, "files", len(changed))
	e.finish(st, KeyCommitted)
	return id, changed, nil
}

// Discard restores path from the committed snapshot. It reports false, and
// changes nothing, when path was never committed.
func (e *Engine) Discard(path string) (bool, error) {
	st, err := e.begin()
	if err != nil {
		return false, err
	}
	next, restored := vcs.Discard(st.Files, st.Committed, path)
	if !restored {
		e.abort()
		return false, nil
	}
	st.Files = next
	e.finish(st, KeyFiles)
	return true, nil
}

// Load replaces the project with files, as loading a template or importing
// a folder does: the commit baseline is reset to files, packages, roadmap
// and server are cleared and the chat starts over. Usage is kept.
func (e *Engine) Load(files vfs.Tree) error {
	if len(files) == 0 {
		return fmt.Errorf("loading project: no files")
	}
	st, err := e.begin()
	if err != nil {
		return err
	}
	next := NewState(st.ID, files)
	next.Usage = st.Usage
	e.logger.Info("project loaded", "session", st.ID, "files", len(files))
	e.finish(next, AllKeys...)
	return nil
}

// Preview compiles the current preview document.
func (e *Engine) Preview() string {
	return preview.Compile(e.State().PreviewFiles())
}
