// Package editor provides the optional review step: a single-line terminal editor that
// shows the assembled command and lets the user change it before it is dispatched.
//
// The editor is a small state machine. It starts in Editing; Enter moves it to Committed
// with the current buffer as payload; Ctrl+C or Esc moves it to Cancelled and nothing is
// dispatched. Every other key edits the buffer with the usual single-line semantics.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"sprinkle/internal/logging"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// ErrCancelled is returned by Run when the user leaves the editor without committing.
var ErrCancelled = errors.New("edit cancelled")

// State of the editor.
type State int

const (
	Editing State = iota
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const defaultTitle = "sprinkle: review the command (enter to run, esc to cancel)"

type options struct {
	in     io.Reader
	out    io.Writer
	styles *Styles
	title  string
}

// Option configures the editor.
type Option func(*options)

// WithInput reads key events from r instead of the terminal.
func WithInput(r io.Reader) Option {
	return func(o *options) { o.in = r }
}

// WithOutput renders to w instead of the terminal.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithStyles overrides the detected theme.
func WithStyles(s Styles) Option {
	return func(o *options) { o.styles = &s }
}

// WithTitle replaces the header line.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

func collect(opts []Option) options {
	o := options{title: defaultTitle}
	for _, opt := range opts {
		opt(&o)
	}
	if o.styles == nil {
		s := DefaultStyles()
		o.styles = &s
	}
	return o
}

// Model is the bubbletea model of the editor.
type Model struct {
	input  textinput.Model
	styles Styles
	title  string
	state  State
	result string
}

// New returns a model in Editing state with initial as the buffer and the cursor at the end.
func New(initial string, opts ...Option) Model {
	o := collect(opts)

	ti := textinput.New()
	ti.Prompt = "$ "
	ti.CharLimit = 0
	ti.PromptStyle = o.styles.Prompt
	ti.TextStyle = o.styles.Input
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	return Model{
		input:  ti,
		styles: *o.styles,
		title:  o.title,
		state:  Editing,
	}
}

// State returns the current state.
func (m Model) State() State {
	return m.state
}

// Value returns the current buffer.
func (m Model) Value() string {
	return m.input.Value()
}

// Result returns the committed payload; empty unless State is Committed.
func (m Model) Result() string {
	return m.result
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != Editing {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.state = Committed
			m.result = m.input.Value()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.state = Cancelled
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - len(m.input.Prompt) - 1; w > 0 {
			m.input.Width = w
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.state != Editing {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("←/→ move • ctrl+a/ctrl+e start/end • ctrl+w delete word"))
	b.WriteString("\n")
	return b.String()
}

// Run takes over the terminal until the user commits or cancels. It returns the committed
// text, or ErrCancelled. The host process keeps running either way.
func Run(ctx context.Context, initial string, opts ...Option) (string, error) {
	o := collect(opts)
	log := logging.Get(logging.CategoryEditor)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if o.in != nil {
		progOpts = append(progOpts, tea.WithInput(o.in))
	}
	if o.out != nil {
		progOpts = append(progOpts, tea.WithOutput(o.out))
	}

	log.Debug("editor opened", zap.Int("bytes", len(initial)))
	final, err := tea.NewProgram(New(initial, opts...), progOpts...).Run()
	if err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("editor: unexpected model %T", final)
	}
	log.Debug("editor closed", zap.Stringer("state", m.State()))
	if m.State() != Committed {
		return "", ErrCancelled
	}
	return m.Result(), nil
}
