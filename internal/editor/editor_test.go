package editor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assembled = "delete  rm -f /tmp/*.log  from /tmp"

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// =============================================================================
// STATE MACHINE TESTS
// =============================================================================

func TestNew_StartsEditing(t *testing.T) {
	m := New(assembled)
	assert.Equal(t, Editing, m.State())
	assert.Equal(t, assembled, m.Value())
	assert.Empty(t, m.Result())
}

func TestCommitWithoutEdits(t *testing.T) {
	m, cmd := press(t, New(assembled), key(tea.KeyEnter))

	assert.Equal(t, Committed, m.State())
	assert.Equal(t, assembled, m.Result())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCommitAfterEdits(t *testing.T) {
	m, _ := press(t, New("ls"),
		runes(" -la"),
		key(tea.KeyBackspace),
		key(tea.KeyHome),
		runes("sudo "),
		key(tea.KeyEnter),
	)

	assert.Equal(t, Committed, m.State())
	assert.Equal(t, "sudo ls -l", m.Result())
}

func TestCursorMovementDoesNotChangeState(t *testing.T) {
	m, _ := press(t, New("abc"), key(tea.KeyLeft), key(tea.KeyLeft), runes("X"), key(tea.KeyEnd), runes("Y"))
	assert.Equal(t, Editing, m.State())
	assert.Equal(t, "aXbcY", m.Value())
}

func TestCancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m, cmd := press(t, New(assembled), runes("zzz"), key(k))
		assert.Equal(t, Cancelled, m.State(), "key %v", k)
		assert.Empty(t, m.Result())
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestTerminalStatesIgnoreInput(t *testing.T) {
	m, _ := press(t, New("a"), key(tea.KeyEnter), runes("more"), key(tea.KeyEsc))
	assert.Equal(t, Committed, m.State())
	assert.Equal(t, "a", m.Result())
}

func TestWindowResize(t *testing.T) {
	m, cmd := press(t, New("a"), tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Nil(t, cmd)
	assert.Equal(t, 40-len("$ ")-1, m.input.Width)

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 0, Height: 0})
	assert.Equal(t, 40-len("$ ")-1, m.input.Width, "degenerate sizes are ignored")
}

func TestView(t *testing.T) {
	m := New("echo hi", WithTitle("review"), WithStyles(NewStyles(LightTheme())))
	view := m.View()
	assert.Contains(t, view, "review")
	assert.Contains(t, view, "echo hi")

	m, _ = press(t, m, key(tea.KeyEnter))
	assert.Empty(t, m.View())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "committed", Committed.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "State(9)", State(9).String())
}

// =============================================================================
// PROGRAM TESTS
// =============================================================================

func TestRun_Commit(t *testing.T) {
	var out bytes.Buffer
	got, err := Run(context.Background(), "ls", WithInput(strings.NewReader(" -a\r")), WithOutput(&out))
	require.NoError(t, err)
	assert.Equal(t, "ls -a", got)
}

func TestRun_Cancel(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), "rm -rf /", WithInput(strings.NewReader("\x03")), WithOutput(&out))
	require.ErrorIs(t, err, ErrCancelled)
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("SPRINKLE_DARK_MODE", "")
	t.Setenv("COLORFGBG", "0;15")
	assert.False(t, DetectTheme().IsDark)

	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme().IsDark)

	t.Setenv("SPRINKLE_DARK_MODE", "0")
	assert.False(t, DetectTheme().IsDark)
}
