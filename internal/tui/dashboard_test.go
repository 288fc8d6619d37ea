package tui

import (
	"path/filepath"
	"testing"

	"social-media-bot/internal/analytics"
	"social-media-bot/internal/database"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	db, err := database.Open(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	return New(analytics.New(db))
}

func runRefresh(t *testing.T, m Model) Model {
	cmd := m.refresh()
	msg := cmd()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestViewLoading(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "Loading analytics")
}

func TestViewSummaryAfterRefresh(t *testing.T) {
	m := newTestModel(t)

	require.NoError(t, m.store.RecordAPIUsage(1, "alice", "gemini", "caption", 150, 0.04, true, ""))
	require.NoError(t, m.store.RecordUserActivity(1, "alice", "Alice", "caption", ""))

	m = runRefresh(t, m)
	out := m.View()
	assert.Contains(t, out, "Totals")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "alice")
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t)
	m = runRefresh(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	m = next.(Model)
	assert.Equal(t, ViewPlatforms, m.view)
	assert.Contains(t, m.View(), "Platform Downloads")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, ViewErrors, m.view)
}

func TestViewEmptySections(t *testing.T) {
	m := newTestModel(t)
	m = runRefresh(t, m)

	m.view = ViewFeatures
	assert.Contains(t, m.View(), "No API usage recorded yet")

	m.view = ViewRecent
	assert.Contains(t, m.View(), "No activity recorded yet")
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long stri…", truncate("long string here", 10))
}
