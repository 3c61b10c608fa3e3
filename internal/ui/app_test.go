package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/todo/internal/storage"
	"github.com/tgienger/todo/internal/tasklist"
)

func TestApp_RemembersFilters(t *testing.T) {
	store := storage.NewMemory()

	app, err := NewApp(store, "todos")
	require.NoError(t, err)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})

	v, ok, err := store.GetItem("todos.filter.status")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "completed", v)

	v, _, _ = store.GetItem("todos.filter.date")
	assert.Equal(t, "today", v)

	reopened, err := NewApp(store, "todos")
	require.NoError(t, err)
	assert.Equal(t, tasklist.StatusCompleted, reopened.Controller().StatusFilter())
	assert.Equal(t, tasklist.DateToday, reopened.Controller().DateFilter())
}

func TestApp_IgnoresBadSavedFilter(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.SetItem("todos.filter.status", "bogus"))

	app, err := NewApp(store, "")
	require.NoError(t, err)
	assert.Equal(t, tasklist.StatusAll, app.Controller().StatusFilter())
}

func TestApp_SeparateCollectionKey(t *testing.T) {
	store := storage.NewMemory()

	app, err := NewApp(store, "work")
	require.NoError(t, err)
	_, err = app.Controller().Add("ship it", "2024-05-01")
	require.NoError(t, err)

	_, ok, _ := store.GetItem("work")
	assert.True(t, ok)
	_, ok, _ = store.GetItem("todos")
	assert.False(t, ok)
}
