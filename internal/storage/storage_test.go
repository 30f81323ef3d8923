package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetCommandAndHistory(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.SetCommand("g1", "c1", "general", "Guild One", "u1", "alice", "ping"))
	require.NoError(t, s.SetCommand("g1", "c1", "general", "Guild One", "u2", "bob", "help"))

	history, err := s.GetCommandsHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "ping", history[0].Command)
	assert.Equal(t, "bob", history[1].Username)

	// Other guilds are unaffected.
	other, err := s.GetCommandsHistory("g2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHistoryIsCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		name := fmt.Sprintf("cmd-%d", i)
		require.NoError(t, s.SetCommand("g1", "c1", "general", "Guild One", "u1", "alice", name))
	}

	history, err := s.GetCommandsHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, commandHistoryLimit)
	// Oldest entries are dropped first.
	assert.Equal(t, "cmd-5", history[0].Command)
}

func TestHistorySurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SetCommand("g1", "c1", "general", "Guild One", "u1", "alice", "ping"))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	history, err := reopened.GetCommandsHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ping", history[0].Command)
}
