package table

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lox/nlhe/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Parallel()

	m := NewManager(quietLogger())
	defer m.Close()

	_, ok := m.Default()
	assert.False(t, ok)

	first, err := m.Create(testConfig(2, 100))
	require.NoError(t, err)

	cfg := testConfig(3, 100)
	cfg.Game.ID = ""
	cfg.Name = "Second"
	second, err := m.Create(cfg)
	require.NoError(t, err)
	_, err = uuid.Parse(second.ID())
	require.NoError(t, err)

	_, err = m.Create(testConfig(2, 100))
	require.ErrorIs(t, err, ErrExists)

	got, ok := m.Get("t1")
	require.True(t, ok)
	assert.Same(t, first, got)

	def, ok := m.Default()
	require.True(t, ok)
	assert.Same(t, first, def)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0].ID)
	assert.Equal(t, "Second", list[1].Name)
	assert.Equal(t, 3, list[1].Players)
	assert.Equal(t, 10, list[1].BigBlind)

	require.NoError(t, m.Delete("t1"))
	require.ErrorIs(t, m.Delete("t1"), ErrNotFound)
	_, err = first.Apply(game.Action{Type: game.Fold})
	require.ErrorIs(t, err, ErrClosed)
	assert.Len(t, m.List(), 1)
}
