package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/game"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New("p1", "p2")
	require.NoError(t, err)
	return g
}

func TestMemory_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	g := newGame(t)

	require.NoError(t, s.Save(ctx, g))
	got, err := s.Get(ctx, g.ID())
	require.NoError(t, err)
	assert.Same(t, g, got)

	require.NoError(t, s.Delete(ctx, g.ID()))
	_, err = s.Get(ctx, g.ID())
	assert.ErrorIs(t, err, game.ErrGameNotFound)
	assert.ErrorIs(t, s.Delete(ctx, g.ID()), game.ErrGameNotFound)
}

func TestMemory_GetMissing(t *testing.T) {
	_, err := NewMemoryStore(4).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestMemory_ListInCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)
	var want []string
	for range 25 {
		g := newGame(t)
		require.NoError(t, s.Save(ctx, g))
		want = append(want, g.ID())
	}
	// Saving again must not move a game to the back.
	first, err := s.Get(ctx, want[0])
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, first))

	games, err := s.List(ctx)
	require.NoError(t, err)
	var got []string
	for _, g := range games {
		got = append(got, g.ID())
	}
	assert.Equal(t, want, got)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				g, err := game.New("p1", "p2")
				if !assert.NoError(t, err) {
					return
				}
				assert.NoError(t, s.Save(ctx, g))
				_, err = s.Get(ctx, g.ID())
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	games, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 400)
}
