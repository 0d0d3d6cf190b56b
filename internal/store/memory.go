// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Live games are never persisted: state is lost when the process restarts.
//
// Characteristics:
//   - Games are spread over a fixed number of shards chosen by xxhash of the
//     game id, each shard under its own RWMutex, so lookups for unrelated games
//     do not contend.
//   - Every saved game gets a sequence number on first save; List orders by it,
//     which is creation order.
//   - Games live until Delete is called.

package store

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/robalobadob/battleship/internal/game"
)

const defaultShards = 16

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds a game, or is a no-op if it is already stored.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID. Missing games yield a GameNotFound error.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a game. Missing games yield a GameNotFound error.
	Delete(ctx context.Context, id string) error

	// List returns every stored game in creation order.
	List(ctx context.Context) ([]*game.Game, error)
}

type entry struct {
	game *game.Game
	seq  uint64
}

type shard struct {
	mu    sync.RWMutex
	games map[string]entry
}

// memory is a sharded map-based Store implementation.
type memory struct {
	shards []shard
	seq    atomic.Uint64
}

// NewMemoryStore constructs an empty in-memory Store with the given number of
// shards. Non-positive counts use the default.
func NewMemoryStore(shards int) Store {
	if shards <= 0 {
		shards = defaultShards
	}
	m := &memory{shards: make([]shard, shards)}
	for i := range m.shards {
		m.shards[i].games = make(map[string]entry)
	}
	return m
}

func (m *memory) shardFor(id string) *shard {
	return &m.shards[xxhash.Sum64String(id)%uint64(len(m.shards))]
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	sh := m.shardFor(g.ID())
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.games[g.ID()]; ok {
		return nil
	}
	sh.games[g.ID()] = entry{game: g, seq: m.seq.Add(1)}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	sh := m.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	if e, ok := sh.games[id]; ok {
		return e.game, nil
	}
	return nil, notFound(id)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	sh := m.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.games[id]; !ok {
		return notFound(id)
	}
	delete(sh.games, id)
	return nil
}

func (m *memory) List(ctx context.Context) ([]*game.Game, error) {
	var all []entry
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.RLock()
		for _, e := range sh.games {
			all = append(all, e)
		}
		sh.mu.RUnlock()
	}
	slices.SortFunc(all, func(a, b entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	out := make([]*game.Game, len(all))
	for i, e := range all {
		out[i] = e.game
	}
	return out, nil
}

func notFound(id string) error {
	return game.Errorf(game.KindGameNotFound, "game %s does not exist", id)
}
