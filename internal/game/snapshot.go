package game

import (
	"slices"
	"time"
)

// BoardSnapshot is a detached copy of a Board.
type BoardSnapshot struct {
	Placed bool   `json:"placed"`
	Ships  []Ship `json:"ships"`
	Shots  Grid   `json:"-"`
}

// Snapshot is a detached, read-only copy of a Game.
type Snapshot struct {
	ID        string                   `json:"id"`
	Status    Status                   `json:"status"`
	Players   [2]string                `json:"players"`
	Boards    map[string]BoardSnapshot `json:"boards"`
	Rounds    []Round                  `json:"rounds"`
	Winners   []string                 `json:"winners"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func (s Snapshot) HasWinner() bool { return len(s.Winners) > 0 }

// Summary is the lobby listing view of a game.
type Summary struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Players   [2]string `json:"players"`
	Rounds    int       `json:"rounds"`
	Winners   []string  `json:"winners"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot copies the game under its lock.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	boards := make(map[string]BoardSnapshot, len(g.boards))
	for id, b := range g.boards {
		boards[id] = BoardSnapshot{Placed: b.Placed(), Ships: b.Ships(), Shots: b.Shots()}
	}
	rounds := make([]Round, len(g.rounds))
	for i, r := range g.rounds {
		rounds[i] = r.clone()
	}
	return Snapshot{
		ID:        g.id,
		Status:    g.status,
		Players:   g.players,
		Boards:    boards,
		Rounds:    rounds,
		Winners:   slices.Clone(g.winners),
		CreatedAt: g.createdAt,
		UpdatedAt: g.updatedAt,
	}
}

func (g *Game) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Summary{
		ID:        g.id,
		Status:    g.status,
		Players:   g.players,
		Rounds:    len(g.rounds),
		Winners:   slices.Clone(g.winners),
		CreatedAt: g.createdAt,
	}
}
