// internal/game/engine.go
//
// Game aggregate and lifecycle state machine for a single Battleship match.
// Responsibilities:
//   - Bind two players, each with their own Board.
//   - Accept one fleet placement per player while in PLACE_SHIPS.
//   - Resolve shots into the current Round while in SHOOT.
//   - Record winners and finish the game when a round seals with a winner.
//
// Notes:
//   - Every method takes the game's mutex, so status changes, round sealing and
//     winner determination are atomic with respect to concurrent callers.
//   - Errors never leave partial state: all checks run before any mutation.
//   - A player whose shot sinks the last opposing ship is a winner at once, but
//     the game only finishes when that round seals. The opponent therefore
//     always gets the answering shot, and both players can win together.
package game

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Game holds the state of one match between two players.
type Game struct {
	mu        sync.Mutex
	id        string
	players   [2]string
	status    Status
	boards    map[string]*Board
	rounds    []*Round
	winners   []string
	createdAt time.Time
	updatedAt time.Time
}

// ShotResult is what a successful Shoot reports back to the shooter.
type ShotResult struct {
	Shot
	Round        int      `json:"round"`
	Status       Status   `json:"status"`
	GameFinished bool     `json:"gameFinished"`
	Winners      []string `json:"winners"`
}

// New creates a game in PLACE_SHIPS bound to two distinct players.
func New(firstPlayerID, secondPlayerID string) (*Game, error) {
	if firstPlayerID == "" || secondPlayerID == "" {
		return nil, Errorf(KindInvalidRequest, "both player ids are required")
	}
	if firstPlayerID == secondPlayerID {
		return nil, Errorf(KindInvalidRequest, "a player cannot play against themselves")
	}
	now := time.Now().UTC()
	return &Game{
		id:      uuid.NewString(),
		players: [2]string{firstPlayerID, secondPlayerID},
		status:  StatusPlaceShips,
		boards: map[string]*Board{
			firstPlayerID:  NewBoard(),
			secondPlayerID: NewBoard(),
		},
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (g *Game) ID() string { return g.id }

// Players returns the bound player ids, first player first.
func (g *Game) Players() [2]string { return g.players }

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// PlaceShips validates and stores playerID's fleet. The game moves to SHOOT
// once both players have placed. A player may place only once.
func (g *Game) PlaceShips(playerID string, ships []Ship) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	board, ok := g.boards[playerID]
	if !ok {
		return g.status, Errorf(KindPlayerNotAuthorized, "player %s is not part of game %s", playerID, g.id)
	}
	switch g.status {
	case StatusFinished:
		return g.status, Errorf(KindGameAlreadyFinished, "game %s is finished", g.id)
	case StatusShoot:
		return g.status, Errorf(KindIllegalStateForAction, "ships cannot be placed while shooting")
	}
	if board.Placed() {
		return g.status, Errorf(KindIllegalStateForAction, "player %s already placed ships", playerID)
	}
	if err := board.Place(ships); err != nil {
		return g.status, err
	}

	if g.boards[g.players[0]].Placed() && g.boards[g.players[1]].Placed() {
		g.status = StatusShoot
	}
	g.updatedAt = time.Now().UTC()
	return g.status, nil
}

// Shoot fires playerID's shot for the current round at the opponent's board.
func (g *Game) Shoot(playerID string, target Coord) (ShotResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.boards[playerID]; !ok {
		return ShotResult{}, Errorf(KindPlayerNotAuthorized, "player %s is not part of game %s", playerID, g.id)
	}
	switch g.status {
	case StatusFinished:
		return ShotResult{}, Errorf(KindGameAlreadyFinished, "game %s is finished", g.id)
	case StatusPlaceShips:
		return ShotResult{}, Errorf(KindIllegalStateForAction, "ships are still being placed")
	}
	if !target.Valid() {
		return ShotResult{}, Errorf(KindOutOfBounds, "coordinate %s outside %dx%d grid", target, GridSize, GridSize)
	}

	round := g.openRound()
	if round != nil && round.HasShot(playerID) {
		return ShotResult{}, Errorf(KindAlreadyShotThisRound, "player %s already fired in round %d", playerID, round.Number)
	}

	opponent := g.opponentOf(playerID)
	shot, err := g.boards[opponent].Resolve(target)
	if err != nil {
		return ShotResult{}, err
	}

	if round == nil {
		round = newRound(len(g.rounds) + 1)
		g.rounds = append(g.rounds, round)
	}
	round.record(playerID, shot)

	if g.boards[opponent].FleetSunk() && !slices.Contains(g.winners, playerID) {
		g.winners = append(g.winners, playerID)
	}
	if round.Complete && len(g.winners) > 0 {
		g.status = StatusFinished
	}
	g.updatedAt = time.Now().UTC()

	return ShotResult{
		Shot:         shot,
		Round:        round.Number,
		Status:       g.status,
		GameFinished: g.status == StatusFinished,
		Winners:      slices.Clone(g.winners),
	}, nil
}

// openRound returns the round still accepting shots, or nil if the next shot
// must open a new one.
func (g *Game) openRound() *Round {
	if n := len(g.rounds); n > 0 && !g.rounds[n-1].Complete {
		return g.rounds[n-1]
	}
	return nil
}

func (g *Game) opponentOf(playerID string) string {
	if g.players[0] == playerID {
		return g.players[1]
	}
	return g.players[0]
}

// HasWinner reports whether any player has sunk the opposing fleet.
func (g *Game) HasWinner() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.winners) > 0
}

// Winners returns the winner set in the order the players won.
func (g *Game) Winners() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.winners)
}

// CurrentRound returns a copy of the latest round, if any shot was fired yet.
func (g *Game) CurrentRound() (Round, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.rounds) == 0 {
		return Round{}, false
	}
	return g.rounds[len(g.rounds)-1].clone(), true
}
