package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/battleship/internal/game"
)

// EventType names what happened to a game.
type EventType string

const (
	GameCreated  EventType = "game_created"
	ShipsPlaced  EventType = "ships_placed"
	ShotFired    EventType = "shot_fired"
	GameFinished EventType = "game_finished"
	GameDeleted  EventType = "game_deleted"
)

// Participant identifies a player bound to a game.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event describes one state change of a game. Shot is only set for
// ShotFired; the shot that ends a game produces a ShotFired followed by a
// GameFinished.
type Event struct {
	ID       string           `json:"id"`
	Type     EventType        `json:"type"`
	GameID   string           `json:"gameId"`
	Status   game.Status      `json:"status"`
	PlayerID string           `json:"playerId,omitempty"`
	Players  []Participant    `json:"players"`
	Shot     *game.ShotResult `json:"shot,omitempty"`
	Winners  []string         `json:"winners,omitempty"`
	Rounds   int              `json:"rounds"`
	At       time.Time        `json:"at"`
}

// NewEvent builds an event for the given game snapshot.
func NewEvent(typ EventType, snap game.Summary, players []Participant) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    typ,
		GameID:  snap.ID,
		Status:  snap.Status,
		Players: players,
		Winners: snap.Winners,
		Rounds:  snap.Rounds,
		At:      time.Now().UTC(),
	}
}
