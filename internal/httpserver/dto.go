package httpserver

import (
	"time"

	"github.com/robalobadob/battleship/internal/game"
)

// Request payloads. Validation here is structural only; the engine decides
// whether a fleet or a shot is legal.

type registerPlayerReq struct {
	Name string `json:"name" validate:"required,max=40"`
}

type createGameReq struct {
	FirstPlayerID  string `json:"firstPlayerId" validate:"required"`
	SecondPlayerID string `json:"secondPlayerId" validate:"required"`
}

type shipReq struct {
	Type        string `json:"type" validate:"required"`
	X           *int   `json:"x" validate:"required"`
	Y           *int   `json:"y" validate:"required"`
	Orientation string `json:"orientation" validate:"required"`
}

type placeShipsReq struct {
	PlayerID string    `json:"playerId" validate:"omitempty,max=64"`
	Ships    []shipReq `json:"ships" validate:"required,dive"`
}

func (p placeShipsReq) fleet() []game.Ship {
	out := make([]game.Ship, len(p.Ships))
	for i, s := range p.Ships {
		out[i] = game.NewShip(game.ShipType(s.Type), *s.X, *s.Y, game.Orientation(s.Orientation))
	}
	return out
}

type shootReq struct {
	PlayerID string `json:"playerId" validate:"omitempty,max=64"`
	X        *int   `json:"x" validate:"required"`
	Y        *int   `json:"y" validate:"required"`
}

// Response payloads.

type registerPlayerRes struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

type createGameRes struct {
	GameID string `json:"gameId"`
}

type placeShipsRes struct {
	Status game.Status `json:"status"`
}

type cellView struct {
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Outcome game.Outcome `json:"outcome"`
}

// boardView is a board as the lobby shows it: incoming shots and sunk ship
// types, never the positions of ships still afloat.
type boardView struct {
	PlayerID  string          `json:"playerId"`
	Placed    bool            `json:"placed"`
	Shots     []cellView      `json:"shots"`
	SunkShips []game.ShipType `json:"sunkShips"`
}

type gameView struct {
	ID        string       `json:"id"`
	Status    game.Status  `json:"status"`
	Players   [2]string    `json:"players"`
	Boards    []boardView  `json:"boards"`
	Rounds    []game.Round `json:"rounds"`
	Winners   []string     `json:"winners"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func newGameView(s game.Snapshot) gameView {
	v := gameView{
		ID:        s.ID,
		Status:    s.Status,
		Players:   s.Players,
		Boards:    make([]boardView, 0, len(s.Players)),
		Rounds:    s.Rounds,
		Winners:   s.Winners,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if v.Winners == nil {
		v.Winners = []string{}
	}
	for _, id := range s.Players {
		b := s.Boards[id]
		bv := boardView{PlayerID: id, Placed: b.Placed, Shots: []cellView{}, SunkShips: []game.ShipType{}}
		b.Shots.Each(func(c game.Coord, o game.Outcome) {
			bv.Shots = append(bv.Shots, cellView{X: c.X, Y: c.Y, Outcome: o})
		})
		for _, ship := range b.Ships {
			if ship.Sunk() {
				bv.SunkShips = append(bv.SunkShips, ship.Type)
			}
		}
		v.Boards = append(v.Boards, bv)
	}
	return v
}
