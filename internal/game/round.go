package game

import "maps"

// Round is one exchange in which each of the two players fires exactly once.
// It is open until both have fired, then sealed.
type Round struct {
	Number   int             `json:"number"`
	Shots    map[string]Shot `json:"shots"`
	Complete bool            `json:"complete"`
}

func newRound(number int) *Round {
	return &Round{Number: number, Shots: make(map[string]Shot, 2)}
}

// HasShot reports whether playerID already fired in this round.
func (r *Round) HasShot(playerID string) bool {
	_, ok := r.Shots[playerID]
	return ok
}

// record stores the shot and seals the round once both players have fired.
func (r *Round) record(playerID string, s Shot) {
	r.Shots[playerID] = s
	if len(r.Shots) == 2 {
		r.Complete = true
	}
}

func (r *Round) clone() Round {
	c := *r
	c.Shots = maps.Clone(r.Shots)
	return c
}
