package history

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/battleship/internal/notify"
)

const recordTimeout = 5 * time.Second

// Recorder archives games as they finish. It implements notify.Notifier.
type Recorder struct {
	store *Store
	log   zerolog.Logger
}

func NewRecorder(store *Store, logger zerolog.Logger) *Recorder {
	return &Recorder{store: store, log: logger.With().Str("component", "history").Logger()}
}

func (r *Recorder) Notify(ctx context.Context, e notify.Event) {
	if e.Type != notify.GameFinished {
		return
	}

	players := make([]Participant, len(e.Players))
	for i, p := range e.Players {
		players[i] = Participant{ID: p.ID, Name: p.Name}
	}

	// The request that finished the game may be cancelled as soon as it responds.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	written, err := r.store.RecordResult(ctx, Result{
		GameID:     e.GameID,
		Players:    players,
		Rounds:     e.Rounds,
		Winners:    e.Winners,
		FinishedAt: e.At,
	})
	if err != nil {
		r.log.Error().Err(err).Str("game_id", e.GameID).Msg("archive result")
		return
	}
	if written {
		r.log.Info().Str("game_id", e.GameID).Strs("winners", e.Winners).Int("rounds", e.Rounds).Msg("result archived")
	}
}
