// internal/notify/notifier.go
//
// Notification sink contract.
// The lobby calls Notify after every successful mutation, once the game lock
// has been released. Sinks are fire-and-forget: they return nothing, and a
// panicking sink is logged and skipped so the caller's operation still succeeds.

package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier receives game events.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Func adapts a plain function to a Notifier.
type Func func(ctx context.Context, e Event)

func (f Func) Notify(ctx context.Context, e Event) { f(ctx, e) }

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// Multi delivers each event to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		deliver(ctx, n, e)
	}
}

func deliver(ctx context.Context, n Notifier, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("event", string(e.Type)).
				Str("game_id", e.GameID).
				Msg("notifier panicked")
		}
	}()
	n.Notify(ctx, e)
}
