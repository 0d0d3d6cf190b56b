// internal/lobby/service.go
//
// Lobby facade over the engine: the operations clients call.
// Responsibilities:
//   - Register players and create games between registered players.
//   - Authenticate every game action against the player registry.
//   - Forward placements and shots to the game, which owns its own locking.
//   - Emit a notify.Event after each successful mutation.
//
// Check order for game actions: the game must exist, then the token must
// authenticate the player, then the game decides whether the player is bound
// and the action is legal in its current state.
//
// Events are emitted after the game's lock has been released, so a slow or
// failing sink can never block or fail the action that produced the event.

package lobby

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/notify"
	"github.com/robalobadob/battleship/internal/player"
	"github.com/robalobadob/battleship/internal/store"
)

// Service implements the lobby operations.
type Service struct {
	players  *player.Registry
	games    store.Store
	notifier notify.Notifier
	log      zerolog.Logger
}

// New builds a Service. A nil notifier discards events.
func New(players *player.Registry, games store.Store, notifier notify.Notifier, logger zerolog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		players:  players,
		games:    games,
		notifier: notifier,
		log:      logger.With().Str("component", "lobby").Logger(),
	}
}

// RegisterPlayer creates a player. The returned Player is the only place its
// token is ever exposed.
func (s *Service) RegisterPlayer(_ context.Context, name string) (player.Player, error) {
	p, err := s.players.Register(name)
	if err != nil {
		return player.Player{}, err
	}
	s.log.Info().Str("player_id", p.ID).Str("name", p.Name).Msg("player registered")
	return p, nil
}

// Players lists registered players in registration order.
func (s *Service) Players(_ context.Context) []player.Player {
	return s.players.List()
}

// Authenticate checks a player's token without touching any game.
func (s *Service) Authenticate(playerID, token string) error {
	return s.players.Authenticate(playerID, token)
}

// PlayerFromToken resolves the player id a token was issued to.
func (s *Service) PlayerFromToken(token string) (string, error) {
	return s.players.PlayerFromToken(token)
}

// CreateGame starts a game in PLACE_SHIPS between two registered players.
func (s *Service) CreateGame(ctx context.Context, firstPlayerID, secondPlayerID string) (string, error) {
	for _, id := range []string{firstPlayerID, secondPlayerID} {
		if id == "" {
			return "", game.Errorf(game.KindInvalidRequest, "both player ids are required")
		}
		if _, err := s.players.Get(id); err != nil {
			return "", err
		}
	}

	g, err := game.New(firstPlayerID, secondPlayerID)
	if err != nil {
		return "", err
	}
	if err := s.games.Save(ctx, g); err != nil {
		return "", err
	}

	s.log.Info().Str("game_id", g.ID()).Str("first", firstPlayerID).Str("second", secondPlayerID).Msg("game created")
	s.emit(ctx, notify.GameCreated, g, "", nil)
	return g.ID(), nil
}

// PlaceShips places playerID's fleet and returns the game's resulting status.
func (s *Service) PlaceShips(ctx context.Context, gameID, playerID, token string, ships []game.Ship) (game.Status, error) {
	g, err := s.authorize(ctx, gameID, playerID, token)
	if err != nil {
		return "", err
	}

	status, err := g.PlaceShips(playerID, ships)
	if err != nil {
		s.log.Debug().Err(err).Str("game_id", gameID).Str("player_id", playerID).Msg("placement rejected")
		return status, err
	}

	s.log.Info().Str("game_id", gameID).Str("player_id", playerID).Str("status", string(status)).Msg("ships placed")
	s.emit(ctx, notify.ShipsPlaced, g, playerID, nil)
	return status, nil
}

// Shoot fires playerID's shot for the current round.
func (s *Service) Shoot(ctx context.Context, gameID, playerID, token string, x, y int) (game.ShotResult, error) {
	g, err := s.authorize(ctx, gameID, playerID, token)
	if err != nil {
		return game.ShotResult{}, err
	}

	res, err := g.Shoot(playerID, game.Coord{X: x, Y: y})
	if err != nil {
		s.log.Debug().Err(err).Str("game_id", gameID).Str("player_id", playerID).Msg("shot rejected")
		return res, err
	}

	s.log.Debug().
		Str("game_id", gameID).
		Str("player_id", playerID).
		Stringer("target", res.Coord).
		Str("outcome", string(res.Outcome)).
		Bool("already_resolved", res.AlreadyResolved).
		Int("round", res.Round).
		Msg("shot resolved")
	s.emit(ctx, notify.ShotFired, g, playerID, &res)
	if res.GameFinished {
		s.log.Info().Str("game_id", gameID).Strs("winners", res.Winners).Int("rounds", res.Round).Msg("game finished")
		s.emit(ctx, notify.GameFinished, g, "", nil)
	}
	return res, nil
}

// GetGame returns a detached snapshot of a game.
func (s *Service) GetGame(ctx context.Context, gameID string) (game.Snapshot, error) {
	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return g.Snapshot(), nil
}

// ListGames returns summaries of every game in creation order.
func (s *Service) ListGames(ctx context.Context) ([]game.Summary, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]game.Summary, len(games))
	for i, g := range games {
		out[i] = g.Summary()
	}
	return out, nil
}

// DeleteGame removes a game from the lobby.
func (s *Service) DeleteGame(ctx context.Context, gameID string) error {
	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		return err
	}
	if err := s.games.Delete(ctx, gameID); err != nil {
		return err
	}
	s.log.Info().Str("game_id", gameID).Msg("game deleted")
	s.emit(ctx, notify.GameDeleted, g, "", nil)
	return nil
}

func (s *Service) authorize(ctx context.Context, gameID, playerID, token string) (*game.Game, error) {
	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := s.players.Authenticate(playerID, token); err != nil {
		s.log.Warn().Str("game_id", gameID).Str("player_id", playerID).Msg("authentication failed")
		return nil, err
	}
	return g, nil
}

func (s *Service) emit(ctx context.Context, typ notify.EventType, g *game.Game, playerID string, shot *game.ShotResult) {
	e := notify.NewEvent(typ, g.Summary(), s.participants(g.Players()))
	e.PlayerID = playerID
	e.Shot = shot
	s.notifier.Notify(ctx, e)
}

func (s *Service) participants(ids [2]string) []notify.Participant {
	out := make([]notify.Participant, 0, len(ids))
	for _, id := range ids {
		p := notify.Participant{ID: id}
		if known, err := s.players.Get(id); err == nil {
			p.Name = known.Name
		}
		out = append(out, p)
	}
	return out
}
