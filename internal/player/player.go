// internal/player/player.go
//
// Process-wide player registry.
// Responsibilities:
//   - Register players under a fresh UUID and issue their token.
//   - Keep only a bcrypt hash of each token; the token itself is returned once.
//   - Authenticate (player id, token) pairs for every game action.
//
// Identifiers and tokens never change after registration. The registry is
// constructed once at startup and handed to the lobby; nothing here is global.

package player

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/battleship/internal/game"
)

const maxNameLength = 40

// Player is a registered participant. Token is only populated on the value
// returned from Register.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type record struct {
	player    Player
	tokenHash []byte
}

// Registry holds every registered player.
type Registry struct {
	mu       sync.RWMutex
	players  map[string]*record
	order    []string
	tokens   *Tokens
	hashCost int
}

// NewRegistry builds an empty registry. hashCost is the bcrypt cost used for
// token hashes.
func NewRegistry(tokens *Tokens, hashCost int) *Registry {
	return &Registry{
		players:  make(map[string]*record),
		tokens:   tokens,
		hashCost: hashCost,
	}
}

// Register creates a player and issues its token.
func (r *Registry) Register(name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return Player{}, game.Errorf(game.KindInvalidRequest, "name must be 1-%d characters", maxNameLength)
	}

	p := Player{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	token, err := r.tokens.Issue(p.ID, p.Name)
	if err != nil {
		return Player{}, err
	}
	hash, err := hashToken(token, r.hashCost)
	if err != nil {
		return Player{}, err
	}

	r.mu.Lock()
	r.players[p.ID] = &record{player: p, tokenHash: hash}
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	p.Token = token
	return p, nil
}

// Get looks up a player by id.
func (r *Registry) Get(id string) (Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.players[id]
	if !ok {
		return Player{}, game.Errorf(game.KindPlayerNotFound, "player %s is not registered", id)
	}
	return rec.player, nil
}

// List returns all players in registration order.
func (r *Registry) List() []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id].player)
	}
	return out
}

// Authenticate checks that token is the one issued to playerID.
func (r *Registry) Authenticate(playerID, token string) error {
	r.mu.RLock()
	rec, ok := r.players[playerID]
	r.mu.RUnlock()
	if !ok || token == "" || !checkToken(rec.tokenHash, token) {
		return game.Errorf(game.KindPlayerNotAuthorized, "invalid credentials for player %s", playerID)
	}
	return nil
}

// PlayerFromToken returns the player id a token was issued to. It only checks
// the signature; Authenticate is still required before acting as that player.
func (r *Registry) PlayerFromToken(token string) (string, error) {
	id, err := r.tokens.Subject(token)
	if err != nil {
		return "", game.Errorf(game.KindPlayerNotAuthorized, "invalid token: %v", err)
	}
	return id, nil
}
