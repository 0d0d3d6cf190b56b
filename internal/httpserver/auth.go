package httpserver

import (
	"net/http"
	"strings"

	"github.com/robalobadob/battleship/internal/game"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); len(a) > 7 && strings.EqualFold(a[:7], "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// actingPlayer resolves who is acting: the explicit playerID when given,
// otherwise the subject of the bearer token. The lobby still authenticates
// the pair before touching any game.
func (s *Server) actingPlayer(r *http.Request, playerID string) (string, string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", "", game.Errorf(game.KindPlayerNotAuthorized, "missing bearer token")
	}
	if playerID != "" {
		return playerID, token, nil
	}
	id, err := s.deps.Lobby.PlayerFromToken(token)
	if err != nil {
		return "", "", err
	}
	return id, token, nil
}
