package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/battleship/internal/game"
)

const maxLeaderboardLimit = 100

// ------------------------------ PLAYERS ------------------------------------

func (s *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerReq
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.deps.Lobby.RegisterPlayer(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerPlayerRes{ID: p.ID, Name: p.Name, Token: p.Token, CreatedAt: p.CreatedAt})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Lobby.Players(r.Context()))
}

// ------------------------------- GAMES -------------------------------------

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.deps.Lobby.ListGames(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.deps.Lobby.CreateGame(r.Context(), req.FirstPlayerID, req.SecondPlayerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createGameRes{GameID: id})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Lobby.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(snap))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Lobby.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaceShips(w http.ResponseWriter, r *http.Request) {
	var req placeShipsReq
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	playerID, token, err := s.actingPlayer(r, req.PlayerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.deps.Lobby.PlaceShips(r.Context(), chi.URLParam(r, "id"), playerID, token, req.fleet())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, placeShipsRes{Status: status})
}

func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request) {
	var req shootReq
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	playerID, token, err := s.actingPlayer(r, req.PlayerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Lobby.Shoot(r.Context(), chi.URLParam(r, "id"), playerID, token, *req.X, *req.Y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.Winners == nil {
		res.Winners = []string{}
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSubscribe checks the game exists before handing the connection to the hub.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.deps.Lobby.GetGame(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deps.Subscriptions.Serve(w, r, id)
}

// ---------------------------- LEADERBOARD ----------------------------------

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLeaderboardLimit {
			s.writeError(w, r, game.Errorf(game.KindInvalidRequest, "limit must be 1-%d", maxLeaderboardLimit))
			return
		}
		limit = n
	}
	rows, err := s.deps.Leaderboard.Leaderboard(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
