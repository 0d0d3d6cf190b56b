// internal/httpserver/server.go
//
// HTTP server wiring for the Battleship lobby.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, request log, rate
//     limiting, CORS, timeouts, JSON responses).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Player endpoints: POST/GET /players.
//   - Game endpoints: /games, /games/{id}, /games/{id}/ships, /games/{id}/shots.
//   - Live updates: GET /games/{id}/ws.
//   - Results: GET /leaderboard when the archive is enabled.
//
// Notes:
//   - Game actions authenticate with "Authorization: Bearer <token>". The acting
//     player is the body's playerId, or the token's subject when it is omitted.
//   - The websocket route sits outside the timeout group: subscriptions are
//     long-lived by nature.
//   - Engine errors map onto status codes in errors.go; the body is always
//     {"error": kind, "message": text}.

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/history"
	"github.com/robalobadob/battleship/internal/player"
)

// Lobby is the set of operations the API exposes.
type Lobby interface {
	RegisterPlayer(ctx context.Context, name string) (player.Player, error)
	Players(ctx context.Context) []player.Player
	PlayerFromToken(token string) (string, error)
	CreateGame(ctx context.Context, firstPlayerID, secondPlayerID string) (string, error)
	PlaceShips(ctx context.Context, gameID, playerID, token string, ships []game.Ship) (game.Status, error)
	Shoot(ctx context.Context, gameID, playerID, token string, x, y int) (game.ShotResult, error)
	GetGame(ctx context.Context, gameID string) (game.Snapshot, error)
	ListGames(ctx context.Context) ([]game.Summary, error)
	DeleteGame(ctx context.Context, gameID string) error
}

// Subscriptions upgrades a request into a live feed of one game's events.
type Subscriptions interface {
	Serve(w http.ResponseWriter, r *http.Request, gameID string)
}

// Leaderboard reads archived standings.
type Leaderboard interface {
	Leaderboard(ctx context.Context, limit int) ([]history.Standing, error)
}

// Metrics exposes and records HTTP metrics.
type Metrics interface {
	Handler() http.Handler
	ObserveRequest(method, route string, status int, seconds float64)
}

// Deps are the server's collaborators. Only Lobby is required; nil optional
// collaborators switch their routes off.
type Deps struct {
	Lobby         Lobby
	Subscriptions Subscriptions
	Leaderboard   Leaderboard
	Metrics       Metrics
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	deps     Deps
	validate *validator.Validate
	log      zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.ServerConfig, deps Deps, logger zerolog.Logger) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		deps:     deps,
		validate: validator.New(),
		log:      logger.With().Str("component", "http").Logger(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(s.requestLog(deps.Metrics))      // access log + request metrics
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(rateLimit(cfg.RateLimit, s.log)) // per-client token bucket
	s.r.Use(cors(cfg.ClientOrigin))          // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"service":"battleship","endpoints":["/health","/players","/games","/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if deps.Metrics != nil {
		s.r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// Long-lived subscriptions, no timeout.
	if deps.Subscriptions != nil {
		s.r.Get("/games/{id}/ws", s.handleSubscribe)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		r.Use(jsonContentType)

		r.Post("/players", s.handleRegisterPlayer)
		r.Get("/players", s.handleListPlayers)

		r.Get("/games", s.handleListGames)
		r.Post("/games", s.handleCreateGame)
		r.Get("/games/{id}", s.handleGetGame)
		r.Delete("/games/{id}", s.handleDeleteGame)
		r.Post("/games/{id}/ships", s.handlePlaceShips)
		r.Post("/games/{id}/shots", s.handleShoot)

		if deps.Leaderboard != nil {
			r.Get("/leaderboard", s.handleLeaderboard)
		}
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "no route for " + r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }
