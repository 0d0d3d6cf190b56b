package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a player has no archived games.
var ErrNotFound = errors.New("history: not found")

const defaultLeaderboardLimit = 20

// Participant is a player as recorded in a result.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Result is one finished game.
type Result struct {
	GameID     string        `json:"gameId"`
	Players    []Participant `json:"players"`
	Rounds     int           `json:"rounds"`
	Winners    []string      `json:"winners"`
	FinishedAt time.Time     `json:"finishedAt"`
}

// Standing is a player's archived record.
type Standing struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
}

// Store is the results archive.
type Store struct{ db *sql.DB }

// Open opens the archive at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordResult archives a finished game and updates both players' standings.
// Recording the same game twice is a no-op; the returned bool reports whether
// anything was written.
func (s *Store) RecordResult(ctx context.Context, r Result) (bool, error) {
	if len(r.Players) != 2 {
		return false, fmt.Errorf("result %s: expected 2 players, got %d", r.GameID, len(r.Players))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM results WHERE game_id=?`, r.GameID).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("lookup result %s: %w", r.GameID, err)
	}

	won := make(map[string]bool, len(r.Winners))
	for _, id := range r.Winners {
		won[id] = true
	}
	for _, p := range r.Players {
		wins := 0
		if won[p.ID] {
			wins = 1
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO players (id, name, games_played, wins)
            VALUES (?, ?, 1, ?)
            ON CONFLICT(id) DO UPDATE SET
                name = excluded.name,
                games_played = players.games_played + 1,
                wins = players.wins + excluded.wins,
                updated_at = CURRENT_TIMESTAMP`,
			p.ID, p.Name, wins,
		); err != nil {
			return false, fmt.Errorf("upsert player %s: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO results (game_id, first_id, second_id, rounds, finished_at)
        VALUES (?, ?, ?, ?, ?)`,
		r.GameID, r.Players[0].ID, r.Players[1].ID, r.Rounds, r.FinishedAt.UTC(),
	); err != nil {
		return false, fmt.Errorf("insert result %s: %w", r.GameID, err)
	}
	for _, id := range r.Winners {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO result_winners (game_id, player_id) VALUES (?, ?)`, r.GameID, id,
		); err != nil {
			return false, fmt.Errorf("insert winner %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

/**
 * Leaderboard returns the best players.
 *
 * - Ordered by wins DESC, then games played ASC, then name ASC.
 * - Default limit is 20 if not specified.
 */
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, games_played, wins
        FROM players
        ORDER BY wins DESC, games_played ASC, name ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Standing, 0, limit)
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.PlayerID, &st.Name, &st.GamesPlayed, &st.Wins); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// PlayerStanding returns one player's record, or ErrNotFound.
func (s *Store) PlayerStanding(ctx context.Context, playerID string) (Standing, error) {
	var st Standing
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, games_played, wins FROM players WHERE id=?`, playerID,
	).Scan(&st.PlayerID, &st.Name, &st.GamesPlayed, &st.Wins)
	if errors.Is(err, sql.ErrNoRows) {
		return Standing{}, ErrNotFound
	}
	return st, err
}

// Winners returns the archived winner ids of a game, in no particular order.
func (s *Store) Winners(ctx context.Context, gameID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id FROM result_winners WHERE game_id=? ORDER BY player_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
