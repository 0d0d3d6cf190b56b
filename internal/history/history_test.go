package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/notify"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func result(gameID string, winners ...string) Result {
	return Result{
		GameID:     gameID,
		Players:    []Participant{{ID: "p1", Name: "Ann"}, {ID: "p2", Name: "Ben"}},
		Rounds:     17,
		Winners:    winners,
		FinishedAt: time.Now(),
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	first, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestRecordResult_UpdatesStandings(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := openTestStore(t)

	// Act
	written, err := s.RecordResult(ctx, result("g1", "p1"))
	require.NoError(t, err)
	assert.True(t, written)
	_, err = s.RecordResult(ctx, result("g2", "p1", "p2"))
	require.NoError(t, err)

	// Assert
	board, err := s.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []Standing{
		{PlayerID: "p1", Name: "Ann", GamesPlayed: 2, Wins: 2},
		{PlayerID: "p2", Name: "Ben", GamesPlayed: 2, Wins: 1},
	}, board)

	winners, err := s.Winners(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, winners)
}

func TestRecordResult_SameGameTwice(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.RecordResult(ctx, result("g1", "p2"))
	require.NoError(t, err)
	written, err := s.RecordResult(ctx, result("g1", "p2"))
	require.NoError(t, err)

	assert.False(t, written)
	st, err := s.PlayerStanding(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 1, st.Wins)
}

func TestRecordResult_RequiresTwoPlayers(t *testing.T) {
	s := openTestStore(t)
	r := result("g1")
	r.Players = r.Players[:1]

	_, err := s.RecordResult(context.Background(), r)

	assert.Error(t, err)
}

func TestLeaderboard_Limit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.RecordResult(ctx, result("g1", "p2"))
	require.NoError(t, err)

	board, err := s.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "p2", board[0].PlayerID)
}

func TestPlayerStanding_Unknown(t *testing.T) {
	_, err := openTestStore(t).PlayerStanding(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecorder_ArchivesFinishedGames(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	rec := NewRecorder(s, zerolog.Nop())
	players := []notify.Participant{{ID: "p1", Name: "Ann"}, {ID: "p2", Name: "Ben"}}

	rec.Notify(ctx, notify.Event{Type: notify.ShotFired, GameID: "g1", Players: players})
	board, err := s.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, board)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	rec.Notify(cancelled, notify.Event{
		Type:    notify.GameFinished,
		GameID:  "g1",
		Status:  game.StatusFinished,
		Players: players,
		Winners: []string{"p1"},
		Rounds:  20,
		At:      time.Now(),
	})

	st, err := s.PlayerStanding(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Wins)
}
