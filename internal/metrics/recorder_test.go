package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/notify"
)

func TestRecorder_GameLifecycle(t *testing.T) {
	// Arrange
	r := NewRecorder()
	ctx := context.Background()

	// Act
	r.Notify(ctx, notify.Event{Type: notify.GameCreated})
	r.Notify(ctx, notify.Event{Type: notify.GameCreated})
	r.Notify(ctx, notify.Event{Type: notify.ShipsPlaced})
	r.Notify(ctx, notify.Event{Type: notify.ShipsPlaced})
	r.Notify(ctx, notify.Event{Type: notify.ShotFired, Shot: &game.ShotResult{Shot: game.Shot{Outcome: game.OutcomeMiss}}})
	r.Notify(ctx, notify.Event{Type: notify.ShotFired, Shot: &game.ShotResult{Shot: game.Shot{Outcome: game.OutcomeSunk}}})
	r.Notify(ctx, notify.Event{Type: notify.GameFinished, Status: game.StatusFinished, Winners: []string{"a", "b"}})
	r.Notify(ctx, notify.Event{Type: notify.GameDeleted, Status: game.StatusFinished})

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(r.gamesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gamesActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.placements))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.shots.WithLabelValues("MISS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.shots.WithLabelValues("SUNK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gamesFinished.WithLabelValues("2")))
}

func TestRecorder_DeletingUnfinishedGameLowersActive(t *testing.T) {
	r := NewRecorder()
	r.Notify(context.Background(), notify.Event{Type: notify.GameCreated})
	r.Notify(context.Background(), notify.Event{Type: notify.GameDeleted, Status: game.StatusShoot})

	assert.Equal(t, 0.0, testutil.ToFloat64(r.gamesActive))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.Notify(context.Background(), notify.Event{Type: notify.GameCreated})
	r.ObserveRequest(http.MethodPost, "/games", http.StatusCreated, 0.002)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "battleship_games_created_total 1")
	assert.Contains(t, string(body), `battleship_http_requests_total{method="POST",route="/games",status_code="201"} 1`)
}
