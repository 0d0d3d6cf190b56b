package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/game"
)

func TestMulti_RecoversPanics(t *testing.T) {
	var got []EventType
	m := Multi{
		Func(func(context.Context, Event) { panic("boom") }),
		Func(func(_ context.Context, e Event) { got = append(got, e.Type) }),
		Nop{},
	}

	assert.NotPanics(t, func() {
		m.Notify(context.Background(), Event{Type: ShotFired, GameID: "g"})
	})
	assert.Equal(t, []EventType{ShotFired}, got)
}

func TestNewEvent(t *testing.T) {
	sum := game.Summary{ID: "g1", Status: game.StatusShoot, Rounds: 3, Winners: []string{"a"}}

	e := NewEvent(ShotFired, sum, []Participant{{ID: "a", Name: "A"}})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "g1", e.GameID)
	assert.Equal(t, game.StatusShoot, e.Status)
	assert.Equal(t, 3, e.Rounds)
	assert.Equal(t, []string{"a"}, e.Winners)
	assert.False(t, e.At.IsZero())
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(zerolog.Nop(), "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, r.URL.Query().Get("game"))
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_DeliversToGameRoom(t *testing.T) {
	// Arrange
	hub, url := startHub(t)
	watcher := dial(t, url+"?game=g1")
	other := dial(t, url+"?game=g2")
	require.Eventually(t, func() bool {
		return hub.Subscribers("g1") == 1 && hub.Subscribers("g2") == 1
	}, time.Second, 10*time.Millisecond)

	// Act
	hub.Notify(context.Background(), Event{
		Type:   ShotFired,
		GameID: "g1",
		Status: game.StatusShoot,
		Shot:   &game.ShotResult{Shot: game.Shot{Coord: game.Coord{X: 1, Y: 2}, Outcome: game.OutcomeHit}, Round: 1},
	})

	// Assert
	require.NoError(t, watcher.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := watcher.ReadMessage()
	require.NoError(t, err)
	var e Event
	require.NoError(t, json.Unmarshal(msg, &e))
	assert.Equal(t, ShotFired, e.Type)
	assert.Equal(t, "g1", e.GameID)
	require.NotNil(t, e.Shot)
	assert.Equal(t, game.OutcomeHit, e.Shot.Outcome)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "other games must not receive the event")
}

func TestHub_GameDeletedClosesRoom(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url+"?game=g1")
	require.Eventually(t, func() bool { return hub.Subscribers("g1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), Event{Type: GameDeleted, GameID: "g1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), string(GameDeleted))

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, hub.Subscribers("g1"))
}

func TestHub_CloseRefusesNewClients(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url+"?game=g1")
	require.Eventually(t, func() bool { return hub.Subscribers("g1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	late := dial(t, url+"?game=g1")
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub(zerolog.Nop(), "http://allowed.example")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "g1")
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
