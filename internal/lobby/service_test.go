package lobby

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/notify"
	"github.com/robalobadob/battleship/internal/player"
	"github.com/robalobadob/battleship/internal/store"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) types() []notify.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	svc    *Service
	events *recordingNotifier
	one    player.Player
	two    player.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	events := &recordingNotifier{}
	registry := player.NewRegistry(player.NewTokens("service-test-secret"), bcrypt.MinCost)
	svc := New(registry, store.NewMemoryStore(0), events, zerolog.Nop())

	one, err := svc.RegisterPlayer(context.Background(), "Player One")
	require.NoError(t, err)
	two, err := svc.RegisterPlayer(context.Background(), "Player Two")
	require.NoError(t, err)
	return &fixture{svc: svc, events: events, one: one, two: two}
}

func (f *fixture) newShootingGame(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	id, err := f.svc.CreateGame(ctx, f.one.ID, f.two.ID)
	require.NoError(t, err)
	_, err = f.svc.PlaceShips(ctx, id, f.one.ID, f.one.Token, game.DefaultFleet())
	require.NoError(t, err)
	status, err := f.svc.PlaceShips(ctx, id, f.two.ID, f.two.Token, game.DefaultFleet())
	require.NoError(t, err)
	require.Equal(t, game.StatusShoot, status)
	return id
}

func TestCreateGame(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()

	// Act
	id, err := f.svc.CreateGame(ctx, f.one.ID, f.two.ID)

	// Assert
	require.NoError(t, err)
	snap, err := f.svc.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaceShips, snap.Status)
	assert.Equal(t, [2]string{f.one.ID, f.two.ID}, snap.Players)

	require.Len(t, f.events.events, 1)
	e := f.events.events[0]
	assert.Equal(t, notify.GameCreated, e.Type)
	assert.Equal(t, id, e.GameID)
	assert.Equal(t, []notify.Participant{
		{ID: f.one.ID, Name: "Player One"},
		{ID: f.two.ID, Name: "Player Two"},
	}, e.Players)
}

func TestCreateGame_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateGame(ctx, f.one.ID, "ghost")
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)

	_, err = f.svc.CreateGame(ctx, f.one.ID, f.one.ID)
	assert.ErrorIs(t, err, game.ErrInvalidRequest)

	_, err = f.svc.CreateGame(ctx, "", f.two.ID)
	assert.ErrorIs(t, err, game.ErrInvalidRequest)

	assert.Empty(t, f.events.events)
}

func TestPlaceShips_CheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.CreateGame(ctx, f.one.ID, f.two.ID)
	require.NoError(t, err)

	// Unknown game wins over a bad token.
	_, err = f.svc.PlaceShips(ctx, "missing", f.one.ID, "bad", game.DefaultFleet())
	assert.ErrorIs(t, err, game.ErrGameNotFound)

	// A bad token wins over a bad fleet.
	_, err = f.svc.PlaceShips(ctx, id, f.one.ID, f.two.Token, nil)
	assert.ErrorIs(t, err, game.ErrPlayerNotAuthorized)

	// A registered player who is not bound to the game.
	three, err := f.svc.RegisterPlayer(ctx, "Player Three")
	require.NoError(t, err)
	_, err = f.svc.PlaceShips(ctx, id, three.ID, three.Token, game.DefaultFleet())
	assert.ErrorIs(t, err, game.ErrPlayerNotAuthorized)

	_, err = f.svc.PlaceShips(ctx, id, f.one.ID, f.one.Token, game.DefaultFleet()[:4])
	assert.ErrorIs(t, err, &game.Error{Kind: game.KindInvalidPlacement, Rule: game.RuleFleetComposition})

	assert.Equal(t, []notify.EventType{notify.GameCreated}, f.events.types())
}

func TestShoot_EmitsEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newShootingGame(t)

	res, err := f.svc.Shoot(ctx, id, f.one.ID, f.one.Token, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeHit, res.Outcome)

	_, err = f.svc.Shoot(ctx, id, f.one.ID, f.one.Token, 1, 0)
	assert.ErrorIs(t, err, game.ErrAlreadyShotThisRound)

	types := f.events.types()
	assert.Equal(t, []notify.EventType{notify.GameCreated, notify.ShipsPlaced, notify.ShipsPlaced, notify.ShotFired}, types)
	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, f.one.ID, last.PlayerID)
	require.NotNil(t, last.Shot)
	assert.Equal(t, game.Coord{X: 0, Y: 0}, last.Shot.Coord)
}

func TestShoot_FinishingGameEmitsGameFinishedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newShootingGame(t)

	var last game.ShotResult
	for _, s := range game.DefaultFleet() {
		for _, c := range s.Cells() {
			var err error
			last, err = f.svc.Shoot(ctx, id, f.one.ID, f.one.Token, c.X, c.Y)
			require.NoError(t, err)
			_, err = f.svc.Shoot(ctx, id, f.two.ID, f.two.Token, 9, 9)
			require.NoError(t, err)
		}
	}

	assert.Equal(t, []string{f.one.ID}, last.Winners)
	var finished []notify.Event
	for _, e := range f.events.events {
		if e.Type == notify.GameFinished {
			finished = append(finished, e)
		}
	}
	require.Len(t, finished, 1)
	assert.Equal(t, game.StatusFinished, finished[0].Status)
	assert.Equal(t, []string{f.one.ID}, finished[0].Winners)
	assert.Equal(t, 17, finished[0].Rounds)

	_, err := f.svc.Shoot(ctx, id, f.two.ID, f.two.Token, 0, 0)
	assert.ErrorIs(t, err, game.ErrGameAlreadyFinished)
}

func TestListAndDeleteGames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.CreateGame(ctx, f.one.ID, f.two.ID)
	require.NoError(t, err)
	second, err := f.svc.CreateGame(ctx, f.two.ID, f.one.ID)
	require.NoError(t, err)

	list, err := f.svc.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, second, list[1].ID)

	require.NoError(t, f.svc.DeleteGame(ctx, first))
	assert.ErrorIs(t, f.svc.DeleteGame(ctx, first), game.ErrGameNotFound)
	_, err = f.svc.GetGame(ctx, first)
	assert.ErrorIs(t, err, game.ErrGameNotFound)

	list, err = f.svc.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second, list[0].ID)
	assert.Contains(t, f.events.types(), notify.GameDeleted)
}

func TestPlayers(t *testing.T) {
	f := newFixture(t)

	players := f.svc.Players(context.Background())

	require.Len(t, players, 2)
	assert.Equal(t, "Player One", players[0].Name)
	assert.Empty(t, players[0].Token)
}

func TestNotifierPanicDoesNotFailAction(t *testing.T) {
	registry := player.NewRegistry(player.NewTokens("secret"), bcrypt.MinCost)
	sink := notify.Multi{notify.Func(func(context.Context, notify.Event) { panic("sink down") })}
	svc := New(registry, store.NewMemoryStore(0), sink, zerolog.Nop())
	ctx := context.Background()
	one, err := svc.RegisterPlayer(ctx, "a")
	require.NoError(t, err)
	two, err := svc.RegisterPlayer(ctx, "b")
	require.NoError(t, err)

	id, err := svc.CreateGame(ctx, one.ID, two.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
