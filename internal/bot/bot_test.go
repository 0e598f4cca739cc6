package bot

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nope-cardgame/nopebot/internal/client"
	"github.com/nope-cardgame/nopebot/internal/models"
	"github.com/nope-cardgame/nopebot/internal/nope"
)

// mockSink records the outbound traffic of a bot under test.
type mockSink struct {
	actions []*models.Action
	readies []client.ReadyMessage
	playErr error
}

func (m *mockSink) PlayAction(ctx context.Context, action *models.Action) error {
	m.actions = append(m.actions, action)
	return m.playErr
}

func (m *mockSink) Ready(ctx context.Context, msg client.ReadyMessage) error {
	m.readies = append(m.readies, msg)
	return nil
}

func newTestBot(t *testing.T, opts ...Option) (*Bot, *mockSink) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	sink := &mockSink{}
	b := New("bot", nope.NewSelector(nope.DefaultConfig()), sink, logger, opts...)
	return b, sink
}

func intPtr(n int) *int { return &n }

func snapshot(state models.GameState, currentUsername string) *models.Game {
	players := []models.Player{
		{
			Username:   "bot",
			SocketID:   "s1",
			CardAmount: intPtr(2),
			Cards: []models.Card{
				{Kind: models.KindNumber, Value: 1, Colors: []models.Color{models.ColorRed}, Name: "1 red"},
				{Kind: models.KindNumber, Value: 2, Colors: []models.Color{models.ColorBlue}, Name: "2 blue"},
			},
		},
		{Username: "anna", SocketID: "s2", CardAmount: intPtr(5)},
	}

	g := &models.Game{
		ID:      "game-1",
		State:   state,
		Players: players,
		DiscardPile: []models.Card{
			{Kind: models.KindNumber, Value: 1, Colors: []models.Color{models.ColorRed}, Name: "1 red"},
		},
	}
	if p := g.PlayerByUsername(currentUsername); p != nil {
		g.CurrentPlayer = p
	}
	return g
}

func TestPlaysExactlyOneActionWhenHoldingTurn(t *testing.T) {
	b, sink := newTestBot(t)

	g := snapshot(models.StateTurnStart, "bot")
	err := b.HandleEvent(context.Background(), client.GameStateEvent{Game: *g})
	require.NoError(t, err)

	require.Len(t, sink.actions, 1)
	assert.Equal(t, models.ActionDiscard, sink.actions[0].Type)
	assert.Empty(t, sink.readies)
}

func TestIgnoresSnapshotWhenNotCurrentPlayer(t *testing.T) {
	b, sink := newTestBot(t)

	g := snapshot(models.StateTurnStart, "anna")
	err := b.HandleEvent(context.Background(), client.GameStateEvent{Game: *g})
	require.NoError(t, err)
	assert.Empty(t, sink.actions)
}

func TestObservationStatePlaysNothing(t *testing.T) {
	b, sink := newTestBot(t)

	g := snapshot(models.StateGameStart, "bot")
	err := b.HandleEvent(context.Background(), client.GameStateEvent{Game: *g})
	require.NoError(t, err)
	assert.Empty(t, sink.actions)
}

func TestSnapshotIsRetained(t *testing.T) {
	b, _ := newTestBot(t)
	assert.Nil(t, b.CurrentGame())

	g := snapshot(models.StateTurnStart, "anna")
	require.NoError(t, b.HandleEvent(context.Background(), client.GameStateEvent{Game: *g}))

	got := b.CurrentGame()
	require.NotNil(t, got)
	assert.Equal(t, "game-1", got.ID)
}

func TestAcceptsGameInvite(t *testing.T) {
	b, sink := newTestBot(t)

	err := b.HandleEvent(context.Background(), client.GameInviteEvent{Game: models.Game{ID: "game-9"}})
	require.NoError(t, err)

	require.Len(t, sink.readies, 1)
	assert.True(t, sink.readies[0].Accept)
	assert.Equal(t, client.ReadyTypeGame, sink.readies[0].Type)
	assert.Equal(t, "game-9", sink.readies[0].InviteID)
}

func TestAcceptsTournamentInvite(t *testing.T) {
	b, sink := newTestBot(t)

	err := b.HandleEvent(context.Background(), client.TournamentInviteEvent{Tournament: models.Tournament{ID: "t-3"}})
	require.NoError(t, err)

	require.Len(t, sink.readies, 1)
	assert.Equal(t, client.ReadyTypeTournament, sink.readies[0].Type)
	assert.Equal(t, "t-3", sink.readies[0].InviteID)
}

func TestInvitePolicyCanDecline(t *testing.T) {
	policy := InvitePolicy{
		AcceptGame:       func(*models.Game) bool { return false },
		AcceptTournament: func(*models.Tournament) bool { return false },
	}
	b, sink := newTestBot(t, WithInvitePolicy(policy))

	require.NoError(t, b.HandleEvent(context.Background(), client.GameInviteEvent{Game: models.Game{ID: "game-9"}}))
	require.NoError(t, b.HandleEvent(context.Background(), client.TournamentInviteEvent{Tournament: models.Tournament{ID: "t-3"}}))
	assert.Empty(t, sink.readies)
}

func TestInformationalEventsAreNotFatal(t *testing.T) {
	b, sink := newTestBot(t)

	ctx := context.Background()
	assert.NoError(t, b.HandleEvent(ctx, client.EliminatedEvent{Reason: "timeout", Disqualified: true}))
	assert.NoError(t, b.HandleEvent(ctx, client.ErrorEvent{Message: "invalid action"}))
	assert.NoError(t, b.HandleEvent(ctx, client.GameEndEvent{Game: *snapshot(models.StateGameEnd, "")}))
	assert.NoError(t, b.HandleEvent(ctx, client.TournamentEndEvent{Tournament: models.Tournament{ID: "t-1"}}))
	assert.Empty(t, sink.actions)
}

func TestSelectorInvariantErrorIsFatal(t *testing.T) {
	b, _ := newTestBot(t)

	// An actionable state with an empty discard pile violates the rule
	// model; the loop must stop rather than time out the turn silently.
	g := snapshot(models.StateTurnStart, "bot")
	g.DiscardPile = nil

	err := b.HandleEvent(context.Background(), client.GameStateEvent{Game: *g})
	assert.ErrorIs(t, err, nope.ErrEmptyPile)
}

func TestPlayActionFailureIsFatal(t *testing.T) {
	b, sink := newTestBot(t)
	sink.playErr = assert.AnError

	g := snapshot(models.StateTurnStart, "bot")
	err := b.HandleEvent(context.Background(), client.GameStateEvent{Game: *g})
	assert.ErrorIs(t, err, assert.AnError)
}
