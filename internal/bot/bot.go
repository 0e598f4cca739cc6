// Package bot wires the decision engine to the transport: it consumes
// decoded push events, keeps the latest snapshot, and plays exactly one
// action per snapshot in which it holds the turn.
package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nope-cardgame/nopebot/internal/client"
	"github.com/nope-cardgame/nopebot/internal/history"
	"github.com/nope-cardgame/nopebot/internal/models"
	"github.com/nope-cardgame/nopebot/internal/nope"
)

// ActionSink is the outbound half of the transport contract: one action
// per completed decision, plus invite answers.
type ActionSink interface {
	PlayAction(ctx context.Context, action *models.Action) error
	Ready(ctx context.Context, msg client.ReadyMessage) error
}

// InvitePolicy decides whether to accept proposals. The stock policy
// accepts everything.
type InvitePolicy struct {
	AcceptGame       func(*models.Game) bool
	AcceptTournament func(*models.Tournament) bool
}

// AcceptAll answers yes to every game and tournament invite.
func AcceptAll() InvitePolicy {
	return InvitePolicy{
		AcceptGame:       func(*models.Game) bool { return true },
		AcceptTournament: func(*models.Tournament) bool { return true },
	}
}

// Bot is one independent player instance: one connection, one snapshot,
// no state shared with other instances. The current snapshot reference
// is swapped atomically on every gameState push and each decision is
// computed fresh from it.
type Bot struct {
	id       uuid.UUID
	username string
	selector *nope.Selector
	sink     ActionSink
	invites  InvitePolicy
	recorder *history.Publisher
	log      *logrus.Entry

	current atomic.Pointer[models.Game]
}

// Option customizes a Bot at construction.
type Option func(*Bot)

// WithInvitePolicy replaces the accept-all invite policy.
func WithInvitePolicy(p InvitePolicy) Option {
	return func(b *Bot) { b.invites = p }
}

// WithRecorder makes the bot publish every played action and game end
// to the history queue.
func WithRecorder(p *history.Publisher) Option {
	return func(b *Bot) { b.recorder = p }
}

// New builds a bot instance playing under the given username.
func New(username string, selector *nope.Selector, sink ActionSink, logger *logrus.Logger, opts ...Option) *Bot {
	b := &Bot{
		id:       uuid.New(),
		username: username,
		selector: selector,
		sink:     sink,
		invites:  AcceptAll(),
		log: logger.WithFields(logrus.Fields{
			"component": "bot",
			"username":  username,
		}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind attaches the outbound transport. The bot and the transport
// reference each other (the client dispatches events to the bot, the
// bot answers through the client), so the sink may be attached after
// construction but must be set before the first event arrives.
func (b *Bot) Bind(sink ActionSink) {
	b.sink = sink
}

// CurrentGame returns the latest snapshot, or nil before the first
// gameState push.
func (b *Bot) CurrentGame() *models.Game {
	return b.current.Load()
}

// Connected implements client.Listener.
func (b *Bot) Connected(ctx context.Context) {
	b.log.Info("socket connected")
}

// Disconnected implements client.Listener.
func (b *Bot) Disconnected(err error) {
	if err != nil {
		b.log.WithError(err).Warn("socket disconnected")
		return
	}
	b.log.Info("socket disconnected")
}

// HandleEvent implements client.Listener with an exhaustive match over
// the event union. Informational events are logged and never stop the
// loop; only invariant violations from the decision path return an
// error.
func (b *Bot) HandleEvent(ctx context.Context, ev client.Event) error {
	switch ev := ev.(type) {
	case client.GameStateEvent:
		return b.handleGameState(ctx, &ev.Game)

	case client.GameInviteEvent:
		accept := b.invites.AcceptGame(&ev.Game)
		b.log.WithFields(logrus.Fields{"gameId": ev.Game.ID, "accept": accept}).Info("game invite")
		if !accept {
			return nil
		}
		return b.sink.Ready(ctx, client.ReadyMessage{
			Accept:   true,
			Type:     client.ReadyTypeGame,
			InviteID: ev.Game.ID,
		})

	case client.TournamentInviteEvent:
		accept := b.invites.AcceptTournament(&ev.Tournament)
		b.log.WithFields(logrus.Fields{"tournamentId": ev.Tournament.ID, "accept": accept}).Info("tournament invite")
		if !accept {
			return nil
		}
		return b.sink.Ready(ctx, client.ReadyMessage{
			Accept:   true,
			Type:     client.ReadyTypeTournament,
			InviteID: ev.Tournament.ID,
		})

	case client.EliminatedEvent:
		b.log.WithFields(logrus.Fields{
			"reason":       ev.Reason,
			"disqualified": ev.Disqualified,
		}).Warn("eliminated from game")
		return nil

	case client.ErrorEvent:
		b.log.WithField("message", ev.Message).Warn("communication error from server")
		return nil

	case client.GameEndEvent:
		b.logGameEnd(&ev.Game)
		b.record(ctx, history.Record{
			Kind:     history.KindGameEnd,
			GameID:   ev.Game.ID,
			Rankings: rankings(&ev.Game),
		})
		return nil

	case client.TournamentEndEvent:
		b.log.WithField("tournamentId", ev.Tournament.ID).Info("tournament ended")
		return nil
	}
	return fmt.Errorf("unhandled event type %T", ev)
}

// handleGameState swaps in the new snapshot and, when the bot holds the
// turn, asks the selector for the single action to play. Selector
// errors are fatal: an unresolvable game state must surface instead of
// silently running down the server's action timeout.
func (b *Bot) handleGameState(ctx context.Context, g *models.Game) error {
	b.current.Store(g)

	if !g.IsCurrentPlayer(b.username) {
		return nil
	}

	action, err := b.selector.Decide(g)
	if err != nil {
		return fmt.Errorf("deciding turn in game %s: %w", g.ID, err)
	}
	if action == nil {
		// Observation-only state, nothing to play.
		return nil
	}

	if err := b.sink.PlayAction(ctx, action); err != nil {
		return fmt.Errorf("playing %s in game %s: %w", action.Type, g.ID, err)
	}

	b.record(ctx, history.Record{
		Kind:        history.KindAction,
		GameID:      g.ID,
		ActionType:  string(action.Type),
		Explanation: action.Explanation,
		Cards:       action.Cards,
	})
	return nil
}

// record publishes to the history queue when a recorder is configured.
// Recording is observability; failures are logged, never fatal.
func (b *Bot) record(ctx context.Context, rec history.Record) {
	if b.recorder == nil {
		return
	}
	rec.BotID = b.id
	rec.Username = b.username
	if err := b.recorder.Publish(ctx, rec); err != nil {
		b.log.WithError(err).Warn("failed to publish history record")
	}
}

// logGameEnd prints the final standings the way the stock clients do.
func (b *Bot) logGameEnd(g *models.Game) {
	players := make([]models.Player, len(g.Players))
	copy(players, g.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Ranking < players[j].Ranking
	})

	var standings []string
	for _, p := range players {
		standings = append(standings, fmt.Sprintf("%s: %d.", p.Username, p.Ranking))
	}
	b.log.WithFields(logrus.Fields{
		"gameId":    g.ID,
		"standings": strings.Join(standings, " "),
	}).Info("game ended")
}

// rankings flattens the final standings for the history record.
func rankings(g *models.Game) map[string]int {
	result := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		result[p.Username] = p.Ranking
	}
	return result
}
