package client

import (
	"encoding/json"
	"fmt"

	"github.com/nope-cardgame/nopebot/internal/models"
)

// Wire names of the push events exchanged with the game server.
const (
	EventGameState        = "gameState"
	EventGameInvite       = "gameInvite"
	EventTournamentInvite = "tournamentInvite"
	EventEliminated       = "eliminated"
	EventError            = "error"
	EventGameEnd          = "gameEnd"
	EventTournamentEnd    = "tournamentEnd"

	// Outbound events.
	EventPlayAction = "playAction"
	EventReady      = "ready"
)

// envelope is the framing of every websocket message: an event name
// plus a JSON payload.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is the closed union of inbound push messages. Decoding happens
// exactly once at the transport boundary; everything downstream
// switches over these concrete types instead of event-name strings.
type Event interface {
	eventName() string
}

// GameStateEvent carries a full authoritative game snapshot.
type GameStateEvent struct {
	Game models.Game
}

// GameInviteEvent proposes a game; the client answers with ready.
type GameInviteEvent struct {
	Game models.Game
}

// TournamentInviteEvent proposes a tournament.
type TournamentInviteEvent struct {
	Tournament models.Tournament
}

// EliminatedEvent informs the client it is out of the running game.
type EliminatedEvent struct {
	Reason       string `json:"reason"`
	Disqualified bool   `json:"disqualified"`
}

// ErrorEvent is a communication-level error. It never disqualifies the
// client and requires no answer.
type ErrorEvent struct {
	Message string `json:"message"`
}

// GameEndEvent carries the final snapshot of a finished game.
type GameEndEvent struct {
	Game models.Game
}

// TournamentEndEvent carries the final results of a tournament.
type TournamentEndEvent struct {
	Tournament models.Tournament
}

func (GameStateEvent) eventName() string        { return EventGameState }
func (GameInviteEvent) eventName() string       { return EventGameInvite }
func (TournamentInviteEvent) eventName() string { return EventTournamentInvite }
func (EliminatedEvent) eventName() string       { return EventEliminated }
func (ErrorEvent) eventName() string            { return EventError }
func (GameEndEvent) eventName() string          { return EventGameEnd }
func (TournamentEndEvent) eventName() string    { return EventTournamentEnd }

// DecodeEvent parses one raw websocket message into its concrete event
// type. Unknown event names are an error so that contract drift
// surfaces in the logs instead of being silently dropped.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid event envelope: %w", err)
	}

	switch env.Event {
	case EventGameState:
		var ev GameStateEvent
		if err := json.Unmarshal(env.Payload, &ev.Game); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
		}
		return ev, nil
	case EventGameInvite:
		var ev GameInviteEvent
		if err := json.Unmarshal(env.Payload, &ev.Game); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
		}
		return ev, nil
	case EventTournamentInvite:
		var ev TournamentInviteEvent
		if err := json.Unmarshal(env.Payload, &ev.Tournament); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
		}
		return ev, nil
	case EventEliminated:
		var ev EliminatedEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
		}
		return ev, nil
	case EventError:
		var ev ErrorEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
		}
		return ev, nil
	case EventGameEnd:
		var ev GameEndEvent
		if err := json.Unmarshal(env.Payload, &ev.Game); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
		}
		return ev, nil
	case EventTournamentEnd:
		var ev TournamentEndEvent
		if err := json.Unmarshal(env.Payload, &ev.Tournament); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
		}
		return ev, nil
	}
	return nil, fmt.Errorf("unknown event %q", env.Event)
}

// ReadyMessage answers a game or tournament invite.
type ReadyMessage struct {
	Accept   bool   `json:"accept"`
	Type     string `json:"type"` // "game" or "tournament"
	InviteID string `json:"inviteId"`
}

const (
	ReadyTypeGame       = "game"
	ReadyTypeTournament = "tournament"
)
