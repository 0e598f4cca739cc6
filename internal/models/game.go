package models

// GameState is the server-driven phase of a running game. The client
// never transitions states itself; it only reacts to the state carried
// by each snapshot.
type GameState string

const (
	StateGameStart       GameState = "game_start"
	StateNominateFlipped GameState = "nominate_flipped"
	StateTurnStart       GameState = "turn_start"
	StateCardDrawn       GameState = "card_drawn"
	StateGameEnd         GameState = "game_end"
	StateCancelled       GameState = "cancelled"
)

// Game is one authoritative snapshot of a running game, pushed in full
// by the server on every change. Snapshots are value copies: the client
// must never mutate one, and every decision is computed fresh from the
// latest snapshot.
//
// DiscardPile index 0 is the top of the pile (most recently played).
// LastNominateColor and LastNominateAmount are only meaningful directly
// after a nominate action.
type Game struct {
	ID                 string       `json:"id"`
	State              GameState    `json:"state"`
	NoActionCards      bool         `json:"noActionCards"`
	NoWildcards        bool         `json:"noWildcards"`
	OneMoreStartCards  bool         `json:"oneMoreStartCards"`
	ActionTimeout      int          `json:"actionTimeout"`     // seconds, 1-120
	InvitationTimeout  int          `json:"invitationTimeout"` // seconds, 1-600
	StartWithRejection bool         `json:"startWithRejection"`
	EncounterRound     int          `json:"encounterRound"`
	PlayerAmount       int          `json:"playerAmount"`
	Players            []Player     `json:"players"`
	DiscardPile        []Card       `json:"discardPile"`
	LastAction         *GameAction  `json:"lastAction,omitempty"`
	LastNominateAmount int          `json:"lastNominateAmount,omitempty"`
	LastNominateColor  Color        `json:"lastNominateColor,omitempty"`
	CurrentPlayer      *Player      `json:"currentPlayer,omitempty"`
	StartTime          string       `json:"startTime,omitempty"`
	EndTime            string       `json:"endTime,omitempty"`
	InitialTopCard     *Card        `json:"initialTopCard,omitempty"`
	Actions            []GameAction `json:"actions,omitempty"`
}

// PlayerByUsername returns the snapshot's player entry for the given
// username, or nil if absent.
func (g *Game) PlayerByUsername(username string) *Player {
	for i := range g.Players {
		if g.Players[i].Username == username {
			return &g.Players[i]
		}
	}
	return nil
}

// IsCurrentPlayer reports whether the given username holds the turn in
// this snapshot.
func (g *Game) IsCurrentPlayer(username string) bool {
	return g.CurrentPlayer != nil && g.CurrentPlayer.Username == username
}
