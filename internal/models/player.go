package models

// Player is one participant in a game, as embedded in a game snapshot.
//
// CardAmount is a pointer because the server omits the count for
// opponents in some rule configurations; Cards is only populated for
// the receiving client's own player.
type Player struct {
	Username     string `json:"username"`
	SocketID     string `json:"socketId"`
	CardAmount   *int   `json:"cardAmount,omitempty"`
	Cards        []Card `json:"cards,omitempty"`
	Ranking      int    `json:"ranking"`
	Disqualified bool   `json:"disqualified"`
}

// KnownCardCount returns the player's card count and whether it is
// known at all.
func (p *Player) KnownCardCount() (int, bool) {
	if p.CardAmount == nil {
		return 0, false
	}
	return *p.CardAmount, true
}
