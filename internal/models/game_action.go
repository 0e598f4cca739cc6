package models

// GameAction is a server-reported action entry, used both for a
// snapshot's lastAction field and its full action history.
type GameAction struct {
	Type            string  `json:"type"`
	Explanation     string  `json:"explanation,omitempty"`
	Player          *Player `json:"player,omitempty"`
	Amount          int     `json:"amount,omitempty"`
	Cards           []Card  `json:"cards,omitempty"`
	NominatedPlayer *Player `json:"nominatedPlayer,omitempty"`
	NominatedColor  Color   `json:"nominatedColor,omitempty"`
	NominatedAmount int     `json:"nominatedAmount,omitempty"`
}
