package models

// GameConfig is the request body for starting a game, mirroring the
// rule flags a snapshot reports back.
type GameConfig struct {
	NoActionCards      bool     `json:"noActionCards"`
	NoWildcards        bool     `json:"noWildcards"`
	OneMoreStartCards  bool     `json:"oneMoreStartCards"`
	ActionTimeout      int      `json:"actionTimeout,omitempty"`     // seconds, 1-120
	InvitationTimeout  int      `json:"invitationTimeout,omitempty"` // seconds, 1-600
	StartWithRejection bool     `json:"startWithRejection"`
	Players            []Player `json:"players"`
}

// TournamentConfig is the request body for starting a tournament.
type TournamentConfig struct {
	Mode               TournamentMode `json:"mode"`
	NoActionCards      bool           `json:"noActionCards"`
	NoWildcards        bool           `json:"noWildcards"`
	OneMoreStartCards  bool           `json:"oneMoreStartCards"`
	ActionTimeout      int            `json:"actionTimeout,omitempty"`
	InvitationTimeout  int            `json:"invitationTimeout,omitempty"`
	StartWithRejection bool           `json:"startWithRejection"`
	SendGameInvite     bool           `json:"sendGameInvite"`
	Participants       []Player       `json:"participants"`
}
