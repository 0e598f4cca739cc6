package models

// TournamentMode describes how a tournament schedules and scores its
// games.
type TournamentMode struct {
	Name             string `json:"name"`
	NumberOfRounds   int    `json:"numberOfRounds"`
	PointsPerGameWin bool   `json:"pointsPerGameWin"`
}

// TournamentParticipant is one entrant with its running result.
type TournamentParticipant struct {
	Username     string `json:"username"`
	Ranking      int    `json:"ranking"`
	Disqualified bool   `json:"disqualified"`
	Score        int    `json:"score"`
}

// Tournament is the server's tournament info object, delivered with
// tournament invites and end notifications.
type Tournament struct {
	ID           string                  `json:"id"`
	Mode         TournamentMode          `json:"mode"`
	Participants []TournamentParticipant `json:"participants"`
	Games        []Game                  `json:"games"`
	StartTime    string                  `json:"startTime,omitempty"`
	EndTime      string                  `json:"endTime,omitempty"`
}
