package session

// PlayerSession binds a connected name to its current match.
type PlayerSession struct {
	Name   string
	GameID string // empty while queued
	Index  int    // -1 while queued
	Level  int
}

// Bound reports whether the session has been placed in a match.
func (s PlayerSession) Bound() bool { return s.GameID != "" }

// LeaderboardEntry is one name's cumulative record.
type LeaderboardEntry struct {
	Name         string `json:"name"`
	Wins         int    `json:"wins"`
	TotalPoints  int    `json:"total_points"`
	GamesPlayed  int    `json:"games_played"`
	HighestLevel int    `json:"highest_level"`
}
