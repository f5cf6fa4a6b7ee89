package service

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/tronarena/game/session"
)

// FormatLeaderboard renders entries as a numbered text table.
func FormatLeaderboard(entries []session.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "Leaderboard is empty. Win a match to get on it!"
	}

	var b strings.Builder
	b.WriteString("Leaderboard:\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s: %d points, %d wins, %d games, highest level %d\n",
			i+1, e.Name, e.TotalPoints, e.Wins, e.GamesPlayed, e.HighestLevel)
	}
	return strings.TrimRight(b.String(), "\n")
}
