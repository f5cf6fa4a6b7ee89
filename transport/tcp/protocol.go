package tcp

import (
	"context"
	"strings"

	"github.com/wricardo/mcp-training/tronarena/game/service"
)

// ErrorPrefix starts every failure reply.
const ErrorPrefix = "ERROR: "

var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

// Escape folds a multi-line reply onto one line. Backslashes are doubled so
// that a literal `\n` survives Unescape.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// HandleCommand runs one protocol line against cmds and returns the reply
// before escaping.
func HandleCommand(ctx context.Context, cmds service.Commands, line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ErrorPrefix + "Empty command"
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var (
		msg string
		err error
	)
	switch strings.ToUpper(verb) {
	case "JOIN":
		if rest == "" {
			return ErrorPrefix + "JOIN requires a name"
		}
		msg, err = cmds.Join(ctx, rest)
	case "LOOK":
		if rest == "" {
			return ErrorPrefix + "LOOK requires player name"
		}
		msg, err = cmds.Look(ctx, rest)
	case "STEER":
		i := strings.LastIndex(rest, " ")
		if i < 0 {
			return ErrorPrefix + "STEER requires player name and direction"
		}
		name, direction := strings.TrimSpace(rest[:i]), rest[i+1:]
		msg, err = cmds.Steer(ctx, name, direction)
	case "STATUS":
		if rest == "" {
			return ErrorPrefix + "STATUS requires player name"
		}
		msg, err = cmds.Status(ctx, rest)
	case "LEADERBOARD":
		msg, err = cmds.LeaderboardText(ctx)
	default:
		return ErrorPrefix + "Unknown command '" + verb + "'"
	}

	if err != nil {
		return ErrorPrefix + err.Error()
	}
	return msg
}
