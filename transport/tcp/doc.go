// Package tcp implements the line protocol remote players use to reach the
// arena.
//
// Each request is one line and each reply is one line. Replies escape
// embedded newlines as the two characters `\n`; failures start with
// "ERROR: ".
//
//	JOIN <name>
//	LOOK <name>
//	STEER <name> <left|right|straight>
//	STATUS <name>
//	LEADERBOARD
//
// Server accepts connections and answers from a service.Commands. Client
// dials a server and implements service.Commands itself, so the MCP stdio
// adapter can play against a remote arena.
package tcp
