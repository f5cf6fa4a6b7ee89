// Package session coordinates every match on the server.
//
// The Manager owns the waiting queue, the player sessions that bind a name to
// a match, the live matches, the leaderboard and a bounded archive of
// finished matches. Every operation takes the same mutex and never performs
// network or disk I/O while holding it.
//
// Matchmaking:
//
// Join queues a name. Whenever two or more names are waiting, the manager
// picks the course for the lowest progression level among them and drains up
// to that course's capacity in arrival order. Names left over stay queued.
//
// Ticks and settlement:
//
// A single driver calls TickAll on an interval. Each running match advances
// one tick; matches that finish are settled exactly once: games played is
// incremented for everyone, the winner collects wins, points and a level,
// and the final snapshot is archived.
//
// Errors:
//
// Operations return *Error values whose Kind is one of ErrNotFound,
// ErrNotInGame, ErrInvalidState, ErrInvalidInput or ErrConflict:
//
//	if _, err := m.Steer("alice", "left"); errors.Is(err, session.ErrNotInGame) {
//		// still queued
//	}
//
// Persistence:
//
// A Store receives the whole leaderboard and archive after each settlement.
// FileStore writes JSON files; SQLiteStore keeps the same documents in a
// SQLite table. Load restores both at startup.
package session
