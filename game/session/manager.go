package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/course"
	"github.com/wricardo/mcp-training/tronarena/game/engine"
	"github.com/wricardo/mcp-training/tronarena/game/events"
)

const (
	DefaultLeaderboardSize = 20
	DefaultArchiveSize     = 100
)

// Manager owns every live match, the waiting queue, player sessions, the
// leaderboard and the finished-match archive. All of it sits behind one
// mutex and each operation holds it for its whole, short duration.
type Manager struct {
	mu sync.Mutex

	games     map[string]*engine.Game
	liveOrder []string
	archive   []engine.Snapshot

	leaderboard []*LeaderboardEntry // insertion order
	leaders     map[string]*LeaderboardEntry

	sessions map[string]*PlayerSession
	queue    []string

	catalog         *course.Catalog
	broker          *events.Broker
	store           Store
	logger          *zap.Logger
	leaderboardSize int
	archiveSize     int
	lookRadius      int

	version       uint64
	persistMu     sync.Mutex
	lastPersisted uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithCatalog sets the course catalog. Defaults to course.Default().
func WithCatalog(c *course.Catalog) Option {
	return func(m *Manager) { m.catalog = c }
}

// WithStore enables persistence of the leaderboard and archive.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithBroker sets the event broker.
func WithBroker(b *events.Broker) Option {
	return func(m *Manager) { m.broker = b }
}

// WithLeaderboardSize sets how many entries Leaderboard returns.
func WithLeaderboardSize(n int) Option {
	return func(m *Manager) { m.leaderboardSize = n }
}

// WithArchiveSize caps the number of archived matches.
func WithArchiveSize(n int) Option {
	return func(m *Manager) { m.archiveSize = n }
}

// WithLookRadius sets the radius of the Look window.
func WithLookRadius(r int) Option {
	return func(m *Manager) { m.lookRadius = r }
}

// NewManager creates a session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		games:           make(map[string]*engine.Game),
		leaders:         make(map[string]*LeaderboardEntry),
		sessions:        make(map[string]*PlayerSession),
		leaderboardSize: DefaultLeaderboardSize,
		archiveSize:     DefaultArchiveSize,
		lookRadius:      engine.DefaultLookRadius,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.catalog == nil {
		m.catalog = course.Default()
	}
	if m.broker == nil {
		m.broker = events.NewBroker(events.DefaultBuffer)
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.leaderboardSize < 1 {
		m.leaderboardSize = DefaultLeaderboardSize
	}
	if m.archiveSize < 1 {
		m.archiveSize = DefaultArchiveSize
	}
	if m.lookRadius < 1 {
		m.lookRadius = engine.DefaultLookRadius
	}
	return m
}

// Join registers name and queues it for the next match. It fails with
// ErrConflict while the name is bound to a match that has not finished.
func (m *Manager) Join(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newError(ErrInvalidInput, "Player name is required.")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	level := 1
	if s, ok := m.sessions[name]; ok {
		if g, live := m.games[s.GameID]; live && g.Status() != engine.Finished {
			return "", newError(ErrConflict, "Player '%s' is already in an active game.", name)
		}
		level = s.Level
	}

	m.sessions[name] = &PlayerSession{Name: name, Index: -1, Level: level}
	if !m.queued(name) {
		m.queue = append(m.queue, name)
	}

	if len(m.queue) >= 2 {
		if g := m.matchmake(); g != nil && m.sessions[name].Bound() {
			return fmt.Sprintf("Joined! Match started on %s (Level %d) with %d players.",
				g.CourseName(), g.CourseLevel(), g.NumPlayers()), nil
		}
	}

	return fmt.Sprintf("Joined! Waiting for opponents... (%d players in queue)", len(m.queue)), nil
}

func (m *Manager) queued(name string) bool {
	for _, q := range m.queue {
		if q == name {
			return true
		}
	}
	return false
}

// matchmake starts one match from the front of the queue on the course for
// the lowest level among queued names. Must be called with m.mu held.
func (m *Manager) matchmake() *engine.Game {
	if len(m.queue) < 2 {
		return nil
	}

	level := 0
	for _, name := range m.queue {
		if s, ok := m.sessions[name]; ok && (level == 0 || s.Level < level) {
			level = s.Level
		}
	}
	if level == 0 {
		level = 1
	}

	c := m.catalog.Get(level)
	n := min(c.MaxPlayers, engine.MaxPlayers, len(m.queue))
	drained := append([]string(nil), m.queue[:n]...)
	m.queue = append([]string(nil), m.queue[n:]...)

	g := engine.New(c)
	for _, name := range drained {
		idx, ok := g.AddPlayer(name)
		if !ok {
			continue
		}
		if s, ok := m.sessions[name]; ok {
			s.GameID = g.ID()
			s.Index = idx
		}
	}
	g.Start()

	m.games[g.ID()] = g
	m.liveOrder = append(m.liveOrder, g.ID())

	m.logger.Info("match started",
		zap.String("game_id", g.ID()),
		zap.String("course", c.Name),
		zap.Int("level", c.Level),
		zap.Strings("players", drained),
	)
	m.publish(events.GameStarted, g)
	return g
}

// resolve maps a name to its live match. Must be called with m.mu held.
func (m *Manager) resolve(name string) (*PlayerSession, *engine.Game, error) {
	s, ok := m.sessions[strings.TrimSpace(name)]
	if !ok {
		return nil, nil, newError(ErrNotFound, "Player not found. Use join_game first.")
	}
	if !s.Bound() {
		return nil, nil, newError(ErrNotInGame, "Not in a game yet. Waiting for opponents.")
	}
	g, ok := m.games[s.GameID]
	if !ok {
		return nil, nil, newError(ErrInvalidState, "Game has finished. Use game_status for the result or join_game to play again.")
	}
	return s, g, nil
}

// Steer queues a turn for the caller's next tick.
func (m *Manager) Steer(name, direction string) (string, error) {
	action, err := engine.ParseSteer(direction)
	if err != nil {
		return "", newError(ErrInvalidInput, "Invalid direction '%s'. Use left, right, or straight.", direction)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, g, err := m.resolve(name)
	if err != nil {
		return "", err
	}
	if g.Status() != engine.Running {
		return "", newError(ErrInvalidState, "Game is not running.")
	}
	if p, _ := g.Player(s.Index); !p.Alive {
		return "", newError(ErrInvalidState, "You have crashed. Wait for the game to finish.")
	}

	g.Steer(s.Index, action)
	return fmt.Sprintf("Steering %s applied.", action), nil
}

// Look renders the caller's view of its live match.
func (m *Manager) Look(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, g, err := m.resolve(name)
	if err != nil {
		return "", err
	}
	return g.Look(s.Index, m.lookRadius), nil
}

// Status reports the caller's queue position, live match or archived result.
func (m *Manager) Status(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[strings.TrimSpace(name)]
	if !ok {
		return "", newError(ErrNotFound, "Player not found. Use join_game first.")
	}
	if !s.Bound() {
		return fmt.Sprintf("Status: WAITING for game to start. %d players in queue.", len(m.queue)), nil
	}
	if g, ok := m.games[s.GameID]; ok {
		return formatLiveStatus(g, s.Index), nil
	}
	if snap, ok := m.archived(s.GameID); ok {
		return formatArchivedStatus(snap, s.Index), nil
	}
	return "", newError(ErrNotFound, "Game not found.")
}

func formatLiveStatus(g *engine.Game, index int) string {
	lines := []string{
		"Status: " + g.Status().Label(),
		fmt.Sprintf("Course: %s (Level %d)", g.CourseName(), g.CourseLevel()),
		fmt.Sprintf("Tick: %d", g.Tick()),
		fmt.Sprintf("Players alive: %d/%d", g.AliveCount(), g.NumPlayers()),
	}
	if p, ok := g.Player(index); ok {
		state := "ALIVE"
		if !p.Alive {
			state = "CRASHED"
		}
		lines = append(lines,
			fmt.Sprintf("You: %s at (%d, %d) heading %s, %s", p.Name, p.Position.X, p.Position.Y, p.Direction.Compass(), state),
			fmt.Sprintf("Distance: %d", p.Distance),
		)
	}
	return strings.Join(lines, "\n")
}

func formatArchivedStatus(s engine.Snapshot, index int) string {
	lines := []string{
		"Status: FINISHED",
		fmt.Sprintf("Course: %s (Level %d)", s.CourseName, s.CourseLevel),
	}
	if w, ok := s.WinnerView(); ok {
		lines = append(lines, fmt.Sprintf("Winner: %s (score: %d)", w.Name, w.Score))
		if w.Index == index {
			lines = append(lines, "Congratulations! You won! Use join_game to play the next level.")
		}
	} else {
		lines = append(lines, "Result: DRAW (everyone crashed)")
	}
	if index >= 0 && index < len(s.Players) {
		lines = append(lines, fmt.Sprintf("Your score: %d", s.Players[index].Score))
	}
	return strings.Join(lines, "\n")
}

// archived finds a finished match by id. Must be called with m.mu held.
func (m *Manager) archived(id string) (engine.Snapshot, bool) {
	for i := len(m.archive) - 1; i >= 0; i-- {
		if m.archive[i].ID == id {
			return m.archive[i], true
		}
	}
	return engine.Snapshot{}, false
}

// TickAll advances every running match by one tick, settles the matches that
// finished and publishes an update for each match still running. Storage is
// written after the lock is released.
func (m *Manager) TickAll(ctx context.Context) {
	m.mu.Lock()

	var finished []*engine.Game
	for _, id := range m.liveOrder {
		g := m.games[id]
		if g.Status() != engine.Running {
			continue
		}
		g.Step()
		if g.Status() == engine.Finished {
			finished = append(finished, g)
		}
	}

	settled := false
	for _, g := range finished {
		if m.settle(g) {
			settled = true
		}
	}

	for _, id := range m.liveOrder {
		if g := m.games[id]; g.Status() == engine.Running {
			m.publish(events.GameUpdate, g)
		}
	}

	var snap persistState
	if settled {
		snap = m.persistSnapshot()
	}
	m.mu.Unlock()

	if settled {
		m.persist(ctx, snap)
	}
}

// settle performs the bookkeeping for a finished match. It reports false if
// the match was already settled. Must be called with m.mu held.
func (m *Manager) settle(g *engine.Game) bool {
	if _, live := m.games[g.ID()]; !live {
		return false
	}
	delete(m.games, g.ID())
	for i, id := range m.liveOrder {
		if id == g.ID() {
			m.liveOrder = append(m.liveOrder[:i], m.liveOrder[i+1:]...)
			break
		}
	}

	winner, hasWinner := g.Winner()
	for i := 0; i < g.NumPlayers(); i++ {
		p, _ := g.Player(i)
		entry := m.entry(p.Name)
		entry.GamesPlayed++

		if !hasWinner || i != winner {
			continue
		}
		entry.Wins++
		entry.TotalPoints += p.Score

		level := g.CourseLevel() + 1
		if s, ok := m.sessions[p.Name]; ok {
			if s.Level < m.catalog.Len() {
				s.Level++
			}
			level = s.Level
		}
		if level > entry.HighestLevel {
			entry.HighestLevel = level
		}
	}

	snap := g.Snapshot()
	fields := []zap.Field{
		zap.String("game_id", g.ID()),
		zap.Int("tick", g.Tick()),
	}
	if w, ok := snap.WinnerView(); ok {
		fields = append(fields, zap.String("winner", w.Name), zap.Int("score", w.Score))
	}
	m.logger.Info("match finished", fields...)

	m.broker.Publish(events.Event{Type: events.GameFinished, GameID: g.ID(), Game: &snap})

	m.archive = append(m.archive, snap)
	if over := len(m.archive) - m.archiveSize; over > 0 {
		m.archive = append([]engine.Snapshot(nil), m.archive[over:]...)
	}
	m.version++
	return true
}

// entry returns the leaderboard record for name, creating it at the end of
// the insertion order. Must be called with m.mu held.
func (m *Manager) entry(name string) *LeaderboardEntry {
	if e, ok := m.leaders[name]; ok {
		return e
	}
	e := &LeaderboardEntry{Name: name}
	m.leaders[name] = e
	m.leaderboard = append(m.leaderboard, e)
	return e
}

func (m *Manager) publish(t events.Type, g *engine.Game) {
	snap := g.Snapshot()
	m.broker.Publish(events.Event{Type: t, GameID: g.ID(), Game: &snap})
}

// Leaderboard returns the top entries by total points. Ties keep the order
// in which names first appeared.
func (m *Manager) Leaderboard() []LeaderboardEntry {
	m.mu.Lock()
	out := m.leaderboardCopy()
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	if len(out) > m.leaderboardSize {
		out = out[:m.leaderboardSize]
	}
	return out
}

func (m *Manager) leaderboardCopy() []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(m.leaderboard))
	for i, e := range m.leaderboard {
		out[i] = *e
	}
	return out
}

// ActiveGames returns snapshots of the live matches in creation order.
func (m *Manager) ActiveGames() []engine.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]engine.Snapshot, 0, len(m.liveOrder))
	for _, id := range m.liveOrder {
		out = append(out, m.games[id].Snapshot())
	}
	return out
}

// FinishedGames returns the archive, oldest first.
func (m *Manager) FinishedGames() []engine.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]engine.Snapshot(nil), m.archive...)
}

// Game returns a live or archived match by id.
func (m *Manager) Game(id string) (engine.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.games[id]; ok {
		return g.Snapshot(), nil
	}
	if s, ok := m.archived(id); ok {
		return s, nil
	}
	return engine.Snapshot{}, newError(ErrNotFound, "Game '%s' not found.", id)
}

// Session returns a copy of the named player's session.
func (m *Manager) Session(name string) (PlayerSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[strings.TrimSpace(name)]
	if !ok {
		return PlayerSession{}, false
	}
	return *s, true
}

// QueueDepth returns how many names wait for a match.
func (m *Manager) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Courses returns the catalog in level order.
func (m *Manager) Courses() []course.Course {
	return m.catalog.All()
}

// Subscribe attaches a listener to match events.
func (m *Manager) Subscribe() *events.Subscription {
	return m.broker.Subscribe()
}
