package radio

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"radio-domme/internal/station"
)

var (
	// ErrNoSession means the guild has nothing playing.
	ErrNoSession = errors.New("no station is currently playing")
	// ErrSuperseded means a newer play request replaced this one mid-flight.
	ErrSuperseded = errors.New("play request superseded by a newer one")
)

// Deps are the injected collaborators a Manager drives. Keeping them as plain
// functions lets the session lifecycle be tested without Discord or ffmpeg.
type Deps struct {
	// Join connects to the guild voice channel.
	Join func(guildID, channelID string) (VoiceConn, error)
	// StartPipe launches a streaming transcoder for the station URL.
	StartPipe func(url string) (Pipe, error)
	// NewSink builds a playback sink on top of the joined connection.
	NewSink func(conn VoiceConn) Sink
}

// Manager is the session table: one slot per guild, guarded so that replace,
// stop and event-driven teardown for the same guild are linearized.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	gens     map[string]uint64
	deps     Deps
}

// NewManager creates an empty session table.
func NewManager(deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		gens:     make(map[string]uint64),
		deps:     deps,
	}
}

// Play installs a new session for the guild, tearing down any previous one
// first so no two sessions ever hold overlapping process or sink handles.
func (m *Manager) Play(guildID, channelID string, st station.Station) (*Session, error) {
	m.mu.Lock()
	m.gens[guildID]++
	gen := m.gens[guildID]
	old := m.sessions[guildID]
	m.mu.Unlock()

	if old != nil {
		log.Printf("[Radio] %s replacing session %q -> %q", guildID, old.station.Name, st.Name)
		old.Terminate(ReasonReplaced, nil)
	}

	conn, err := m.deps.Join(guildID, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	pipe, err := m.deps.StartPipe(st.URL)
	if err != nil {
		m.releaseConn(guildID, conn, "spawn failure")
		return nil, err
	}

	sink := m.deps.NewSink(conn)

	s := &Session{
		guildID:   guildID,
		channelID: channelID,
		station:   st,
		conn:      conn,
		pipe:      pipe,
		sink:      sink,
		status:    StatusConnecting,
		done:      make(chan struct{}),
		updates:   make(chan Update, 8),
		remove:    m.removeEntry,
	}

	// Joining and spawning happened without the table lock held; if another
	// play for this guild won the race meanwhile, drop our resources instead
	// of clobbering its slot.
	m.mu.Lock()
	if m.gens[guildID] != gen {
		m.mu.Unlock()
		sink.Stop()
		pipe.Stop()
		m.releaseConn(guildID, conn, "superseded play")
		return nil, ErrSuperseded
	}
	m.sessions[guildID] = s
	m.mu.Unlock()

	sink.Play(pipe.Out())
	go s.run()

	log.Printf("[Radio] %s session installed | station=%q channel=%s", guildID, st.Name, channelID)
	return s, nil
}

// Current returns the guild's live session, if any.
func (m *Manager) Current(guildID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[guildID]
	return s, ok
}

// Stop tears down the guild's session on explicit user request.
func (m *Manager) Stop(guildID string) error {
	s, ok := m.Current(guildID)
	if !ok {
		return ErrNoSession
	}
	s.Terminate(ReasonStopped, nil)
	return nil
}

// TerminateAll tears down every live session; used on shutdown.
func (m *Manager) TerminateAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Terminate(ReasonStopped, nil)
	}
}

// releaseConn disconnects conn unless the guild's registered session holds
// the very same connection. Discord hands out one shared voice connection per
// guild, so a losing play request must not tear down the winner's audio path.
func (m *Manager) releaseConn(guildID string, conn VoiceConn, why string) {
	m.mu.Lock()
	cur := m.sessions[guildID]
	m.mu.Unlock()
	if cur != nil && cur.conn == conn {
		return
	}
	if err := conn.Disconnect(); err != nil {
		log.Printf("[Radio] %s disconnect after %s: %v", guildID, why, err)
	}
}

// removeEntry deletes the slot only if it still belongs to this session,
// so callbacks from an already replaced session cannot evict its successor.
func (m *Manager) removeEntry(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.guildID] == s {
		delete(m.sessions, s.guildID)
	}
}
