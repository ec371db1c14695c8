package radio

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radio-domme/internal/station"
	"radio-domme/internal/transcoder"
)

type fakeConn struct {
	disconnects atomic.Int32
}

func (c *fakeConn) Disconnect() error {
	c.disconnects.Add(1)
	return nil
}

type fakePipe struct {
	stops  atomic.Int32
	exited chan transcoder.Exit
}

func newFakePipe() *fakePipe {
	return &fakePipe{exited: make(chan transcoder.Exit, 1)}
}

func (p *fakePipe) Out() io.ReadCloser            { return io.NopCloser(strings.NewReader("")) }
func (p *fakePipe) Exited() <-chan transcoder.Exit { return p.exited }
func (p *fakePipe) Stop()                          { p.stops.Add(1) }

type fakeSink struct {
	stops  atomic.Int32
	played atomic.Bool
	events chan SinkEvent
}

func newFakeSink() *fakeSink {
	return &fakeSink{events: make(chan SinkEvent, 4)}
}

func (s *fakeSink) Play(io.Reader)            { s.played.Store(true) }
func (s *fakeSink) Stop()                     { s.stops.Add(1) }
func (s *fakeSink) Events() <-chan SinkEvent  { return s.events }

// harness wires a Manager to fakes and records every handle it creates.
type harness struct {
	mgr *Manager

	mu    sync.Mutex
	conns []*fakeConn
	pipes []*fakePipe
	sinks []*fakeSink
}

func newHarness() *harness {
	h := &harness{}
	h.mgr = NewManager(Deps{
		Join: func(guildID, channelID string) (VoiceConn, error) {
			c := &fakeConn{}
			h.mu.Lock()
			h.conns = append(h.conns, c)
			h.mu.Unlock()
			return c, nil
		},
		StartPipe: func(url string) (Pipe, error) {
			p := newFakePipe()
			h.mu.Lock()
			h.pipes = append(h.pipes, p)
			h.mu.Unlock()
			return p, nil
		},
		NewSink: func(conn VoiceConn) Sink {
			s := newFakeSink()
			h.mu.Lock()
			h.sinks = append(h.sinks, s)
			h.mu.Unlock()
			return s
		},
	})
	return h
}

var testStation = station.Station{Name: "Sfera FM", URL: "https://sfera.example/stream"}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not terminate in time")
	}
}

func TestPlayInstallsSingleSession(t *testing.T) {
	h := newHarness()

	s, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	cur, ok := h.mgr.Current("guild-1")
	require.True(t, ok)
	assert.Same(t, s, cur)
	assert.Equal(t, StatusConnecting, s.Status())
	assert.True(t, h.sinks[0].played.Load())
}

func TestReplaceReleasesOldHandles(t *testing.T) {
	h := newHarness()
	second := station.Station{Name: "Real FM", URL: "https://real.example/stream"}

	old, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	next, err := h.mgr.Play("guild-1", "chan-1", second)
	require.NoError(t, err)

	waitDone(t, old)
	assert.Equal(t, StatusTerminated, old.Status())
	reason, _ := old.TerminationReason()
	assert.Equal(t, ReasonReplaced, reason)

	// Old handles are all released exactly once.
	assert.Equal(t, int32(1), h.pipes[0].stops.Load())
	assert.Equal(t, int32(1), h.sinks[0].stops.Load())
	assert.Equal(t, int32(1), h.conns[0].disconnects.Load())

	// The table holds exactly the second request's session.
	cur, ok := h.mgr.Current("guild-1")
	require.True(t, ok)
	assert.Same(t, next, cur)
	assert.Equal(t, "Real FM", cur.Station().Name)
}

func TestTerminateIsIdempotent(t *testing.T) {
	h := newHarness()

	s, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	s.Terminate(ReasonStopped, nil)
	s.Terminate(ReasonEmptyChannel, nil) // stop followed by membership-empty
	waitDone(t, s)

	// A later explicit stop observes "already terminated" and becomes a no-op.
	assert.ErrorIs(t, h.mgr.Stop("guild-1"), ErrNoSession)

	assert.Equal(t, int32(1), h.pipes[0].stops.Load())
	assert.Equal(t, int32(1), h.sinks[0].stops.Load())
	assert.Equal(t, int32(1), h.conns[0].disconnects.Load())

	reason, _ := s.TerminationReason()
	assert.Equal(t, ReasonStopped, reason)

	_, ok := h.mgr.Current("guild-1")
	assert.False(t, ok)
}

func TestStopWithoutSession(t *testing.T) {
	h := newHarness()
	assert.ErrorIs(t, h.mgr.Stop("guild-1"), ErrNoSession)
}

func TestSinkPlayingTransition(t *testing.T) {
	h := newHarness()

	s, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	h.sinks[0].events <- SinkEvent{Kind: SinkPlaying}

	select {
	case u := <-s.Updates():
		assert.Equal(t, StatusPlaying, u.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no playing update")
	}
	assert.Equal(t, StatusPlaying, s.Status())
}

func TestSinkIdleTearsDown(t *testing.T) {
	h := newHarness()

	s, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	h.sinks[0].events <- SinkEvent{Kind: SinkIdle}
	waitDone(t, s)

	reason, cause := s.TerminationReason()
	assert.Equal(t, ReasonStreamEnded, reason)
	assert.NoError(t, cause)
	assert.Equal(t, int32(1), h.pipes[0].stops.Load())
	_, ok := h.mgr.Current("guild-1")
	assert.False(t, ok)
}

func TestSinkErrorTearsDown(t *testing.T) {
	h := newHarness()

	s, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	boom := errors.New("opus encoder blew up")
	h.sinks[0].events <- SinkEvent{Kind: SinkError, Err: boom}
	waitDone(t, s)

	reason, cause := s.TerminationReason()
	assert.Equal(t, ReasonPlaybackError, reason)
	assert.ErrorIs(t, cause, boom)
}

func TestTranscoderExitTearsDown(t *testing.T) {
	h := newHarness()

	s, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	h.pipes[0].exited <- transcoder.Exit{Code: 1}
	waitDone(t, s)

	reason, cause := s.TerminationReason()
	assert.Equal(t, ReasonTranscoderExit, reason)
	assert.Error(t, cause)
	assert.Equal(t, int32(1), h.conns[0].disconnects.Load())
}

func TestSpawnFailureReleasesVoiceConnection(t *testing.T) {
	h := newHarness()
	spawnErr := errors.New("ffmpeg binary not found")
	h.mgr.deps.StartPipe = func(url string) (Pipe, error) {
		return nil, spawnErr
	}

	_, err := h.mgr.Play("guild-1", "chan-1", testStation)
	assert.ErrorIs(t, err, spawnErr)
	assert.Equal(t, int32(1), h.conns[0].disconnects.Load())
	_, ok := h.mgr.Current("guild-1")
	assert.False(t, ok)
}

func TestSupersededPlayDropsStaleInstall(t *testing.T) {
	h := newHarness()
	var inner *Session
	first := true

	base := h.mgr.deps.StartPipe
	h.mgr.deps.StartPipe = func(url string) (Pipe, error) {
		if first {
			// A second play request for the same guild wins the race while
			// the first is still spawning.
			first = false
			var err error
			inner, err = h.mgr.Play("guild-1", "chan-1", station.Station{Name: "Real FM", URL: "u2"})
			require.NoError(t, err)
		}
		return base(url)
	}

	_, err := h.mgr.Play("guild-1", "chan-1", testStation)
	assert.ErrorIs(t, err, ErrSuperseded)

	cur, ok := h.mgr.Current("guild-1")
	require.True(t, ok)
	assert.Same(t, inner, cur)

	// The stale attempt's handles were all released.
	h.mu.Lock()
	stalePipe := h.pipes[1]
	staleConn := h.conns[0]
	h.mu.Unlock()
	assert.Equal(t, int32(1), stalePipe.stops.Load())
	assert.Equal(t, int32(1), staleConn.disconnects.Load())
}

func TestSupersededPlayKeepsSharedConnectionAlive(t *testing.T) {
	h := newHarness()

	// Discord reuses one voice connection per guild: every Join hands back
	// the same handle.
	shared := &fakeConn{}
	h.mgr.deps.Join = func(guildID, channelID string) (VoiceConn, error) {
		return shared, nil
	}

	var inner *Session
	first := true
	base := h.mgr.deps.StartPipe
	h.mgr.deps.StartPipe = func(url string) (Pipe, error) {
		if first {
			first = false
			var err error
			inner, err = h.mgr.Play("guild-1", "chan-1", station.Station{Name: "Real FM", URL: "u2"})
			require.NoError(t, err)
		}
		return base(url)
	}

	_, err := h.mgr.Play("guild-1", "chan-1", testStation)
	assert.ErrorIs(t, err, ErrSuperseded)

	cur, ok := h.mgr.Current("guild-1")
	require.True(t, ok)
	assert.Same(t, inner, cur)
	assert.NotEqual(t, StatusTerminated, cur.Status())
	assert.Equal(t, int32(0), shared.disconnects.Load(),
		"the live session's voice connection must stay connected")
}

// killedPipe mimics the real transcoder process: Stop kills ffmpeg, whose
// exit is then published on the Exited channel.
type killedPipe struct {
	*fakePipe
}

func (p *killedPipe) Stop() {
	p.fakePipe.Stop()
	select {
	case p.exited <- transcoder.Exit{Code: -1, Signal: "killed"}:
	default:
	}
}

func TestStopDoesNotReportTranscoderExitAsUnexpected(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	h := newHarness()
	h.mgr.deps.StartPipe = func(url string) (Pipe, error) {
		return &killedPipe{fakePipe: newFakePipe()}, nil
	}

	s, err := h.mgr.Play("guild-1", "chan-1", testStation)
	require.NoError(t, err)

	require.NoError(t, h.mgr.Stop("guild-1"))
	waitDone(t, s)

	// Let the run loop drain the exit our own kill produced.
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, buf.String(), "exited unexpectedly")

	reason, _ := s.TerminationReason()
	assert.Equal(t, ReasonStopped, reason)
}

func TestTerminateAll(t *testing.T) {
	h := newHarness()

	a, err := h.mgr.Play("guild-a", "chan-a", testStation)
	require.NoError(t, err)
	b, err := h.mgr.Play("guild-b", "chan-b", testStation)
	require.NoError(t, err)

	h.mgr.TerminateAll()
	waitDone(t, a)
	waitDone(t, b)

	_, okA := h.mgr.Current("guild-a")
	_, okB := h.mgr.Current("guild-b")
	assert.False(t, okA)
	assert.False(t, okB)
}
