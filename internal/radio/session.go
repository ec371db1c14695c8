package radio

import (
	"fmt"
	"io"
	"log"
	"sync"

	"radio-domme/internal/station"
	"radio-domme/internal/transcoder"
)

// Status is the session lifecycle state.
type Status int

const (
	StatusConnecting Status = iota
	StatusPlaying
	StatusStopping
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting"
	case StatusPlaying:
		return "Playing"
	case StatusStopping:
		return "Stopping"
	default:
		return "Terminated"
	}
}

// Reason records which trigger tore a session down.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonStopped
	ReasonReplaced
	ReasonStreamEnded
	ReasonEmptyChannel
	ReasonPlaybackError
	ReasonTranscoderExit
)

func (r Reason) String() string {
	switch r {
	case ReasonStopped:
		return "stopped"
	case ReasonReplaced:
		return "replaced"
	case ReasonStreamEnded:
		return "stream ended"
	case ReasonEmptyChannel:
		return "channel empty"
	case ReasonPlaybackError:
		return "playback error"
	case ReasonTranscoderExit:
		return "transcoder exit"
	default:
		return "none"
	}
}

// Pipe is the session's exclusive handle on its transcoder process.
type Pipe interface {
	Out() io.ReadCloser
	Exited() <-chan transcoder.Exit
	// Stop is idempotent; safe after exit.
	Stop()
}

// Update is a status notification delivered to whoever started the session,
// so a deferred command reply can be edited as playback progresses.
type Update struct {
	Status Status
	Reason Reason
	Err    error
}

// Session binds one guild to one playing station and its process/sink
// resources. All state transitions funnel through the run loop and Terminate;
// termination is idempotent and exactly-once-effective.
type Session struct {
	guildID   string
	channelID string
	station   station.Station

	conn VoiceConn
	pipe Pipe
	sink Sink

	mu      sync.Mutex
	status  Status
	reason  Reason
	termErr error
	closed  bool

	termOnce sync.Once
	done     chan struct{}
	updates  chan Update

	remove func(*Session)
}

// GuildID returns the owning guild.
func (s *Session) GuildID() string { return s.guildID }

// ChannelID returns the joined voice channel.
func (s *Session) ChannelID() string { return s.channelID }

// Station returns the station being streamed.
func (s *Session) Station() station.Station { return s.station }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// TerminationReason returns why the session ended, once it has.
func (s *Session) TerminationReason() (Reason, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason, s.termErr
}

// Updates delivers status notifications. The channel is closed on termination.
func (s *Session) Updates() <-chan Update { return s.updates }

// Done is closed once the session is fully terminated.
func (s *Session) Done() <-chan struct{} { return s.done }

// run is the session's single control flow: it consumes sink and transcoder
// events and applies exactly one transition per event.
func (s *Session) run() {
	for {
		select {
		case ev := <-s.sink.Events():
			switch ev.Kind {
			case SinkPlaying:
				s.mu.Lock()
				if s.status == StatusConnecting {
					s.status = StatusPlaying
				}
				s.mu.Unlock()
				log.Printf("[Session] %s now playing %q", s.guildID, s.station.Name)
				s.emit(Update{Status: StatusPlaying})
			case SinkIdle:
				s.Terminate(ReasonStreamEnded, nil)
				return
			case SinkError:
				log.Printf("[Session] %s playback error: %v", s.guildID, ev.Err)
				s.Terminate(ReasonPlaybackError, ev.Err)
				return
			}
		case exit := <-s.pipe.Exited():
			s.mu.Lock()
			stopping := s.status == StatusStopping || s.status == StatusTerminated
			s.mu.Unlock()
			if stopping {
				// Terminate killed the transcoder itself; this exit is ours.
				return
			}
			// The transcoder ended while the sink had not gone idle yet:
			// the stream died underneath us.
			log.Printf("[Session] %s transcoder exited unexpectedly | code=%d signal=%q",
				s.guildID, exit.Code, exit.Signal)
			s.Terminate(ReasonTranscoderExit,
				fmt.Errorf("transcoder exited with code %d", exit.Code))
			return
		case <-s.done:
			return
		}
	}
}

// Terminate tears the session down: stop sink, kill transcoder, release the
// voice connection, remove the table entry. Concurrent triggers collapse to a
// single effective teardown; later calls are no-ops.
func (s *Session) Terminate(reason Reason, cause error) {
	s.termOnce.Do(func() {
		s.mu.Lock()
		s.status = StatusStopping
		s.mu.Unlock()

		log.Printf("[Session] %s tearing down (%s)", s.guildID, reason)

		s.sink.Stop()
		s.pipe.Stop()
		if err := s.conn.Disconnect(); err != nil {
			log.Printf("[Session] %s voice disconnect error: %v", s.guildID, err)
		}
		s.remove(s)

		s.mu.Lock()
		s.status = StatusTerminated
		s.reason = reason
		s.termErr = cause
		s.mu.Unlock()

		s.emit(Update{Status: StatusTerminated, Reason: reason, Err: cause})

		s.mu.Lock()
		s.closed = true
		close(s.updates)
		s.mu.Unlock()

		close(s.done)
	})
}

// emit sends an update without ever blocking the session loop.
func (s *Session) emit(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.updates <- u:
	default:
		log.Printf("[Session] %s update dropped (channel full) - %s", s.guildID, u.Status)
	}
}
