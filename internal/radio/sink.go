package radio

import "io"

// SinkEventKind tags playback sink notifications.
type SinkEventKind int

const (
	// SinkPlaying means the sink started rendering audio into the channel.
	SinkPlaying SinkEventKind = iota
	// SinkIdle means the stream ended or the sink was stopped.
	SinkIdle
	// SinkError means playback failed. Err carries the cause.
	SinkError
)

// SinkEvent is one playback lifecycle notification.
type SinkEvent struct {
	Kind SinkEventKind
	Err  error
}

// Sink renders a raw PCM byte stream into a voice channel and reports
// lifecycle events. Implementations must never block the caller: Play returns
// immediately and events are delivered asynchronously on Events().
type Sink interface {
	Play(src io.Reader)
	// Stop is idempotent; safe after idle or error.
	Stop()
	Events() <-chan SinkEvent
}

// VoiceConn is the session's hold on voice-channel membership.
type VoiceConn interface {
	Disconnect() error
}
