package discord

import (
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"sync"

	"radio-domme/internal/radio"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// voiceSink encodes raw PCM from the transcoder into Opus frames and feeds
// them to the guild voice connection. It implements radio.Sink.
type voiceSink struct {
	vc       *discordgo.VoiceConnection
	events   chan radio.SinkEvent
	stop     chan struct{}
	stopOnce sync.Once
}

func newVoiceSink(vc *discordgo.VoiceConnection) *voiceSink {
	return &voiceSink{
		vc:     vc,
		events: make(chan radio.SinkEvent, 4),
		stop:   make(chan struct{}),
	}
}

func (s *voiceSink) Play(src io.Reader) {
	go s.stream(src)
}

func (s *voiceSink) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *voiceSink) Events() <-chan radio.SinkEvent {
	return s.events
}

func (s *voiceSink) stream(src io.Reader) {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		s.emit(radio.SinkEvent{Kind: radio.SinkError, Err: err})
		return
	}

	_ = s.vc.Speaking(true)
	defer func() { _ = s.vc.Speaking(false) }()

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)
	first := true

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		if _, err := io.ReadFull(src, pcmBuf); err != nil {
			// A read error caused by our own Stop (killed transcoder, closed
			// pipe) is not worth reporting.
			select {
			case <-s.stop:
				return
			default:
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, fs.ErrClosed) {
				s.emit(radio.SinkEvent{Kind: radio.SinkIdle})
			} else {
				s.emit(radio.SinkEvent{Kind: radio.SinkError, Err: err})
			}
			return
		}

		if first {
			s.emit(radio.SinkEvent{Kind: radio.SinkPlaying})
			first = false
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			s.emit(radio.SinkEvent{Kind: radio.SinkError, Err: err})
			return
		}

		select {
		case s.vc.OpusSend <- opus:
		case <-s.stop:
			return
		}
	}
}

// emit never blocks the encode loop; a full channel drops the event.
func (s *voiceSink) emit(ev radio.SinkEvent) {
	select {
	case s.events <- ev:
	default:
	}
}
