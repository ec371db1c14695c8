package recognize

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrEmptySample means the capture finished but produced no usable audio.
var ErrEmptySample = errors.New("recorded sample is empty")

// Stage marks progress through an identification attempt, so a deferred
// command reply can be edited while the user waits.
type Stage int

const (
	// StageListening means the sample capture has started.
	StageListening Stage = iota
	// StageSearching means the sample was recorded and is being looked up.
	StageSearching
)

// CaptureFunc records a bounded-duration sample from url into path.
// transcoder.Transcoder.Capture satisfies it.
type CaptureFunc func(ctx context.Context, url, path string) error

// Flow runs one track identification: record a sample from the station stream
// with an independent transcoder invocation, submit it to the recognition
// service, and always delete the sample before returning. It never touches
// session state.
type Flow struct {
	capture CaptureFunc
	client  *Client
	dir     string
}

// NewFlow creates a recognition flow writing samples under dir.
func NewFlow(capture CaptureFunc, client *Client, dir string) *Flow {
	return &Flow{capture: capture, client: client, dir: dir}
}

// Identify samples streamURL and asks the service what is playing. The notify
// callback (optional, may be nil) receives stage transitions.
// (nil, nil) means the service did not recognize the track.
func (f *Flow) Identify(ctx context.Context, streamURL string, notify func(Stage)) (*Result, error) {
	if notify == nil {
		notify = func(Stage) {}
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sample dir: %w", err)
	}

	path := filepath.Join(f.dir, fmt.Sprintf("sample_%s.mp3", uuid.NewString()))
	log.Printf("[Recognize] Recording sample to %s", path)

	// The sample never outlives the flow, whatever the outcome.
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[Recognize] Failed to delete sample %s: %v", path, err)
		}
	}()

	notify(StageListening)
	if err := f.capture(ctx, streamURL, path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return nil, ErrEmptySample
	}

	log.Printf("[Recognize] Sample ready (%d bytes), querying service", info.Size())
	notify(StageSearching)
	return f.client.Recognize(ctx, path)
}
