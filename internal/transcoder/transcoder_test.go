package transcoder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamArgs(t *testing.T) {
	args := streamArgs("http://example.com/stream")

	assert.Equal(t, []string{
		"-i", "http://example.com/stream",
		"-analyzeduration", "0",
		"-loglevel", "warning",
		"-f", "s16le",
		"-ar", "48000",
		"-ac", "2",
		"pipe:1",
	}, args)
}

func TestCaptureArgs(t *testing.T) {
	args := captureArgs("http://example.com/stream", "/tmp/sample.mp3")

	assert.Equal(t, []string{
		"-i", "http://example.com/stream",
		"-t", "10",
		"-y",
		"-q:a", "0",
		"-map", "a",
		"/tmp/sample.mp3",
	}, args)
}

func TestStreamReportsMissingBinary(t *testing.T) {
	tc := New("definitely-not-a-real-binary-4132")

	_, err := tc.Stream("http://example.com/stream")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBinaryNotFound), "want ErrBinaryNotFound, got %v", err)
}

func TestCaptureReportsMissingBinary(t *testing.T) {
	tc := New("definitely-not-a-real-binary-4132")

	err := tc.Capture(context.Background(), "http://example.com/stream", t.TempDir()+"/s.mp3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBinaryNotFound))
}

func TestNewDefaultsToFFmpeg(t *testing.T) {
	assert.Equal(t, "ffmpeg", New("").bin)
}
