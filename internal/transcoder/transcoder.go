package transcoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

const (
	channels   = 2
	sampleRate = 48000

	// captureSeconds is the fixed sample length for track recognition.
	captureSeconds = "10"
)

// ErrBinaryNotFound reports that the ffmpeg binary is missing from PATH,
// as opposed to any other spawn failure.
var ErrBinaryNotFound = errors.New("ffmpeg binary not found")

// Transcoder spawns ffmpeg processes that turn network audio streams into
// raw PCM (for playback) or a bounded file capture (for recognition).
type Transcoder struct {
	bin string
}

// New creates a Transcoder using the given binary path ("" means "ffmpeg").
func New(bin string) *Transcoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Transcoder{bin: bin}
}

// Exit describes how a streaming process ended.
type Exit struct {
	Code   int
	Signal string
}

// Process is one live streaming ffmpeg invocation. Exactly one session owns it.
type Process struct {
	cmd      *exec.Cmd
	out      io.ReadCloser
	exited   chan Exit
	stopOnce sync.Once
}

// Stream launches ffmpeg decoding url to s16le 48kHz stereo PCM on stdout.
// The returned Process delivers stderr lines to the log and its exit status
// on Exited(); the caller is never blocked waiting for the subprocess.
func (t *Transcoder) Stream(url string) (*Process, error) {
	cmd := exec.Command(t.bin, streamArgs(url)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, t.classifySpawn(err)
	}

	p := &Process{
		cmd:    cmd,
		out:    stdout,
		exited: make(chan Exit, 1),
	}
	go drainStderr(stderr)
	go p.wait()
	return p, nil
}

// Out returns the PCM byte stream.
func (p *Process) Out() io.ReadCloser {
	return p.out
}

// Exited delivers the process exit status exactly once.
func (p *Process) Exited() <-chan Exit {
	return p.exited
}

// Stop kills the process. Idempotent; safe to call after exit.
func (p *Process) Stop() {
	p.stopOnce.Do(func() {
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
	})
}

// wait reaps the process and publishes its exit status.
func (p *Process) wait() {
	err := p.cmd.Wait()

	exit := Exit{Code: -1}
	if state := p.cmd.ProcessState; state != nil {
		exit.Code = state.ExitCode()
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			exit.Signal = ws.Signal().String()
		}
	}

	log.Printf("[FFmpeg] process exited | code=%d signal=%q err=%v", exit.Code, exit.Signal, err)
	p.exited <- exit
	close(p.exited)
}

// Capture records the fixed-length recognition sample from url into path,
// overwriting any existing file. Blocks until ffmpeg finishes or ctx ends.
func (t *Transcoder) Capture(ctx context.Context, url, path string) error {
	cmd := exec.CommandContext(ctx, t.bin, captureArgs(url, path)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return t.classifySpawn(err)
	}
	go drainStderr(stderr)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	return nil
}

// classifySpawn separates "binary missing" from other launch failures.
func (t *Transcoder) classifySpawn(err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBinaryNotFound, t.bin)
	}
	return fmt.Errorf("failed to start %s: %w", t.bin, err)
}

// drainStderr forwards diagnostic output to the log so the pipe never fills up.
func drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Printf("[FFmpeg] %s", scanner.Text())
	}
}

func streamArgs(url string) []string {
	return []string{
		"-i", url,
		"-analyzeduration", "0",
		"-loglevel", "warning",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"pipe:1",
	}
}

func captureArgs(url, path string) []string {
	return []string{
		"-i", url,
		"-t", captureSeconds,
		"-y",
		"-q:a", "0",
		"-map", "a",
		path,
	}
}
