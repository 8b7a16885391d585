package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// CaptureFunc records one utterance and returns WAV bytes. Cancelling the
// context ends the capture early and returns whatever was recorded so far,
// matching a push-to-talk stop rather than an abort.
type CaptureFunc func(ctx context.Context) ([]byte, error)

// Transcriber turns captured audio into text. The relay's voice endpoint
// satisfies this.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte, locale string) (string, error)
}

// RelayRecognizer is the speech input adapter: one-shot microphone capture
// transcribed through the relay.
type RelayRecognizer struct {
	capture CaptureFunc
	relay   Transcriber

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    int
}

func NewRelayRecognizer(capture CaptureFunc, relay Transcriber) *RelayRecognizer {
	return &RelayRecognizer{capture: capture, relay: relay}
}

// ListenOnce captures a single utterance and returns its transcript. A call
// while another capture is active supersedes it (restart, never a crash).
func (r *RelayRecognizer) ListenOnce(ctx context.Context, locale string) (string, error) {
	captureCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.gen++
	myGen := r.gen
	r.mu.Unlock()

	defer func() {
		cancel()
		r.mu.Lock()
		// only clear our own registration; a superseding capture may have
		// replaced it already
		if r.gen == myGen {
			r.cancel = nil
		}
		r.mu.Unlock()
	}()

	wav, err := r.capture(captureCtx)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrPermission):
			return "", ErrPermissionDenied
		default:
			return "", fmt.Errorf("audio capture: %w", err)
		}
	}
	if len(wav) == 0 {
		// natural end with nothing recorded; silent no-op
		return "", nil
	}

	// Transcription uses the caller's context: a push-to-talk stop cancels
	// only the capture, not the transcription of what was captured.
	text, err := r.relay.Transcribe(ctx, wav, locale)
	if err != nil {
		if errors.Is(err, ErrNoSpeech) {
			return "", ErrNoSpeech
		}
		return "", fmt.Errorf("transcribe: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSpeech
	}
	return strings.TrimSpace(text), nil
}

// Stop ends an active capture early. Safe to call at any time.
func (r *RelayRecognizer) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
}
