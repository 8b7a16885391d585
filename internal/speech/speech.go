// Package speech defines the voice input and output adapter contracts and
// their relay-backed implementations.
package speech

import (
	"context"
	"errors"
)

// Capture error kinds mirror the recognition engine's terminal outcomes.
var (
	ErrUnsupported      = errors.New("speech recognition not available")
	ErrPermissionDenied = errors.New("microphone access denied")
	ErrNoSpeech         = errors.New("no speech detected")
)

// Recognizer captures a single utterance and returns its final transcript.
// No interim results. An empty transcript with a nil error is a natural end
// with nothing said and must be treated as a silent no-op, not an error.
// At most one capture is in flight; a new ListenOnce supersedes an active
// one. Stop ends an active capture early.
type Recognizer interface {
	ListenOnce(ctx context.Context, locale string) (string, error)
	Stop()
}

// PlaybackEvents carries the synthesizer's signals. Exactly one terminal
// signal fires per utterance: OnEnd for natural completion or cancellation
// (cancellation is expected under the cancel-before-speak policy and never
// surfaces as an error), OnError for real playback failures. Nil callbacks
// are skipped.
type PlaybackEvents struct {
	OnStart func()
	OnEnd   func()
	OnError func(error)
}

// Synthesizer speaks text aloud. Speak cancels any in-progress or queued
// utterance before starting the new one: last write wins, nothing queues.
type Synthesizer interface {
	Speak(ctx context.Context, text, locale string, events PlaybackEvents) error
	Stop()
}
