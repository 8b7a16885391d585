package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// SynthesisSource fetches rendered audio for one utterance. The relay's TTS
// proxy satisfies this.
type SynthesisSource interface {
	Synthesize(ctx context.Context, text, voiceID, format string) ([]byte, error)
	Voices(ctx context.Context) ([]Voice, error)
}

// Player renders raw audio on the output device, blocking until playback
// finishes or the context is cancelled.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// PlaybackSynthesizer is the speech output adapter: fetch audio from the
// synthesis source and play it locally. Speak supersedes any utterance still
// playing.
type PlaybackSynthesizer struct {
	source SynthesisSource
	player Player
	format string

	mu     sync.Mutex
	cancel context.CancelFunc

	voiceOverride string
	voicesOnce    sync.Once
	voices        []Voice
}

func NewPlaybackSynthesizer(source SynthesisSource, player Player, format string) *PlaybackSynthesizer {
	return &PlaybackSynthesizer{source: source, player: player, format: format}
}

// UseVoice pins a specific synthesis voice, bypassing locale-based
// selection. An empty id restores automatic selection.
func (s *PlaybackSynthesizer) UseVoice(id string) {
	s.voiceOverride = id
}

// Speak fetches and plays text asynchronously. Any in-progress utterance is
// cancelled first. Signals arrive on events from the playback goroutine.
func (s *PlaybackSynthesizer) Speak(ctx context.Context, text, locale string, events PlaybackEvents) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	voiceID := s.voiceOverride
	if voiceID == "" {
		if v, ok := Choose(s.loadVoices(ctx), locale); ok {
			voiceID = v.ID
		}
	}

	go func() {
		defer cancel()

		audio, err := s.source.Synthesize(ctx, text, voiceID, s.format)
		if err != nil {
			s.finish(events, err)
			return
		}
		if events.OnStart != nil {
			events.OnStart()
		}
		s.finish(events, s.player.Play(ctx, audio))
	}()
	return nil
}

// Stop silences any in-progress or queued utterance. No-op when nothing is
// playing.
func (s *PlaybackSynthesizer) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}

// finish emits the single terminal signal. Cancellation is an expected
// consequence of the cancel-before-speak policy and is reported as a normal
// end; the superseding text is already on screen.
func (s *PlaybackSynthesizer) finish(events PlaybackEvents, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		if events.OnEnd != nil {
			events.OnEnd()
		}
		return
	}
	if events.OnError != nil {
		events.OnError(err)
	}
}

// loadVoices fetches the voice list once per process. Failure falls back to
// the engine default voice.
func (s *PlaybackSynthesizer) loadVoices(ctx context.Context) []Voice {
	s.voicesOnce.Do(func() {
		voices, err := s.source.Voices(ctx)
		if err == nil {
			s.voices = voices
		}
	})
	return s.voices
}
