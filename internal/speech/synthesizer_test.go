package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu       sync.Mutex
	audio    []byte
	err      error
	voices   []Voice
	voiceErr error

	gotText   string
	gotVoice  string
	gotFormat string
}

func (f *fakeSource) Synthesize(ctx context.Context, text, voiceID, format string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotText = text
	f.gotVoice = voiceID
	f.gotFormat = format
	return f.audio, f.err
}

func (f *fakeSource) Voices(ctx context.Context) ([]Voice, error) {
	return f.voices, f.voiceErr
}

type fakePlayer struct {
	mu      sync.Mutex
	err     error
	block   bool
	played  [][]byte
	started chan struct{}
}

func (f *fakePlayer) Play(ctx context.Context, audio []byte) error {
	f.mu.Lock()
	f.played = append(f.played, audio)
	started := f.started
	block := f.block
	f.mu.Unlock()

	if started != nil {
		close(started)
		f.mu.Lock()
		f.started = nil
		f.mu.Unlock()
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

// signals collects playback events with a channel per terminal outcome.
type signals struct {
	start chan struct{}
	end   chan struct{}
	fail  chan error
}

func newSignals() *signals {
	return &signals{
		start: make(chan struct{}, 1),
		end:   make(chan struct{}, 1),
		fail:  make(chan error, 1),
	}
}

func (s *signals) events() PlaybackEvents {
	return PlaybackEvents{
		OnStart: func() { s.start <- struct{}{} },
		OnEnd:   func() { s.end <- struct{}{} },
		OnError: func(err error) { s.fail <- err },
	}
}

func waitSignal[T any](t *testing.T, ch chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestSpeakHappyPath(t *testing.T) {
	source := &fakeSource{audio: []byte("pcm")}
	player := &fakePlayer{}
	s := NewPlaybackSynthesizer(source, player, "pcm_22050")

	sig := newSignals()
	require.NoError(t, s.Speak(context.Background(), "hello", "en-US", sig.events()))

	waitSignal(t, sig.start, "OnStart")
	waitSignal(t, sig.end, "OnEnd")

	require.Equal(t, "hello", source.gotText)
	require.Equal(t, "pcm_22050", source.gotFormat)
	require.Equal(t, [][]byte{[]byte("pcm")}, player.played)
	select {
	case err := <-sig.fail:
		t.Fatalf("unexpected OnError: %v", err)
	default:
	}
}

func TestSpeakEmptyTextIsNoOp(t *testing.T) {
	source := &fakeSource{audio: []byte("pcm")}
	s := NewPlaybackSynthesizer(source, &fakePlayer{}, "pcm_22050")

	sig := newSignals()
	require.NoError(t, s.Speak(context.Background(), "   ", "en-US", sig.events()))

	select {
	case <-sig.start:
		t.Fatal("no playback expected for empty text")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSpeakChoosesVoiceForLocale(t *testing.T) {
	source := &fakeSource{
		audio: []byte("pcm"),
		voices: []Voice{
			{ID: "en-voice", Name: "David", Language: "en-US"},
			{ID: "hi-voice", Name: "Ravi", Language: "hi-IN"},
		},
	}
	s := NewPlaybackSynthesizer(source, &fakePlayer{}, "pcm_22050")

	sig := newSignals()
	require.NoError(t, s.Speak(context.Background(), "नमस्ते", "hi-IN", sig.events()))
	waitSignal(t, sig.end, "OnEnd")

	require.Equal(t, "hi-voice", source.gotVoice)
}

func TestSpeakVoiceListFailureFallsBackToDefault(t *testing.T) {
	source := &fakeSource{audio: []byte("pcm"), voiceErr: errors.New("upstream down")}
	s := NewPlaybackSynthesizer(source, &fakePlayer{}, "pcm_22050")

	sig := newSignals()
	require.NoError(t, s.Speak(context.Background(), "hello", "en-US", sig.events()))
	waitSignal(t, sig.end, "OnEnd")

	require.Empty(t, source.gotVoice, "empty voice ID selects the engine default")
}

func TestSpeakVoiceOverride(t *testing.T) {
	source := &fakeSource{
		audio:  []byte("pcm"),
		voices: []Voice{{ID: "auto", Name: "David", Language: "en-US"}},
	}
	s := NewPlaybackSynthesizer(source, &fakePlayer{}, "pcm_22050")
	s.UseVoice("pinned")

	sig := newSignals()
	require.NoError(t, s.Speak(context.Background(), "hello", "en-US", sig.events()))
	waitSignal(t, sig.end, "OnEnd")

	require.Equal(t, "pinned", source.gotVoice)
}

func TestSpeakSourceErrorSignalsOnError(t *testing.T) {
	source := &fakeSource{err: errors.New("synthesis quota exceeded")}
	s := NewPlaybackSynthesizer(source, &fakePlayer{}, "pcm_22050")

	sig := newSignals()
	require.NoError(t, s.Speak(context.Background(), "hello", "en-US", sig.events()))

	err := waitSignal(t, sig.fail, "OnError")
	require.Contains(t, err.Error(), "quota")
	select {
	case <-sig.start:
		t.Fatal("OnStart must not fire when synthesis fails")
	default:
	}
}

func TestSpeakSupersedesActiveUtterance(t *testing.T) {
	started := make(chan struct{})
	source := &fakeSource{audio: []byte("pcm")}
	player := &fakePlayer{block: true, started: started}
	s := NewPlaybackSynthesizer(source, player, "pcm_22050")

	first := newSignals()
	require.NoError(t, s.Speak(context.Background(), "first utterance", "en-US", first.events()))
	waitSignal(t, started, "first playback start")

	// last write wins: the blocked first playback is cancelled and reports
	// a normal end, not an error
	player.mu.Lock()
	player.block = false
	player.mu.Unlock()

	second := newSignals()
	require.NoError(t, s.Speak(context.Background(), "second utterance", "en-US", second.events()))

	waitSignal(t, first.end, "first OnEnd")
	waitSignal(t, second.end, "second OnEnd")
	select {
	case err := <-first.fail:
		t.Fatalf("cancellation must not surface as OnError: %v", err)
	default:
	}
}

func TestStopReportsNormalEnd(t *testing.T) {
	started := make(chan struct{})
	source := &fakeSource{audio: []byte("pcm")}
	player := &fakePlayer{block: true, started: started}
	s := NewPlaybackSynthesizer(source, player, "pcm_22050")

	sig := newSignals()
	require.NoError(t, s.Speak(context.Background(), "hello", "en-US", sig.events()))
	waitSignal(t, started, "playback start")

	s.Stop()
	waitSignal(t, sig.end, "OnEnd after Stop")
	select {
	case err := <-sig.fail:
		t.Fatalf("stop must not surface as OnError: %v", err)
	default:
	}
}

func TestStopWithoutUtteranceIsSafe(t *testing.T) {
	s := NewPlaybackSynthesizer(&fakeSource{}, &fakePlayer{}, "pcm_22050")
	s.Stop()
	s.Stop()
}
