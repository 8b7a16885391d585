// Package orchestrator owns the conversation turn lifecycle: input capture,
// the relay round trip, the transcript, and speech playback coordination.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"interview-voicebot/internal/fsm"
	"interview-voicebot/internal/language"
	"interview-voicebot/internal/speech"
	"interview-voicebot/internal/types"
)

// Relay is the turn round-trip surface the orchestrator calls.
type Relay interface {
	Ask(ctx context.Context, req types.TurnRequest) (types.TurnResponse, error)
}

var (
	// ErrTurnInFlight guards against overlapping turns; the caller retries
	// after the current one settles.
	ErrTurnInFlight = errors.New("a turn is already in progress")
)

// Orchestrator coordinates the relay client and the speech adapters for one
// session. All state is session-scoped and lost on teardown; only an
// explicit ClearMemory empties the transcript early.
type Orchestrator struct {
	relay Relay
	rec   speech.Recognizer  // nil when voice input is unsupported
	synth speech.Synthesizer // nil when playback is unsupported

	mu         sync.Mutex
	state      fsm.State
	transcript []types.Turn
	locale     language.Locale
	lastError  string
}

func New(relay Relay, rec speech.Recognizer, synth speech.Synthesizer) *Orchestrator {
	return &Orchestrator{
		relay:  relay,
		rec:    rec,
		synth:  synth,
		state:  fsm.StateIdle,
		locale: language.Default(),
	}
}

// State returns the current turn state.
func (o *Orchestrator) State() fsm.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Listening() bool { return o.State() == fsm.StateListening }
func (o *Orchestrator) Loading() bool   { return o.State() == fsm.StateLoading }
func (o *Orchestrator) Speaking() bool  { return o.State() == fsm.StateSpeaking }

// Transcript returns a copy of the conversation history.
func (o *Orchestrator) Transcript() []types.Turn {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.Turn, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// LastError returns the most recent user-visible error message, or empty.
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

// Language returns the selected locale.
func (o *Orchestrator) Language() language.Locale {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.locale
}

// SetLanguage switches the spoken language. Rejected while a turn is
// listening, loading, or speaking so the adapters are never reconfigured
// mid-turn.
func (o *Orchestrator) SetLanguage(tag string) error {
	loc, ok := language.Lookup(tag)
	if !ok {
		return fmt.Errorf("unsupported language %q", tag)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != fsm.StateIdle {
		return ErrTurnInFlight
	}
	o.locale = loc
	return nil
}

// StartListening runs one voice turn: capture a single utterance, then
// submit it through the same path as a typed question. It blocks until the
// turn settles; StopListening from another goroutine finishes the capture
// early. A silent capture is a no-op, not an error.
func (o *Orchestrator) StartListening(ctx context.Context) (string, error) {
	if o.rec == nil {
		o.setError("Speech recognition not available")
		return "", speech.ErrUnsupported
	}

	o.mu.Lock()
	if o.state != fsm.StateIdle {
		o.mu.Unlock()
		return "", ErrTurnInFlight
	}
	o.applyLocked(fsm.EventListen)
	o.lastError = ""
	locale := o.locale
	o.mu.Unlock()

	text, err := o.rec.ListenOnce(ctx, locale.Tag)
	if err != nil {
		o.mu.Lock()
		o.applyLocked(fsm.EventFail)
		o.lastError = captureMessage(err)
		o.mu.Unlock()
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		o.mu.Lock()
		o.applyLocked(fsm.EventCancel)
		o.mu.Unlock()
		return "", nil
	}

	o.mu.Lock()
	o.applyLocked(fsm.EventTranscribed)
	o.mu.Unlock()
	return o.finishTurn(ctx, text)
}

// StopListening ends an active capture early. Always safe; a no-op when not
// listening.
func (o *Orchestrator) StopListening() {
	if o.rec != nil {
		o.rec.Stop()
	}
}

// SubmitQuestion runs one typed turn. Empty or whitespace text is ignored;
// a second call while a turn is listening or loading returns
// ErrTurnInFlight without touching the transcript.
func (o *Orchestrator) SubmitQuestion(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	o.mu.Lock()
	if o.state == fsm.StateListening || o.state == fsm.StateLoading {
		o.mu.Unlock()
		return "", ErrTurnInFlight
	}
	o.applyLocked(fsm.EventSubmit)
	o.lastError = ""
	o.mu.Unlock()

	return o.finishTurn(ctx, text)
}

// finishTurn performs the relay round trip from the Loading state. On
// success the user/assistant pair lands in the transcript as one atomic
// update and the answer is handed to the synthesizer best-effort; on failure
// the transcript is untouched and the machine returns to idle.
func (o *Orchestrator) finishTurn(ctx context.Context, question string) (string, error) {
	o.mu.Lock()
	history := make([]types.Turn, len(o.transcript))
	copy(history, o.transcript)
	locale := o.locale
	o.mu.Unlock()

	resp, err := o.relay.Ask(ctx, types.TurnRequest{
		Question:            question,
		Language:            locale.Name,
		ConversationHistory: history,
	})
	if err != nil {
		o.mu.Lock()
		o.applyLocked(fsm.EventFail)
		o.lastError = "Failed to get response: " + err.Error()
		o.mu.Unlock()
		return "", err
	}

	o.mu.Lock()
	// Pair append is atomic: a lone user turn is never visible. A turn that
	// was in flight when ClearMemory ran still appends here
	// (append-after-clear).
	o.transcript = append(o.transcript,
		types.Turn{Role: types.RoleUser, Content: question},
		types.Turn{Role: types.RoleAssistant, Content: resp.Answer},
	)
	o.applyLocked(fsm.EventSettle)
	o.mu.Unlock()

	o.speak(ctx, resp.Answer, locale.Tag)
	return resp.Answer, nil
}

// StopSpeaking silences any in-progress utterance. Always safe; a no-op
// when nothing is playing.
func (o *Orchestrator) StopSpeaking() {
	if o.synth == nil {
		return
	}
	o.synth.Stop()
	o.mu.Lock()
	if o.state == fsm.StateSpeaking {
		o.applyLocked(fsm.EventDone)
	}
	o.mu.Unlock()
}

// ClearMemory drops the transcript and transient display state. Allowed in
// any state; a turn in flight is unaffected and its pair still appends when
// the response arrives.
func (o *Orchestrator) ClearMemory() {
	o.mu.Lock()
	o.transcript = nil
	o.lastError = ""
	o.mu.Unlock()
}

// Close releases the speech adapters on session teardown.
func (o *Orchestrator) Close() {
	o.StopListening()
	o.StopSpeaking()
}

// speak hands the answer to the synthesizer. Playback is best-effort: the
// turn is already complete because the text is visible, so playback errors
// never surface as turn failures.
func (o *Orchestrator) speak(ctx context.Context, text, tag string) {
	if o.synth == nil {
		return
	}
	_ = o.synth.Speak(ctx, text, tag, speech.PlaybackEvents{
		OnStart: func() {
			o.mu.Lock()
			o.applyLocked(fsm.EventSpeak)
			o.mu.Unlock()
		},
		OnEnd: func() {
			o.mu.Lock()
			if o.state == fsm.StateSpeaking {
				o.applyLocked(fsm.EventDone)
			}
			o.mu.Unlock()
		},
		OnError: func(error) {
			o.mu.Lock()
			if o.state == fsm.StateSpeaking {
				o.applyLocked(fsm.EventDone)
			}
			o.mu.Unlock()
		},
	})
}

// applyLocked advances the state machine, ignoring transitions that have
// become stale (e.g. a playback signal arriving after a newer turn moved
// on). Callers hold o.mu.
func (o *Orchestrator) applyLocked(ev fsm.Event) {
	next, err := fsm.Transition(o.state, ev)
	if err != nil {
		return
	}
	o.state = next
}

func (o *Orchestrator) setError(msg string) {
	o.mu.Lock()
	o.lastError = msg
	o.mu.Unlock()
}

// captureMessage maps a speech input failure to the inline message shown to
// the user.
func captureMessage(err error) string {
	switch {
	case errors.Is(err, speech.ErrPermissionDenied):
		return "Microphone access denied. Please enable microphone permissions."
	case errors.Is(err, speech.ErrNoSpeech):
		return "No speech detected. Please try again."
	default:
		return "Speech recognition error: " + err.Error()
	}
}
