// Package fsm defines the conversation turn state machine.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateLoading   State = "loading"
	StateSpeaking  State = "speaking"
)

const (
	EventListen      Event = "listen"      // begin voice capture
	EventTranscribed Event = "transcribed" // capture produced a question
	EventCancel      Event = "cancel"      // capture ended with nothing to submit
	EventSubmit      Event = "submit"      // typed question accepted
	EventSettle      Event = "settle"      // relay round trip finished
	EventSpeak       Event = "speak"       // playback started
	EventDone        Event = "done"        // playback finished or was stopped
	EventFail        Event = "fail"        // any error path; always returns to idle
)

// Transition applies one event to the current state. EventFail is accepted
// from every state so error paths can never strand the machine.
func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateIdle, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventListen:
			return StateListening, nil
		case EventSubmit:
			return StateLoading, nil
		case EventSpeak:
			return StateSpeaking, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateListening:
		switch event {
		case EventTranscribed:
			return StateLoading, nil
		case EventCancel:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateLoading:
		switch event {
		case EventSpeak:
			return StateSpeaking, nil
		case EventSettle:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSpeaking:
		switch event {
		case EventDone:
			return StateIdle, nil
		case EventSubmit:
			// a new question may be asked while the previous answer plays
			return StateLoading, nil
		case EventSpeak:
			return StateSpeaking, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
