package playback

import (
	"sync"

	"golang.org/x/exp/slices"
)

// State is the single authoritative transport state shown to the user.
type State int

const (
	Paused State = iota
	Playing
	Ended
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	default:
		return "paused"
	}
}

// Phase is the session lifecycle, a refinement of State.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseLoaded is entered after every jump and left when playback starts.
	PhaseLoaded
	PhasePlaying
	PhasePaused
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoaded:
		return "loaded"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	default:
		return "idle"
	}
}

// Transport holds the transport state and notifies subscribers of every change, in order.
// Decoder flags are never consulted for display.
type Transport struct {
	mu      sync.Mutex
	deliver sync.Mutex
	state   State
	subs    []func(State)
}

func NewTransport() *Transport {
	return &Transport{state: Paused}
}

func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe registers fn for every future state change.
// fn runs synchronously and must not call back into the transport.
func (t *Transport) Subscribe(fn func(State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

// set changes the state and reports whether it actually changed.
func (t *Transport) set(s State) bool {
	return t.setIf(func(State) bool { return true }, s)
}

// setIf changes the state only when allowed accepts the current one.
func (t *Transport) setIf(allowed func(current State) bool, s State) bool {
	t.deliver.Lock()
	defer t.deliver.Unlock()

	t.mu.Lock()
	if t.state == s || !allowed(t.state) {
		t.mu.Unlock()
		return false
	}
	t.state = s
	subs := slices.Clone(t.subs)
	t.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return true
}

// nativePause applies a pause reported by the active decoder. It never leaves Ended.
func (t *Transport) nativePause() bool {
	return t.setIf(func(current State) bool { return current != Ended }, Paused)
}
