// Package player defines the decoder surface the playback engine drives.
// The primary implementation runs one 'mpv' process per decoder and talks to it over JSON-IPC.
package player

import "context"

// EventKind enumerates the notifications a decoder emits.
type EventKind int

const (
	// EventReady fires once the loaded media can be played and seeked.
	EventReady EventKind = iota
	// EventMetadata carries the real duration of the loaded media.
	EventMetadata
	// EventPlay fires when the decoder starts or resumes playback, including from its own window controls.
	EventPlay
	// EventPause fires when the decoder pauses for any reason other than reaching the end.
	EventPause
	// EventEnded fires once per loaded media when playback reaches the end.
	EventEnded
	// EventTimeUpdate reports a new playback position.
	EventTimeUpdate
	// EventError reports that the media failed to load.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventMetadata:
		return "metadata"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventTimeUpdate:
		return "timeupdate"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a single decoder notification.
type Event struct {
	Kind EventKind
	// Duration is set for EventMetadata.
	Duration float64
	// Position is set for EventTimeUpdate.
	Position float64
	// Err is set for EventError.
	Err error
}

// Decoder is one media decoder with its own output surface.
//
// Play is the only asynchronous request: it returns once the decoder has accepted
// or rejected it. Handlers installed with SetHandler are called from the decoder's
// event loop and must not block.
type Decoder interface {
	// Load replaces the current media. Readiness is reported through EventReady.
	Load(ctx context.Context, target string) error

	Play(ctx context.Context) error
	Pause(ctx context.Context) error

	// Paused reports the last known native pause state.
	Paused() bool

	// Ready reports whether the current media finished loading.
	Ready() bool

	// Seekable reports whether Seek may be issued right now.
	Seekable() bool

	// Seek moves to an absolute position in seconds within the current media.
	Seek(ctx context.Context, seconds float64) error

	Position() float64

	// Duration returns the media duration once known.
	Duration() (float64, bool)

	SetSpeed(speed float64) error

	// SetVisible shows and unmutes the decoder, or hides and mutes it.
	SetVisible(visible bool) error

	SetHandler(handler func(Event))

	// Close terminates the decoder and releases its resources.
	Close() error
}

// Launcher starts a new decoder.
type Launcher func(ctx context.Context) (Decoder, error)
