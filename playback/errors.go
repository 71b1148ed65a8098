package playback

import (
	"errors"

	"github.com/dashreel/dashreel/catalog"
)

var (
	// ErrEmptyCatalog blocks entering a session without segments.
	ErrEmptyCatalog = errors.New("no videos to play")
	// ErrOutOfRange is returned when navigating outside the catalog.
	ErrOutOfRange = catalog.ErrOutOfRange
	// ErrReadyTimeout is returned when a segment did not become playable in time.
	// The transport is left paused.
	ErrReadyTimeout = errors.New("segment did not become ready in time")
	// ErrTransitionInProgress is returned when a segment transition is requested while another runs.
	ErrTransitionInProgress = errors.New("segment transition in progress")
	ErrSessionClosed        = errors.New("playback session is closed")
	// ErrSessionActive is returned when the catalog is replaced or a second session is entered.
	ErrSessionActive = errors.New("a playback session is already active")
	ErrInvalidSpeed  = errors.New("invalid playback speed")
)
