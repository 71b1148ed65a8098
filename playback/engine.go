// Package playback is the gapless dual-decoder playback engine.
//
// A Session plays a catalog through two decoder slots: the active slot is
// visible and audible, the inactive one preloads the next segment so the
// handoff at a segment boundary needs no fresh load. Transport is the single
// authoritative play/pause state and Coordinator serializes the requests that
// change a decoder's native state.
package playback

import (
	"context"
	"fmt"
	"sync"

	"github.com/dashreel/dashreel/catalog"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/player"
	"github.com/dashreel/dashreel/segment"
)

// Engine owns the catalog and at most one session.
type Engine struct {
	launch player.Launcher
	opts   Options

	mu      sync.Mutex
	catalog *catalog.Catalog
	session *Session
}

// NewEngine creates an engine whose sessions start decoders with launch.
func NewEngine(launch player.Launcher, opts Options) *Engine {
	return &Engine{
		launch:  launch,
		opts:    opts.normalized(),
		catalog: catalog.New(nil),
	}
}

// LoadCatalog replaces the working set. It is refused while a session is active.
func (e *Engine) LoadCatalog(segments []segment.Segment) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return ErrSessionActive
	}
	e.catalog = catalog.New(segments)
	log.Infof("catalog loaded with %d segments", e.catalog.Len())
	return nil
}

func (e *Engine) Catalog() *catalog.Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog
}

// Session returns the active session, if any.
func (e *Engine) Session() (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, e.session != nil
}

// Enter starts a session at the first segment.
func (e *Engine) Enter(ctx context.Context) (*Session, error) {
	return e.EnterAt(ctx, 0)
}

// EnterAt starts a session at segment index. An empty catalog is refused with ErrEmptyCatalog.
func (e *Engine) EnterAt(ctx context.Context, index int) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return nil, ErrSessionActive
	}
	if e.catalog.Empty() {
		return nil, ErrEmptyCatalog
	}
	if index < 0 || index >= e.catalog.Len() {
		return nil, fmt.Errorf("enter: %w: %d", ErrOutOfRange, index)
	}

	var decoders [2]player.Decoder
	for i := range decoders {
		d, err := e.launch(ctx)
		if err != nil {
			for _, started := range decoders[:i] {
				_ = started.Close()
			}
			return nil, fmt.Errorf("start decoder %d: %w", i, err)
		}
		decoders[i] = d
	}

	s := newSession(e.catalog, decoders, e.opts)
	s.log.Infof("session started with %d segments at %d", e.catalog.Len(), index)

	if err := s.open(ctx, index); err != nil {
		// a slow or failed first segment leaves a usable paused session
		s.log.Warnf("open: %v", err)
	}

	e.session = s
	return s, nil
}

// Exit closes the active session. It is a no-op without one.
func (e *Engine) Exit() error {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.close()
}
