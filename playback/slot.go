package playback

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dashreel/dashreel/player"
	"golang.org/x/sync/semaphore"
)

var errSlotActive = errors.New("slot became active before preload started")

// Slot is one of the two decoder surfaces of a session.
// Slots live as long as the session and are only re-bound to other segments.
type Slot struct {
	id      int
	decoder player.Decoder

	// requests serializes play/pause requests, see Coordinator.
	requests *semaphore.Weighted
	pending  atomic.Bool
	active   atomic.Bool
	attached atomic.Bool

	loadMu sync.Mutex

	mu    sync.Mutex
	bound int
	gen   uint64
	done  chan struct{} // closed once the current binding is ready or failed
	err   error

	sink func(slot *Slot, gen uint64, e player.Event)
}

func newSlot(id int, decoder player.Decoder, sink func(*Slot, uint64, player.Event)) *Slot {
	s := &Slot{
		id:       id,
		decoder:  decoder,
		requests: semaphore.NewWeighted(1),
		bound:    -1,
		done:     make(chan struct{}),
		sink:     sink,
	}
	decoder.SetHandler(s.handle)
	return s
}

func (s *Slot) ID() int {
	return s.id
}

// Bound returns the catalog index loaded into the slot, or -1.
func (s *Slot) Bound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

func (s *Slot) IsActive() bool {
	return s.active.Load()
}

// Starting reports whether a play request is in flight.
func (s *Slot) Starting() bool {
	return s.pending.Load()
}

// Attached reports whether the slot's events drive the transport.
func (s *Slot) Attached() bool {
	return s.attached.Load()
}

func (s *Slot) attach() {
	s.attached.Store(true)
}

func (s *Slot) detach() {
	s.attached.Store(false)
}

func (s *Slot) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Failed reports whether the current binding failed to load.
func (s *Slot) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return s.err != nil
	default:
		return false
	}
}

func (s *Slot) handle(e player.Event) {
	s.mu.Lock()
	gen := s.gen
	switch e.Kind {
	case player.EventReady:
		s.settle(nil)
	case player.EventError:
		s.settle(e.Err)
	}
	s.mu.Unlock()

	if s.sink != nil {
		s.sink(s, gen, e)
	}
}

// settle must be called with mu held.
func (s *Slot) settle(err error) {
	select {
	case <-s.done:
		return
	default:
	}
	s.err = err
	if err != nil {
		s.bound = -1
	}
	close(s.done)
}

// load binds index and asks the decoder to open target.
func (s *Slot) load(ctx context.Context, index int, target string) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loadLocked(ctx, index, target)
}

// preload is load for the inactive slot. It gives up if the slot was activated in the meantime.
func (s *Slot) preload(ctx context.Context, index int, target string) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.active.Load() {
		return errSlotActive
	}
	return s.loadLocked(ctx, index, target)
}

func (s *Slot) loadLocked(ctx context.Context, index int, target string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.bound = index
	s.err = nil
	s.done = make(chan struct{})
	s.mu.Unlock()

	if err := s.decoder.Load(ctx, target); err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.settle(err)
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// unbind forgets the current binding.
func (s *Slot) unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.bound = -1
	s.err = nil
	s.done = make(chan struct{})
}

// WaitReady blocks until the current binding is playable, failed, or ctx is done.
// The decoder's ready notification is preferred; its Ready flag is polled as a fallback.
func (s *Slot) WaitReady(ctx context.Context, poll time.Duration) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if s.decoder.Ready() {
		return nil
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.err
		case <-ticker.C:
			if s.decoder.Ready() {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
