package playback

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dashreel/dashreel/catalog"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/player"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/timeline"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Session is one playback of a catalog through two decoder slots.
// It is created by Engine.Enter and discarded by Engine.Exit.
type Session struct {
	ID uuid.UUID

	catalog   *catalog.Catalog
	timeline  *timeline.Mapper
	scale     timeline.UTCScale
	transport *Transport
	coord     Coordinator
	opts      Options
	log       log.Entry

	slots [2]*Slot

	// mu guards the fields below. It is never held across decoder I/O.
	mu            sync.Mutex
	active        *Slot
	index         int
	speed         float64
	lastNav       time.Time
	preloadCancel context.CancelFunc
	segmentSubs   []func(Snapshot)

	// transitioning is held for the whole of an advance, a jump or a cross-segment seek.
	transitioning atomic.Bool
	loaded        atomic.Bool
	closed        atomic.Bool
	// pauses counts pause requests; a transition that sees it move does not resume playback.
	pauses atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newSession(c *catalog.Catalog, decoders [2]player.Decoder, opts Options) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:        uuid.New(),
		catalog:   c,
		timeline:  timeline.NewMapper(c.Durations(opts.PlaceholderDuration)),
		scale:     timeline.NewUTCScale(c.All()),
		transport: NewTransport(),
		opts:      opts,
		speed:     opts.DefaultSpeed,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.log = log.With(log.Fields{"session": s.ID.String()})

	for i, d := range decoders {
		s.slots[i] = newSlot(i, d, s.onDecoderEvent)
	}
	s.active = s.slots[0]
	s.slots[0].active.Store(true)
	s.slots[0].attach()

	return s
}

// open prepares both decoders and loads the first segment.
func (s *Session) open(ctx context.Context, start int) error {
	for _, slot := range s.slots {
		if err := slot.decoder.SetSpeed(s.speed); err != nil {
			s.log.Warnf("slot %d: set speed: %v", slot.id, err)
		}
		if err := slot.decoder.SetVisible(slot.IsActive()); err != nil {
			s.log.Warnf("slot %d: set visible: %v", slot.id, err)
		}
	}

	if err := s.JumpToSegment(ctx, start); err != nil {
		return err
	}

	if s.opts.Autoplay {
		return s.TogglePlayPause(ctx)
	}
	return nil
}

// close stops background work and terminates both decoders.
func (s *Session) close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.cancel()
	s.wg.Wait()

	var first error
	for _, slot := range s.slots {
		slot.detach()
		if err := slot.decoder.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.log.Infof("session closed")
	return first
}

func (s *Session) check() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return nil
}

// Snapshot is a read-only view of the session for the UI.
type Snapshot struct {
	Index    int
	Count    int
	Filename string
	Kind     segment.Kind
	Channel  segment.Channel
	UTC      time.Time

	State State
	Phase Phase

	// Elapsed and Total are global timeline seconds.
	Elapsed float64
	Total   float64
	Percent float64

	Speed   float64
	HasPrev bool
	HasNext bool
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	index, active, speed := s.index, s.active, s.speed
	s.mu.Unlock()

	seg, _ := s.catalog.Get(index)
	elapsed := s.timeline.ToGlobalTime(index, active.decoder.Position())

	return Snapshot{
		Index:    index,
		Count:    s.catalog.Len(),
		Filename: seg.Filename,
		Kind:     seg.Kind,
		Channel:  seg.Channel,
		UTC:      seg.UTC,
		State:    s.transport.State(),
		Phase:    s.Phase(),
		Elapsed:  elapsed,
		Total:    s.timeline.Total(),
		Percent:  s.timeline.ToPercent(elapsed),
		Speed:    speed,
		HasPrev:  index > 0,
		HasNext:  index < s.catalog.Len()-1,
	}
}

func (s *Session) State() State {
	return s.transport.State()
}

func (s *Session) Phase() Phase {
	if s.closed.Load() {
		return PhaseIdle
	}
	switch s.transport.State() {
	case Playing:
		return PhasePlaying
	case Ended:
		return PhaseEnded
	}
	if s.loaded.Load() {
		return PhaseLoaded
	}
	return PhasePaused
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Session) Timeline() *timeline.Mapper {
	return s.timeline
}

// Slots exposes both slots for inspection.
func (s *Session) Slots() [2]*Slot {
	return s.slots
}

// Markers positions one marker per segment by its UTC start on a scrubber of the given width.
func (s *Session) Markers(width int) []timeline.Marker {
	return s.scale.Markers(width)
}

// Scale is the UTC mapping used for the markers.
func (s *Session) Scale() timeline.UTCScale {
	return s.scale
}

// Subscribe registers fn for every transport state change. fn must not block.
func (s *Session) Subscribe(fn func(State)) {
	s.transport.Subscribe(fn)
}

// OnSegment registers fn for every change of the current segment. fn must not block.
func (s *Session) OnSegment(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segmentSubs = append(s.segmentSubs, fn)
}

func (s *Session) publishSegment() {
	s.mu.Lock()
	subs := slices.Clone(s.segmentSubs)
	s.mu.Unlock()

	snapshot := s.Snapshot()
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (s *Session) setState(state State) {
	if state == Playing {
		s.loaded.Store(false)
	}
	if s.transport.set(state) {
		s.log.Debugf("transport: %s", state)
	}
}

func (s *Session) activeSlot() *Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// inactive must be called with mu held.
func (s *Session) inactive() *Slot {
	if s.active == s.slots[0] {
		return s.slots[1]
	}
	return s.slots[0]
}

// onDecoderEvent runs on the decoder's event loop.
// Metadata from either slot refines the timeline; transport events are only taken from the attached slot.
func (s *Session) onDecoderEvent(slot *Slot, gen uint64, e player.Event) {
	if s.closed.Load() {
		return
	}

	switch e.Kind {
	case player.EventMetadata:
		if gen != slot.generation() {
			return
		}
		if i := slot.Bound(); i >= 0 {
			s.timeline.SetDuration(i, e.Duration)
		}
	case player.EventPlay, player.EventPause, player.EventEnded:
		if !slot.Attached() {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.onTransportEvent(slot, gen, e)
		}()
	}
}

func (s *Session) onTransportEvent(slot *Slot, gen uint64, e player.Event) {
	if s.closed.Load() || !slot.Attached() || slot.generation() != gen {
		return
	}

	switch e.Kind {
	case player.EventPlay:
		if !slot.decoder.Paused() {
			s.setState(Playing)
		}
	case player.EventPause:
		if !slot.decoder.Paused() {
			return
		}
		s.pauses.Add(1)
		if s.transport.nativePause() {
			s.log.Debugf("transport: paused by decoder")
		}
	case player.EventEnded:
		if s.Index() < s.catalog.Len()-1 {
			if err := s.advance(s.ctx); err != nil {
				s.log.Warnf("advance: %v", err)
			}
			return
		}
		s.setState(Ended)
	}
}
