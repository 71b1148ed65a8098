package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dashreel/dashreel/player"
	"github.com/dashreel/dashreel/segment"
	"github.com/samber/mo"
)

var errFakeLoad = errors.New("fake: cannot open")

// fakeDecoder is an in-memory player.Decoder. Loads become ready immediately
// unless the target is held; events are emitted synchronously like mpv's event loop.
type fakeDecoder struct {
	mu       sync.Mutex
	handler  func(player.Event)
	paused   bool
	ready    bool
	seekable bool
	position float64
	speed    float64
	visible  bool
	target   string
	closed   bool

	loads  []string
	seeks  []float64
	plays  int
	pauses int

	durations map[string]float64
	hold      map[string]bool
	failOnce  map[string]bool
	playErr   error
	playDelay time.Duration
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{
		paused:    true,
		speed:     1,
		durations: map[string]float64{},
		hold:      map[string]bool{},
		failOnce:  map[string]bool{},
	}
}

func (f *fakeDecoder) emit(e player.Event) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h != nil {
		h(e)
	}
}

func (f *fakeDecoder) Load(_ context.Context, target string) error {
	f.mu.Lock()
	f.loads = append(f.loads, target)
	if f.failOnce[target] {
		delete(f.failOnce, target)
		f.mu.Unlock()
		return errFakeLoad
	}
	f.target = target
	f.ready, f.seekable = false, false
	f.position = 0
	hold := f.hold[target]
	d, known := f.durations[target]
	f.mu.Unlock()

	if !hold {
		f.makeReady()
	}
	if known {
		f.emit(player.Event{Kind: player.EventMetadata, Duration: d})
	}
	return nil
}

func (f *fakeDecoder) makeReady() {
	f.mu.Lock()
	f.ready, f.seekable = true, true
	f.mu.Unlock()
	f.emit(player.Event{Kind: player.EventReady})
}

func (f *fakeDecoder) Play(ctx context.Context) error {
	f.mu.Lock()
	f.plays++
	delay, err := f.playDelay, f.playErr
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.paused = false
	f.mu.Unlock()
	f.emit(player.Event{Kind: player.EventPlay})
	return nil
}

func (f *fakeDecoder) Pause(context.Context) error {
	f.mu.Lock()
	f.pauses++
	f.paused = true
	f.mu.Unlock()
	f.emit(player.Event{Kind: player.EventPause})
	return nil
}

// userPause simulates the pause button of the decoder window.
func (f *fakeDecoder) userPause() {
	f.mu.Lock()
	f.paused = true
	f.mu.Unlock()
	f.emit(player.Event{Kind: player.EventPause})
}

// finish simulates reaching the end of the media.
func (f *fakeDecoder) finish() {
	f.mu.Lock()
	f.paused = true
	f.mu.Unlock()
	f.emit(player.Event{Kind: player.EventEnded})
}

func (f *fakeDecoder) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeDecoder) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeDecoder) Seekable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seekable
}

func (f *fakeDecoder) Seek(_ context.Context, seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = seconds
	f.seeks = append(f.seeks, seconds)
	return nil
}

func (f *fakeDecoder) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeDecoder) Duration() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.durations[f.target]
	return d, ok
}

func (f *fakeDecoder) SetSpeed(speed float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speed = speed
	return nil
}

func (f *fakeDecoder) SetVisible(visible bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = visible
	return nil
}

func (f *fakeDecoder) SetHandler(handler func(player.Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
}

func (f *fakeDecoder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeDecoder) Plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

func (f *fakeDecoder) Pauses() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pauses
}

func (f *fakeDecoder) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}

func (f *fakeDecoder) Target() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target
}

func (f *fakeDecoder) Speed() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speed
}

func (f *fakeDecoder) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *fakeDecoder) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeLauncher hands out fake decoders, each prepared by setup.
type fakeLauncher struct {
	mu       sync.Mutex
	decoders []*fakeDecoder
	setup    func(*fakeDecoder)
	err      error
}

func (l *fakeLauncher) launch(context.Context) (player.Decoder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	d := newFakeDecoder()
	if l.setup != nil {
		l.setup(d)
	}
	l.decoders = append(l.decoders, d)
	return d, nil
}

func (l *fakeLauncher) get(i int) *fakeDecoder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decoders[i]
}

func (l *fakeLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.decoders)
}

// fakeClock is a manually advanced clock for debouncing.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func target(i int) string {
	return fmt.Sprintf("/cam/NORMAL/seg%d.MP4", i)
}

// segments returns n segments one minute apart, each with the given known duration (0 for unknown).
func segments(n int, duration float64) []segment.Segment {
	base := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	out := make([]segment.Segment, n)
	for i := range out {
		out[i] = segment.Segment{
			Path:     target(i),
			Filename: fmt.Sprintf("seg%d.MP4", i),
			UTC:      base.Add(time.Duration(i) * time.Minute),
			Kind:     segment.KindNormal,
			Channel:  segment.ChannelFront,
		}
		if duration > 0 {
			out[i].Duration = mo.Some(duration)
		}
	}
	return out
}

func testOptions(clock *fakeClock) Options {
	opts := DefaultOptions()
	opts.ReadyTimeout = 200 * time.Millisecond
	opts.SeekTimeout = 200 * time.Millisecond
	opts.SeekPollInterval = 5 * time.Millisecond
	opts.Autoplay = false
	opts.Now = clock.Now
	return opts
}

// eventually polls cond for up to a second.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

// stateRecorder collects the public state stream.
type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}
