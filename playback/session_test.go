package playback

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dashreel/dashreel/player"
	. "github.com/smartystreets/goconvey/convey"
)

type fixture struct {
	engine   *Engine
	launcher *fakeLauncher
	clock    *fakeClock
	session  *Session
	states   *stateRecorder
}

func enter(n int, duration float64, setup func(*fakeDecoder)) fixture {
	f := fixture{
		launcher: &fakeLauncher{setup: setup},
		clock:    &fakeClock{now: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)},
		states:   &stateRecorder{},
	}
	f.engine = NewEngine(f.launcher.launch, testOptions(f.clock))
	So(f.engine.LoadCatalog(segments(n, duration)), ShouldBeNil)

	s, err := f.engine.Enter(context.Background())
	So(err, ShouldBeNil)
	f.session = s
	s.Subscribe(f.states.record)
	return f
}

// active returns the fake decoder behind the active slot.
func (f fixture) active() *fakeDecoder {
	return f.launcher.get(f.session.activeSlot().id)
}

func (f fixture) preloaded(index int) bool {
	for _, slot := range f.session.Slots() {
		if !slot.IsActive() && slot.Bound() == index && f.launcher.get(slot.id).Ready() {
			return true
		}
	}
	return false
}

func TestEngine(t *testing.T) {
	Convey("Given an engine with an empty catalog", t, func() {
		launcher := &fakeLauncher{}
		e := NewEngine(launcher.launch, testOptions(&fakeClock{}))
		So(e.LoadCatalog(nil), ShouldBeNil)

		Convey("Enter is refused and no decoder is started", func() {
			s, err := e.Enter(context.Background())
			So(s, ShouldBeNil)
			So(errors.Is(err, ErrEmptyCatalog), ShouldBeTrue)
			So(launcher.count(), ShouldEqual, 0)
		})

		Convey("Exit without a session is a no-op", func() {
			So(e.Exit(), ShouldBeNil)
		})
	})

	Convey("Given a running session", t, func() {
		f := enter(3, 2, nil)
		ctx := context.Background()

		Convey("The catalog cannot be replaced", func() {
			So(f.engine.LoadCatalog(segments(1, 2)), ShouldEqual, ErrSessionActive)
		})

		Convey("A second session is refused", func() {
			_, err := f.engine.Enter(ctx)
			So(err, ShouldEqual, ErrSessionActive)
		})

		Convey("Exit closes both decoders and the session", func() {
			So(f.engine.Exit(), ShouldBeNil)
			So(f.launcher.get(0).Closed(), ShouldBeTrue)
			So(f.launcher.get(1).Closed(), ShouldBeTrue)
			So(f.session.Phase(), ShouldEqual, PhaseIdle)
			So(f.session.TogglePlayPause(ctx), ShouldEqual, ErrSessionClosed)
			So(f.session.Next(ctx), ShouldEqual, ErrSessionClosed)

			_, ok := f.engine.Session()
			So(ok, ShouldBeFalse)
			So(f.engine.LoadCatalog(nil), ShouldBeNil)
		})
	})

	Convey("Given a decoder that cannot start", t, func() {
		launcher := &fakeLauncher{err: errors.New("mpv not found")}
		e := NewEngine(launcher.launch, testOptions(&fakeClock{}))
		So(e.LoadCatalog(segments(2, 2)), ShouldBeNil)

		Convey("Enter fails without leaving a session behind", func() {
			_, err := e.Enter(context.Background())
			So(err, ShouldNotBeNil)
			_, ok := e.Session()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Given a session over three segments of two seconds", t, func() {
		f := enter(3, 2, nil)
		s := f.session
		ctx := context.Background()
		defer f.engine.Exit()

		Convey("It opens paused on the first segment with the second preloaded", func() {
			So(s.State(), ShouldEqual, Paused)
			So(s.Phase(), ShouldEqual, PhaseLoaded)
			So(s.Index(), ShouldEqual, 0)
			So(f.launcher.get(0).Target(), ShouldEqual, target(0))
			So(f.launcher.get(0).Visible(), ShouldBeTrue)
			So(eventually(func() bool { return f.preloaded(1) }), ShouldBeTrue)
			So(f.launcher.get(1).Visible(), ShouldBeFalse)
			So(f.launcher.get(1).Paused(), ShouldBeTrue)
		})

		Convey("The snapshot describes the current segment", func() {
			snap := s.Snapshot()
			So(snap.Filename, ShouldEqual, "seg0.MP4")
			So(snap.Count, ShouldEqual, 3)
			So(snap.Total, ShouldEqual, 6)
			So(snap.HasPrev, ShouldBeFalse)
			So(snap.HasNext, ShouldBeTrue)
			So(snap.Speed, ShouldEqual, 1)
		})

		Convey("Toggling plays through the active slot only", func() {
			So(s.TogglePlayPause(ctx), ShouldBeNil)
			So(s.State(), ShouldEqual, Playing)
			So(s.Phase(), ShouldEqual, PhasePlaying)
			So(f.active().Plays(), ShouldEqual, 1)

			So(s.TogglePlayPause(ctx), ShouldBeNil)
			So(s.State(), ShouldEqual, Paused)
			So(f.states.all(), ShouldResemble, []State{Playing, Paused})
		})

		Convey("A rejected play leaves the session paused", func() {
			d := f.active()
			d.mu.Lock()
			d.playErr = errors.New("rejected")
			d.mu.Unlock()

			So(s.TogglePlayPause(ctx), ShouldNotBeNil)
			So(s.State(), ShouldEqual, Paused)
			So(f.states.all(), ShouldBeEmpty)
		})

		Convey("Seeking to 50% lands one second into the second segment", func() {
			So(s.SeekToPercent(ctx, 50), ShouldBeNil)
			So(s.Index(), ShouldEqual, 1)
			So(f.active().Target(), ShouldEqual, target(1))
			So(f.active().Position(), ShouldAlmostEqual, 1.0)
			So(s.State(), ShouldEqual, Paused)
			So(s.Snapshot().Elapsed, ShouldAlmostEqual, 3.0)
		})

		Convey("Seeking to 90% from the first segment pauses, and toggling resumes", func() {
			So(s.TogglePlayPause(ctx), ShouldBeNil)
			So(s.SeekToPercent(ctx, 90), ShouldBeNil)
			So(s.Index(), ShouldEqual, 2)
			So(f.active().Position(), ShouldAlmostEqual, 1.4)
			So(s.State(), ShouldEqual, Paused)
			So(s.Phase(), ShouldEqual, PhaseLoaded)

			So(s.TogglePlayPause(ctx), ShouldBeNil)
			So(s.State(), ShouldEqual, Playing)
			So(f.states.all(), ShouldResemble, []State{Playing, Paused, Playing})
		})

		Convey("Seeking within the segment does not reload it", func() {
			So(s.SeekToGlobalTime(ctx, 1.5), ShouldBeNil)
			So(s.Index(), ShouldEqual, 0)
			So(f.launcher.get(0).Loads(), ShouldResemble, []string{target(0)})
			So(f.launcher.get(0).Position(), ShouldEqual, 1.5)
		})

		Convey("Relative seeks cross segment boundaries", func() {
			So(s.SeekBy(ctx, 2500*time.Millisecond), ShouldBeNil)
			So(s.Index(), ShouldEqual, 1)
			So(f.active().Position(), ShouldAlmostEqual, 0.5)
		})

		Convey("Reaching the end of a playing segment advances seamlessly", func() {
			So(eventually(func() bool { return f.preloaded(1) }), ShouldBeTrue)
			So(s.TogglePlayPause(ctx), ShouldBeNil)

			var violations atomic.Int32
			stop := make(chan struct{})
			go func() {
				for {
					select {
					case <-stop:
						return
					default:
					}
					slots := s.Slots()
					if slots[0].IsActive() && slots[1].IsActive() {
						violations.Add(1)
					}
				}
			}()

			outgoingID := s.activeSlot().id
			outgoing := f.active()
			outgoing.finish()

			So(eventually(func() bool {
				return s.Index() == 1 && f.active().Plays() == 1 && !s.transitioning.Load()
			}), ShouldBeTrue)
			close(stop)

			So(s.State(), ShouldEqual, Playing)
			So(f.states.all(), ShouldResemble, []State{Playing})
			So(violations.Load(), ShouldEqual, 0)
			So(s.activeSlot().id, ShouldNotEqual, outgoingID)
			So(f.active().Loads(), ShouldResemble, []string{target(1)})
			So(f.active().Visible(), ShouldBeTrue)
			So(outgoing.Visible(), ShouldBeFalse)

			Convey("and the freed slot preloads the third segment", func() {
				So(eventually(func() bool { return f.preloaded(2) }), ShouldBeTrue)
			})

			Convey("and the last segment ends the session", func() {
				So(eventually(func() bool { return f.preloaded(2) }), ShouldBeTrue)
				f.active().finish()
				// slot 0 comes back for the third segment and has played once before
				So(eventually(func() bool {
					return s.Index() == 2 && f.launcher.get(0).Plays() == 2 &&
						!f.launcher.get(0).Paused() && !s.transitioning.Load()
				}), ShouldBeTrue)

				f.active().finish()
				So(eventually(func() bool { return s.State() == Ended }), ShouldBeTrue)
				So(s.Phase(), ShouldEqual, PhaseEnded)
				So(s.Index(), ShouldEqual, 2)

				Convey("from which toggling restarts the last segment", func() {
					last := f.active()
					So(s.TogglePlayPause(ctx), ShouldBeNil)
					So(s.State(), ShouldEqual, Playing)
					So(last.Position(), ShouldEqual, 0)
					So(last.Plays(), ShouldEqual, 3)
				})
			})
		})

		Convey("An end reached while paused advances without playing", func() {
			f.active().finish()
			So(eventually(func() bool { return s.Index() == 1 }), ShouldBeTrue)
			So(s.State(), ShouldEqual, Paused)
			So(f.active().Plays(), ShouldEqual, 0)
		})

		Convey("A double next within 50ms advances once", func() {
			So(s.Next(ctx), ShouldBeNil)
			f.clock.Advance(50 * time.Millisecond)
			So(s.Next(ctx), ShouldBeNil)
			So(s.Index(), ShouldEqual, 1)
			So(s.State(), ShouldEqual, Paused)

			Convey("but a later next advances again", func() {
				f.clock.Advance(300 * time.Millisecond)
				So(s.Next(ctx), ShouldBeNil)
				So(s.Index(), ShouldEqual, 2)

				f.clock.Advance(300 * time.Millisecond)
				So(s.Next(ctx), ShouldBeNil)
				So(s.Index(), ShouldEqual, 2)
			})
		})

		Convey("Previous at the first segment is a no-op", func() {
			So(s.Previous(ctx), ShouldBeNil)
			So(s.Index(), ShouldEqual, 0)
		})

		Convey("Next while playing forces a pause", func() {
			So(s.TogglePlayPause(ctx), ShouldBeNil)
			So(s.Next(ctx), ShouldBeNil)
			So(s.State(), ShouldEqual, Paused)
			So(s.Snapshot().HasPrev, ShouldBeTrue)
		})

		Convey("Jumping reloads the active slot instead of reusing the preload", func() {
			So(eventually(func() bool { return f.preloaded(1) }), ShouldBeTrue)
			So(s.JumpToSegment(ctx, 1), ShouldBeNil)
			slots := s.Slots()
			So(slots[0].IsActive(), ShouldBeTrue)
			So(slots[0].Bound(), ShouldEqual, 1)
			So(f.launcher.get(0).Loads(), ShouldResemble, []string{target(0), target(1)})
			So(eventually(func() bool { return f.preloaded(2) }), ShouldBeTrue)
		})

		Convey("Jumping out of range changes nothing", func() {
			err := s.JumpToSegment(ctx, 3)
			So(errors.Is(err, ErrOutOfRange), ShouldBeTrue)
			So(s.Index(), ShouldEqual, 0)
			So(errors.Is(s.JumpToSegment(ctx, -1), ErrOutOfRange), ShouldBeTrue)
		})

		Convey("A pause from the active decoder window pauses the session", func() {
			So(s.TogglePlayPause(ctx), ShouldBeNil)
			f.active().userPause()
			So(eventually(func() bool { return s.State() == Paused }), ShouldBeTrue)
		})

		Convey("Events from the inactive slot are ignored", func() {
			So(eventually(func() bool { return f.preloaded(1) }), ShouldBeTrue)
			So(s.TogglePlayPause(ctx), ShouldBeNil)

			inactive := f.launcher.get(1 - s.activeSlot().id)
			inactive.userPause()
			inactive.finish()
			time.Sleep(30 * time.Millisecond)

			So(s.State(), ShouldEqual, Playing)
			So(s.Index(), ShouldEqual, 0)
		})

		Convey("Speed applies to both slots", func() {
			So(s.SetSpeed(2), ShouldBeNil)
			So(s.Speed(), ShouldEqual, 2)
			So(f.launcher.get(0).Speed(), ShouldEqual, 2)
			So(f.launcher.get(1).Speed(), ShouldEqual, 2)

			for _, bad := range []float64{0, -1, MaxSpeed + 1} {
				So(errors.Is(s.SetSpeed(bad), ErrInvalidSpeed), ShouldBeTrue)
			}
			So(s.Speed(), ShouldEqual, 2)
		})

		Convey("Markers are placed by UTC start", func() {
			markers := s.Markers(101)
			So(len(markers), ShouldEqual, 3)
			So(markers[0].Pixel, ShouldEqual, 0)
			So(markers[1].Pixel, ShouldEqual, 50)
			So(markers[2].Pixel, ShouldEqual, 100)
		})

		Convey("Segment changes are published", func() {
			var seen []int
			s.OnSegment(func(snap Snapshot) { seen = append(seen, snap.Index) })
			So(s.JumpToSegment(ctx, 2), ShouldBeNil)
			So(seen, ShouldResemble, []int{2})
		})
	})

	Convey("Given segments of unknown duration", t, func() {
		f := enter(3, 0, func(d *fakeDecoder) {
			d.durations[target(0)] = 60
			d.durations[target(1)] = 45
		})
		s := f.session
		defer f.engine.Exit()

		Convey("Placeholders are refined as metadata arrives", func() {
			So(eventually(func() bool { return s.Timeline().Total() == 106 }), ShouldBeTrue)
			So(s.Timeline().Offsets(), ShouldResemble, []float64{0, 60, 105})
		})
	})

	Convey("Given a next segment that never becomes ready", t, func() {
		f := enter(3, 2, func(d *fakeDecoder) {
			d.hold[target(1)] = true
		})
		s := f.session
		ctx := context.Background()
		defer f.engine.Exit()

		Convey("The transition gives up and leaves the session paused", func() {
			So(eventually(func() bool {
				return s.Slots()[1].Bound() == 1
			}), ShouldBeTrue)
			So(s.TogglePlayPause(ctx), ShouldBeNil)

			f.active().finish()
			So(eventually(func() bool { return s.Index() == 1 && s.State() == Paused }), ShouldBeTrue)
			So(f.states.all(), ShouldResemble, []State{Playing, Paused})
		})

		Convey("A jump to it times out paused", func() {
			err := s.JumpToSegment(ctx, 1)
			So(errors.Is(err, ErrReadyTimeout), ShouldBeTrue)
			So(s.State(), ShouldEqual, Paused)
			So(s.Index(), ShouldEqual, 1)
		})
	})

	Convey("Given a preload that fails", t, func() {
		f := enter(3, 2, func(d *fakeDecoder) {
			d.failOnce[target(1)] = true
		})
		s := f.session
		ctx := context.Background()
		defer f.engine.Exit()

		Convey("The transition loads the segment on the spot and keeps playing", func() {
			So(eventually(func() bool { return len(f.launcher.get(1).Loads()) == 1 }), ShouldBeTrue)
			So(eventually(func() bool { return s.Slots()[1].Bound() == -1 }), ShouldBeTrue)
			So(s.TogglePlayPause(ctx), ShouldBeNil)

			f.active().finish()
			So(eventually(func() bool {
				return s.Index() == 1 && f.active().Plays() == 1 && !s.transitioning.Load()
			}), ShouldBeTrue)
			So(s.State(), ShouldEqual, Playing)
			So(f.active().Loads(), ShouldResemble, []string{target(1), target(1)})
		})
	})

	Convey("Given a next segment that is slow to start", t, func() {
		f := enter(3, 2, func(d *fakeDecoder) {
			d.hold[target(1)] = true
		})
		s := f.session
		ctx := context.Background()
		defer f.engine.Exit()

		Convey("A pause during the handoff is kept", func() {
			So(eventually(func() bool { return s.Slots()[1].Bound() == 1 }), ShouldBeTrue)
			So(s.TogglePlayPause(ctx), ShouldBeNil)

			f.active().finish()
			So(eventually(func() bool { return s.Index() == 1 && s.transitioning.Load() }), ShouldBeTrue)

			So(s.TogglePlayPause(ctx), ShouldBeNil)
			So(s.State(), ShouldEqual, Paused)

			incoming := f.active()
			incoming.makeReady()
			So(eventually(func() bool { return !s.transitioning.Load() }), ShouldBeTrue)

			So(s.State(), ShouldEqual, Paused)
			So(incoming.Paused(), ShouldBeTrue)
			So(incoming.Plays(), ShouldEqual, 0)
			So(f.states.all(), ShouldResemble, []State{Playing, Paused})
		})
	})

	Convey("Given a slot that was reloaded", t, func() {
		f := enter(2, 2, nil)
		s := f.session
		defer f.engine.Exit()

		Convey("Durations reported for the previous file are dropped", func() {
			slot := s.activeSlot()
			stale := slot.generation() + 1
			s.onDecoderEvent(slot, stale, player.Event{Kind: player.EventMetadata, Duration: 9})
			So(s.Timeline().Duration(0), ShouldEqual, 2)

			s.onDecoderEvent(slot, slot.generation(), player.Event{Kind: player.EventMetadata, Duration: 9})
			So(s.Timeline().Duration(0), ShouldEqual, 9)
		})
	})
}
