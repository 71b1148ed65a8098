package playback

import (
	"context"
	"fmt"
	"math"
	"time"
)

// MaxSpeed is the fastest accepted playback speed multiplier.
const MaxSpeed = 16.0

func validSpeed(speed float64) bool {
	return !math.IsNaN(speed) && speed > 0 && speed <= MaxSpeed
}

// TogglePlayPause pauses a playing session and plays a paused or ended one.
// The state changes only after the decoder accepted the request; a rejected play leaves it paused.
func (s *Session) TogglePlayPause(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}

	active := s.activeSlot()

	switch s.transport.State() {
	case Playing:
		s.pauses.Add(1)
		err := s.coord.SafePause(ctx, active)
		s.setState(Paused)
		return err
	case Ended:
		// restart the last segment
		if err := s.seekLocal(ctx, active, 0); err != nil {
			return err
		}
	}

	if err := s.waitReady(ctx, active); err != nil {
		s.setState(Paused)
		return err
	}

	if err := s.coord.SafePlay(ctx, active); err != nil {
		s.setState(Paused)
		return err
	}
	s.setState(Playing)
	return nil
}

// Next jumps to the following segment. Repeated calls inside the debounce window are dropped.
func (s *Session) Next(ctx context.Context) error {
	return s.step(ctx, 1)
}

// Previous jumps to the preceding segment. Repeated calls inside the debounce window are dropped.
func (s *Session) Previous(ctx context.Context) error {
	return s.step(ctx, -1)
}

func (s *Session) step(ctx context.Context, delta int) error {
	if err := s.check(); err != nil {
		return err
	}

	s.mu.Lock()
	now := s.opts.Now()
	if !s.lastNav.IsZero() && now.Sub(s.lastNav) < s.opts.NavDebounce {
		s.mu.Unlock()
		return nil
	}
	target := s.index + delta
	if target < 0 || target >= s.catalog.Len() {
		s.mu.Unlock()
		return nil
	}
	s.lastNav = now
	s.mu.Unlock()

	return s.JumpToSegment(ctx, target)
}

// SeekToPercent seeks to a position of the global timeline given in percent.
func (s *Session) SeekToPercent(ctx context.Context, percent float64) error {
	return s.SeekToGlobalTime(ctx, s.timeline.FromPercent(percent))
}

// SeekBy moves the global position by delta seconds.
func (s *Session) SeekBy(ctx context.Context, delta time.Duration) error {
	elapsed := s.Snapshot().Elapsed
	return s.SeekToGlobalTime(ctx, elapsed+delta.Seconds())
}

// SeekToGlobalTime pauses and moves to global time t, jumping to another segment when needed.
// The session stays paused afterwards.
func (s *Session) SeekToGlobalTime(ctx context.Context, t float64) error {
	if err := s.check(); err != nil {
		return err
	}
	if !s.transitioning.CompareAndSwap(false, true) {
		return ErrTransitionInProgress
	}
	defer s.transitioning.Store(false)

	s.forcePause(ctx)

	index, offset := s.timeline.ToSegmentAndOffset(t)
	if index != s.Index() {
		if err := s.jump(ctx, index); err != nil {
			return err
		}
	}

	return s.seekLocal(ctx, s.activeSlot(), offset)
}

// seekLocal polls until the decoder accepts seeks, then seeks.
// Seeking an unready decoder would silently do nothing.
func (s *Session) seekLocal(ctx context.Context, slot *Slot, offset float64) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.SeekTimeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.SeekPollInterval)
	defer ticker.Stop()

	for !slot.decoder.Seekable() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("seek: %w", ErrReadyTimeout)
		case <-ticker.C:
		}
	}

	if err := slot.decoder.Seek(ctx, offset); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// SetSpeed applies a playback speed multiplier to both slots.
func (s *Session) SetSpeed(speed float64) error {
	if err := s.check(); err != nil {
		return err
	}
	if !validSpeed(speed) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}

	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()

	for _, slot := range s.slots {
		if err := slot.decoder.SetSpeed(speed); err != nil {
			return fmt.Errorf("slot %d: speed: %w", slot.id, err)
		}
	}
	return nil
}

// Speed returns the current speed multiplier.
func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}
