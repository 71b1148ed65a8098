package playback

import (
	"context"
	"errors"
	"fmt"
)

// bind resolves segment index and loads it into slot.
func (s *Session) bind(ctx context.Context, slot *Slot, index int, preload bool) error {
	seg, err := s.catalog.Get(index)
	if err != nil {
		return err
	}

	target, err := s.opts.Resolver(seg)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", seg.Filename, err)
	}

	if preload {
		err = slot.preload(ctx, index, target)
	} else {
		err = slot.load(ctx, index, target)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", seg.Filename, err)
	}
	return nil
}

// waitReady waits for slot within the ready timeout.
func (s *Session) waitReady(ctx context.Context, slot *Slot) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadyTimeout)
	defer cancel()

	err := slot.WaitReady(ctx, s.opts.SeekPollInterval)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrReadyTimeout
	}
	return err
}

// preloadNext loads the segment after the current one into the inactive slot, hidden and muted.
// It never blocks and its failure never affects the current segment.
func (s *Session) preloadNext() {
	s.mu.Lock()
	if s.preloadCancel != nil {
		s.preloadCancel()
		s.preloadCancel = nil
	}
	next := s.index + 1
	slot := s.inactive()
	if next >= s.catalog.Len() || s.closed.Load() {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ReadyTimeout)
	s.preloadCancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := slot.decoder.SetVisible(false); err != nil {
			s.log.Debugf("slot %d: hide: %v", slot.id, err)
		}
		if err := s.bind(ctx, slot, next, true); err != nil {
			if !errors.Is(err, errSlotActive) {
				s.log.Warnf("preload %d: %v", next, err)
			}
			return
		}
		s.log.Debugf("slot %d: preloading segment %d", slot.id, next)
	}()
}

// advance hands playback over to the next segment, preferably through the preloaded slot.
func (s *Session) advance(ctx context.Context) error {
	if !s.transitioning.CompareAndSwap(false, true) {
		return ErrTransitionInProgress
	}
	defer s.transitioning.Store(false)

	s.mu.Lock()
	next := s.index + 1
	out := s.active
	in := s.inactive()
	// the preload into in, if any, runs to completion
	s.preloadCancel = nil
	s.mu.Unlock()

	if next >= s.catalog.Len() {
		s.setState(Ended)
		return nil
	}

	pauses := s.pauses.Load()
	wasPlaying := s.transport.State() == Playing

	out.detach()
	if err := s.coord.SafePause(ctx, out); err != nil {
		s.log.Warnf("slot %d: stop outgoing: %v", out.id, err)
	}

	// non-seamless fallback when the preload is missing, stale or failed
	var loadErr error
	if in.Bound() != next || in.Failed() {
		s.log.Infof("segment %d was not preloaded, loading it now", next)
		loadErr = s.bind(ctx, in, next, false)
	}

	s.mu.Lock()
	out.active.Store(false)
	in.active.Store(true)
	s.active = in
	s.index = next
	speed := s.speed
	s.mu.Unlock()

	if err := out.decoder.SetVisible(false); err != nil {
		s.log.Debugf("slot %d: hide: %v", out.id, err)
	}
	if err := in.decoder.SetVisible(true); err != nil {
		s.log.Debugf("slot %d: show: %v", in.id, err)
	}
	if err := in.decoder.SetSpeed(speed); err != nil {
		s.log.Debugf("slot %d: speed: %v", in.id, err)
	}
	in.attach()
	s.publishSegment()

	if loadErr != nil {
		s.setState(Paused)
		s.preloadNext()
		return loadErr
	}

	if wasPlaying {
		if err := s.waitReady(ctx, in); err != nil {
			s.setState(Paused)
			s.preloadNext()
			return fmt.Errorf("advance to %d: %w", next, err)
		}
		if err := in.decoder.Seek(ctx, 0); err != nil {
			s.log.Debugf("slot %d: rewind: %v", in.id, err)
		}
		if s.pauses.Load() == pauses {
			if err := s.coord.SafePlay(ctx, in); err != nil {
				s.setState(Paused)
				s.preloadNext()
				return err
			}
		}
		// a pause that arrived while the incoming slot was starting wins
		if s.pauses.Load() != pauses {
			if err := s.coord.SafePause(ctx, in); err != nil {
				s.log.Warnf("slot %d: pause: %v", in.id, err)
			}
			s.setState(Paused)
			s.log.Debugf("advanced to segment %d on slot %d, paused", next, in.id)
			s.preloadNext()
			return nil
		}
		s.setState(Playing)
	}

	s.log.Debugf("advanced to segment %d on slot %d", next, in.id)
	s.preloadNext()
	return nil
}

// JumpToSegment pauses, reloads the active slot with segment index and preloads the one after it.
// A preloaded slot is never reused here.
func (s *Session) JumpToSegment(ctx context.Context, index int) error {
	if err := s.check(); err != nil {
		return err
	}
	if index < 0 || index >= s.catalog.Len() {
		return fmt.Errorf("jump: %w: %d", ErrOutOfRange, index)
	}
	if !s.transitioning.CompareAndSwap(false, true) {
		return ErrTransitionInProgress
	}
	defer s.transitioning.Store(false)

	return s.jump(ctx, index)
}

// jump must be called with transitioning held.
func (s *Session) jump(ctx context.Context, index int) error {
	s.mu.Lock()
	if s.preloadCancel != nil {
		s.preloadCancel()
		s.preloadCancel = nil
	}
	active := s.active
	s.mu.Unlock()

	s.forcePause(ctx)

	loadErr := s.bind(ctx, active, index, false)

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
	s.loaded.Store(true)
	s.publishSegment()

	if loadErr != nil {
		s.preloadNext()
		return loadErr
	}

	err := s.waitReady(ctx, active)
	s.preloadNext()
	if err != nil {
		return fmt.Errorf("jump to %d: %w", index, err)
	}
	return nil
}

// forcePause stops the active slot and leaves the transport paused.
func (s *Session) forcePause(ctx context.Context) {
	s.pauses.Add(1)
	if err := s.coord.SafePause(ctx, s.activeSlot()); err != nil {
		s.log.Warnf("pause: %v", err)
	}
	s.setState(Paused)
}
