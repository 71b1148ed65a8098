package playback

import (
	"context"
	"fmt"
)

// Coordinator serializes play and pause requests per slot.
// It is the only code allowed to change a decoder's native play/pause state.
type Coordinator struct{}

// SafePlay waits for any in-flight request on the slot, then starts playback
// unless the decoder is already playing. The outcome of earlier requests is ignored.
func (c *Coordinator) SafePlay(ctx context.Context, slot *Slot) error {
	if err := slot.requests.Acquire(ctx, 1); err != nil {
		return err
	}
	defer slot.requests.Release(1)

	if !slot.decoder.Paused() {
		return nil
	}

	slot.pending.Store(true)
	defer slot.pending.Store(false)

	if err := slot.decoder.Play(ctx); err != nil {
		return fmt.Errorf("slot %d: play: %w", slot.id, err)
	}
	return nil
}

// SafePause waits for any in-flight request on the slot, then pauses it if it is playing.
func (c *Coordinator) SafePause(ctx context.Context, slot *Slot) error {
	if err := slot.requests.Acquire(ctx, 1); err != nil {
		return err
	}
	defer slot.requests.Release(1)

	if slot.decoder.Paused() {
		return nil
	}

	if err := slot.decoder.Pause(ctx); err != nil {
		return fmt.Errorf("slot %d: pause: %w", slot.id, err)
	}
	return nil
}
