package playback

import (
	"time"

	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/player"
	"github.com/dashreel/dashreel/segment"
	"github.com/spf13/viper"
)

// Resolver turns a segment into a locator the decoder can open.
type Resolver func(segment.Segment) (string, error)

// ResolvePath hands the segment path to the decoder as is.
func ResolvePath(s segment.Segment) (string, error) {
	return player.SanitizeTarget(s.Path)
}

// Options tune a playback session.
type Options struct {
	// ReadyTimeout bounds every wait for a segment to become playable.
	ReadyTimeout time.Duration
	// SeekTimeout bounds the wait for the decoder to accept a seek.
	SeekTimeout      time.Duration
	SeekPollInterval time.Duration
	// NavDebounce drops repeated next/previous requests inside the window.
	NavDebounce time.Duration
	// PlaceholderDuration is used, in seconds, for segments of unknown length.
	PlaceholderDuration float64
	// Autoplay starts playback when the session is entered.
	Autoplay     bool
	DefaultSpeed float64

	Resolver Resolver
	// Now is the clock used for debouncing.
	Now func() time.Time
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		ReadyTimeout:        10 * time.Second,
		SeekTimeout:         5 * time.Second,
		SeekPollInterval:    100 * time.Millisecond,
		NavDebounce:         250 * time.Millisecond,
		PlaceholderDuration: 1,
		Autoplay:            true,
		DefaultSpeed:        1,
		Resolver:            ResolvePath,
		Now:                 time.Now,
	}
}

// OptionsFromConfig reads the player.* configuration keys.
func OptionsFromConfig() Options {
	opts := DefaultOptions()
	opts.ReadyTimeout = viper.GetDuration(key.PlayerReadyTimeout)
	opts.SeekTimeout = viper.GetDuration(key.PlayerSeekTimeout)
	opts.SeekPollInterval = viper.GetDuration(key.PlayerSeekPollInterval)
	opts.NavDebounce = viper.GetDuration(key.PlayerNavDebounce)
	opts.PlaceholderDuration = viper.GetFloat64(key.PlayerPlaceholderDuration)
	opts.Autoplay = viper.GetBool(key.PlayerAutoplay)
	opts.DefaultSpeed = viper.GetFloat64(key.PlayerDefaultSpeed)
	return opts.normalized()
}

// normalized replaces unusable values with defaults.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = def.ReadyTimeout
	}
	if o.SeekTimeout <= 0 {
		o.SeekTimeout = def.SeekTimeout
	}
	if o.SeekPollInterval <= 0 {
		o.SeekPollInterval = def.SeekPollInterval
	}
	if o.NavDebounce < 0 {
		o.NavDebounce = 0
	}
	if o.PlaceholderDuration <= 0 {
		o.PlaceholderDuration = def.PlaceholderDuration
	}
	if !validSpeed(o.DefaultSpeed) {
		o.DefaultSpeed = def.DefaultSpeed
	}
	if o.Resolver == nil {
		o.Resolver = def.Resolver
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}
