// Package segment defines the descriptor of a single dashcam video file.
package segment

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

// Kind is the recording category a dashcam files a segment under.
// It is used for display only and never affects ordering.
type Kind string

const (
	KindNormal    Kind = "normal"
	KindEmergency Kind = "emergency"
	KindParking   Kind = "parking"
	KindOther     Kind = "other"
)

// Channel identifies the camera that recorded a segment.
type Channel string

const (
	ChannelFront Channel = "A"
	ChannelRear  Channel = "B"
)

// ParseChannel accepts "A"/"B" in any case.
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToUpper(strings.TrimSpace(s))) {
	case ChannelFront:
		return ChannelFront, nil
	case ChannelRear:
		return ChannelRear, nil
	default:
		return "", fmt.Errorf("unknown channel %q, expected A or B", s)
	}
}

// Segment is one playable video file. Values are immutable once scanned.
type Segment struct {
	// Path is resolved to a decoder target by the media resolver.
	Path     string    `json:"path"`
	Filename string    `json:"filename"`
	UTC      time.Time `json:"utc"`
	// Local is the camera's wall clock time as encoded in the filename.
	Local   time.Time `json:"local"`
	Kind    Kind      `json:"kind"`
	Channel Channel   `json:"channel"`
	// Duration in seconds, None until a probe or the decoder reports it.
	Duration mo.Option[float64] `json:"duration" jsonschema:"type=number"`
}

// WithDuration returns a copy of the segment with a known duration.
func (s Segment) WithDuration(seconds float64) Segment {
	s.Duration = mo.Some(seconds)
	return s
}

// DurationOr returns the known duration or the given placeholder.
func (s Segment) DurationOr(placeholder float64) float64 {
	return s.Duration.OrElse(placeholder)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s (%s)", s.Filename, s.UTC.Format(time.RFC3339))
}
