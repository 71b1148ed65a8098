package timeline

import (
	"math"
	"time"

	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/util"
	"github.com/samber/lo"
)

// NominalSpan is the UTC range used when every segment starts at the same instant.
const NominalSpan = time.Hour

// Marker is a segment tick on the scrubber, placed by its UTC start.
type Marker struct {
	Index   int
	Pixel   int
	Percent float64
	Segment segment.Segment
}

// DayMarkKind distinguishes the two wall clock ticks drawn on the scrubber.
type DayMarkKind int

const (
	Midnight DayMarkKind = iota
	Noon
)

func (k DayMarkKind) String() string {
	if k == Noon {
		return "noon"
	}
	return "midnight"
}

// DayMarker is a midnight or noon tick inside the scanned range.
type DayMarker struct {
	Kind    DayMarkKind
	At      time.Time
	Percent float64
}

// UTCScale positions absolute timestamps on the scrubber.
type UTCScale struct {
	segments []segment.Segment
	min, max time.Time
	span     time.Duration
}

// NewUTCScale builds a scale over the given segments, which need not be sorted.
func NewUTCScale(segments []segment.Segment) UTCScale {
	u := UTCScale{segments: append([]segment.Segment(nil), segments...), span: NominalSpan}
	if len(segments) == 0 {
		return u
	}

	u.min = lo.MinBy(segments, func(a, b segment.Segment) bool { return a.UTC.Before(b.UTC) }).UTC
	u.max = lo.MaxBy(segments, func(a, b segment.Segment) bool { return a.UTC.After(b.UTC) }).UTC
	if d := u.max.Sub(u.min); d > 0 {
		u.span = d
	}
	return u
}

// Bounds returns the earliest and latest segment start.
func (u UTCScale) Bounds() (time.Time, time.Time) {
	return u.min, u.max
}

// Percent maps an instant onto [0, 100].
func (u UTCScale) Percent(t time.Time) float64 {
	p := float64(t.Sub(u.min)) / float64(u.span) * 100
	if math.IsNaN(p) {
		return 0
	}
	return util.Clamp(p, 0, 100)
}

// At is the inverse of Percent.
func (u UTCScale) At(percent float64) time.Time {
	p := util.Clamp(percent, 0, 100)
	return u.min.Add(time.Duration(p / 100 * float64(u.span)))
}

// Markers returns one marker per segment for a scrubber of width cells or pixels.
func (u UTCScale) Markers(width int) []Marker {
	return lo.Map(u.segments, func(s segment.Segment, i int) Marker {
		p := u.Percent(s.UTC)
		return Marker{
			Index:   i,
			Pixel:   pixel(p, width),
			Percent: p,
			Segment: s,
		}
	})
}

func pixel(percent float64, width int) int {
	if width <= 1 {
		return 0
	}
	return int(math.Round(percent / 100 * float64(width-1)))
}

// Nearest returns the index of the segment starting closest to t, or -1 without segments.
func (u UTCScale) Nearest(t time.Time) int {
	best, bestDiff := -1, time.Duration(math.MaxInt64)
	for i, s := range u.segments {
		diff := s.UTC.Sub(t)
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

// DayMarkers lists every midnight and noon in loc that falls inside the scanned range.
func (u UTCScale) DayMarkers(loc *time.Location) []DayMarker {
	if len(u.segments) == 0 || !u.max.After(u.min) {
		return nil
	}

	var markers []DayMarker
	start := u.min.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	for !day.After(u.max) {
		for _, m := range []DayMarker{
			{Kind: Midnight, At: day},
			{Kind: Noon, At: day.Add(12 * time.Hour)},
		} {
			if m.At.Before(u.min) || m.At.After(u.max) {
				continue
			}
			m.Percent = u.Percent(m.At)
			markers = append(markers, m)
		}
		day = day.AddDate(0, 0, 1)
	}

	return markers
}
