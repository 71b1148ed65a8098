// Package catalog holds the ordered working set of segments a playback session operates on.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dashreel/dashreel/segment"
	"github.com/samber/lo"
)

// ErrOutOfRange is returned by Get for indices outside [0, Len).
var ErrOutOfRange = errors.New("segment index out of range")

// Catalog is an immutable-between-loads list of segments sorted by UTC start.
// It is replaced wholesale by Load and never edited in place.
type Catalog struct {
	segments []segment.Segment
}

// New returns a catalog loaded with the given segments.
func New(segments []segment.Segment) *Catalog {
	c := &Catalog{}
	c.Load(segments)
	return c
}

// Load replaces the working set. Segments are sorted ascending by UTC;
// ties keep their scan order. Zero segments leave the catalog empty.
func (c *Catalog) Load(segments []segment.Segment) {
	sorted := make([]segment.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UTC.Before(sorted[j].UTC)
	})
	c.segments = sorted
}

// Get returns the segment at index.
func (c *Catalog) Get(index int) (segment.Segment, error) {
	if index < 0 || index >= len(c.segments) {
		return segment.Segment{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(c.segments))
	}
	return c.segments[index], nil
}

func (c *Catalog) Len() int {
	return len(c.segments)
}

func (c *Catalog) Empty() bool {
	return len(c.segments) == 0
}

// All returns a copy of the segments in catalog order.
func (c *Catalog) All() []segment.Segment {
	return append([]segment.Segment(nil), c.segments...)
}

// Durations returns each segment's duration, substituting placeholder where unknown.
func (c *Catalog) Durations(placeholder float64) []float64 {
	return lo.Map(c.segments, func(s segment.Segment, _ int) float64 {
		return s.DurationOr(placeholder)
	})
}

// Paths returns the segment paths in catalog order, as handed to the concatenation tool.
func (c *Catalog) Paths() []string {
	return lo.Map(c.segments, func(s segment.Segment, _ int) string {
		return s.Path
	})
}
