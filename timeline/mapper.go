// Package timeline maps between playback positions and the visual scrubber.
//
// Two independent mappings share the scrubber: Mapper places the playback
// position by cumulative segment duration ("global time"), UTCScale places
// segment markers by their absolute start timestamps. They must not be mixed.
package timeline

import (
	"math"
	"sort"
	"sync"

	"github.com/dashreel/dashreel/util"
)

// NominalRange is the denominator used for percentages while the total duration is still zero.
const NominalRange = 3600.0

// Mapper converts between global playback time and (segment index, local offset).
// Durations may be refined at any time as metadata arrives; it is safe for concurrent use.
type Mapper struct {
	mu        sync.RWMutex
	durations []float64
	offsets   []float64
	total     float64
}

// NewMapper builds a mapper from per-segment durations in seconds.
func NewMapper(durations []float64) *Mapper {
	m := &Mapper{durations: make([]float64, len(durations))}
	for i, d := range durations {
		m.durations[i] = sanitize(d)
	}
	m.recompute()
	return m
}

func sanitize(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}

// recompute must be called with mu held for writing.
func (m *Mapper) recompute() {
	m.offsets = make([]float64, len(m.durations))
	var sum float64
	for i, d := range m.durations {
		m.offsets[i] = sum
		sum += d
	}
	m.total = sum
}

// SetDuration records the real duration of segment i and recomputes offsets.
// It reports whether anything changed; invalid input is ignored.
func (m *Mapper) SetDuration(i int, seconds float64) bool {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.durations) || m.durations[i] == seconds {
		return false
	}
	m.durations[i] = seconds
	m.recompute()
	return true
}

func (m *Mapper) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.durations)
}

// Duration returns the current estimate for segment i, or 0 when out of range.
func (m *Mapper) Duration(i int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.durations) {
		return 0
	}
	return m.durations[i]
}

// Offsets returns a copy of the cumulative start offset of every segment.
func (m *Mapper) Offsets() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]float64(nil), m.offsets...)
}

// Total is the best current estimate of the whole timeline length.
func (m *Mapper) Total() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// ToGlobalTime returns Offsets()[index] + local. The index is clamped to the catalog.
func (m *Mapper) ToGlobalTime(index int, local float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.offsets) == 0 {
		return local
	}
	return m.offsets[util.Clamp(index, 0, len(m.offsets)-1)] + local
}

// ToSegmentAndOffset finds the last segment whose start is <= t and returns the
// remainder as local offset. Times outside [0, Total] are clamped.
func (m *Mapper) ToSegmentAndOffset(t float64) (int, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.offsets) == 0 {
		return 0, 0
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > m.total {
		t = m.total
	}

	i := sort.Search(len(m.offsets), func(i int) bool { return m.offsets[i] > t }) - 1
	if i < 0 {
		i = 0
	}
	return i, t - m.offsets[i]
}

func (m *Mapper) denominator() float64 {
	if m.total <= 0 {
		return NominalRange
	}
	return m.total
}

// ToPercent maps global time linearly onto [0, 100].
func (m *Mapper) ToPercent(t float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if math.IsNaN(t) {
		return 0
	}
	return util.Clamp(t/m.denominator()*100, 0, 100)
}

// FromPercent is the inverse of ToPercent.
func (m *Mapper) FromPercent(p float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if math.IsNaN(p) {
		return 0
	}
	return util.Clamp(p, 0, 100) / 100 * m.denominator()
}
