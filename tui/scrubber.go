package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dashreel/dashreel/playback"
	"github.com/dashreel/dashreel/timeline"
	"github.com/dashreel/dashreel/util"
	"golang.org/x/exp/slices"
)

// speeds are the steps walked by the faster and slower keys.
var speeds = []float64{0.25, 0.5, 1, 1.5, 2, 4, 8, playback.MaxSpeed}

func nextSpeed(current float64, faster bool) float64 {
	i, found := slices.BinarySearch(speeds, current)
	switch {
	case faster && found:
		i++
	case !faster:
		i--
	}
	return speeds[util.Clamp(i, 0, len(speeds)-1)]
}

// adjacentMarker returns the segment whose UTC start comes right before or after the current one.
func adjacentMarker(markers []timeline.Marker, current int, later bool) (int, bool) {
	sorted := slices.Clone(markers)
	slices.SortStableFunc(sorted, func(a, b timeline.Marker) int {
		return a.Segment.UTC.Compare(b.Segment.UTC)
	})

	pos := slices.IndexFunc(sorted, func(m timeline.Marker) bool { return m.Index == current })
	if pos < 0 {
		return 0, false
	}

	if later {
		pos++
	} else {
		pos--
	}

	if pos < 0 || pos >= len(sorted) {
		return 0, false
	}
	return sorted[pos].Index, true
}

const (
	markerRune        = '╵'
	currentMarkerRune = '▲'
	midnightRune      = '┃'
	noonRune          = '┆'
)

// markerRow draws the UTC ticks under a scrubber of the given width.
// Day ticks go down first so segment markers win on collisions.
func markerRow(width int, markers []timeline.Marker, days []timeline.DayMarker, current int) string {
	if width <= 0 {
		return ""
	}

	row := []rune(strings.Repeat(" ", width))
	for _, d := range days {
		p := int(math.Round(d.Percent / 100 * float64(width-1)))
		r := midnightRune
		if d.Kind == timeline.Noon {
			r = noonRune
		}
		row[util.Clamp(p, 0, width-1)] = r
	}

	for _, m := range markers {
		if m.Index == current {
			continue
		}
		row[util.Clamp(m.Pixel, 0, width-1)] = markerRune
	}

	for _, m := range markers {
		if m.Index == current {
			row[util.Clamp(m.Pixel, 0, width-1)] = currentMarkerRune
		}
	}

	return string(row)
}

func formatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)

	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
