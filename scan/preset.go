package scan

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Preset is a named time range relative to now.
type Preset string

const (
	PresetToday     Preset = "today"
	PresetYesterday Preset = "yesterday"
	PresetLast24h   Preset = "last24h"
	PresetLast7d    Preset = "last7d"
	PresetAll       Preset = "all"
)

// Presets lists every preset in menu order.
func Presets() []Preset {
	return []Preset{PresetToday, PresetYesterday, PresetLast24h, PresetLast7d, PresetAll}
}

func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Presets(), p) {
		return "", fmt.Errorf("unknown preset %q, expected one of %s", s, strings.Join(lo.Map(Presets(), func(p Preset, _ int) string {
			return string(p)
		}), ", "))
	}
	return p, nil
}

// Range resolves the preset against now. Day boundaries follow now's location.
func (p Preset) Range(now time.Time) (from, to mo.Option[time.Time]) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case PresetToday:
		return mo.Some(midnight), mo.Some(now)
	case PresetYesterday:
		return mo.Some(midnight.AddDate(0, 0, -1)), mo.Some(midnight.Add(-time.Nanosecond))
	case PresetLast24h:
		return mo.Some(now.Add(-24 * time.Hour)), mo.Some(now)
	case PresetLast7d:
		return mo.Some(now.AddDate(0, 0, -7)), mo.Some(now)
	default:
		return mo.None[time.Time](), mo.None[time.Time]()
	}
}

var boundLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime reads a --from/--to style bound. Values without a zone are taken as local time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range boundLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected e.g. 2006-01-02 15:04", s)
}
