package scan

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/util"
)

// filenamePattern matches MMDDYY_HHMMSS_YYMMDD_HHMMSS_NNNNNN{A|B}.MP4.
// The first pair is the UTC start, the second the camera's local clock.
var filenamePattern = regexp.MustCompile(
	`(?i)(?P<utcDate>\d{6})_(?P<utcTime>\d{6})_(?P<localDate>\d{6})_(?P<localTime>\d{6})_(?P<sequence>\d{6})(?P<channel>[AB])\.MP4$`,
)

// Parse builds a segment from a file path. It reports false for names that
// do not follow the dashcam pattern or encode impossible dates.
func Parse(path string) (segment.Segment, bool) {
	name := filepath.Base(path)
	groups := util.ReGroups(filenamePattern, name)
	if len(groups) == 0 {
		return segment.Segment{}, false
	}

	utc, ok := timestamp(groups["utcDate"], groups["utcTime"], false, time.UTC)
	if !ok {
		return segment.Segment{}, false
	}

	local, ok := timestamp(groups["localDate"], groups["localTime"], true, time.Local)
	if !ok {
		return segment.Segment{}, false
	}

	channel, err := segment.ParseChannel(groups["channel"])
	if err != nil {
		return segment.Segment{}, false
	}

	return segment.Segment{
		Path:     path,
		Filename: name,
		UTC:      utc,
		Local:    local,
		Kind:     KindOf(path),
		Channel:  channel,
	}, true
}

// timestamp decodes a six digit date (MMDDYY, or YYMMDD when yearFirst) and a HHMMSS time.
func timestamp(date, clock string, yearFirst bool, loc *time.Location) (time.Time, bool) {
	d, ok := triple(date)
	if !ok {
		return time.Time{}, false
	}
	c, ok := triple(clock)
	if !ok {
		return time.Time{}, false
	}

	year, month, day := 2000+d[2], d[0], d[1]
	if yearFirst {
		year, month, day = 2000+d[0], d[1], d[2]
	}

	t := time.Date(year, time.Month(month), day, c[0], c[1], c[2], 0, loc)

	// time.Date normalizes overflow, so a mismatch means the input was invalid
	if t.Year() != year || int(t.Month()) != month || t.Day() != day ||
		t.Hour() != c[0] || t.Minute() != c[1] || t.Second() != c[2] {
		return time.Time{}, false
	}
	return t, true
}

func triple(s string) ([3]int, bool) {
	var out [3]int
	if len(s) != 6 {
		return out, false
	}
	for i := range out {
		n, err := strconv.Atoi(s[i*2 : i*2+2])
		if err != nil {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

// KindOf derives the recording category from an EMR, NORMAL or PARK path component.
func KindOf(path string) segment.Kind {
	// card paths from Windows keep their backslashes on other systems
	upper := strings.ToUpper(strings.ReplaceAll(path, `\`, "/"))
	switch {
	case strings.Contains(upper, "/EMR"):
		return segment.KindEmergency
	case strings.Contains(upper, "/NORMAL"):
		return segment.KindNormal
	case strings.Contains(upper, "/PARK"):
		return segment.KindParking
	default:
		return segment.KindOther
	}
}
