package timeline

import (
	"testing"
	"time"

	"github.com/dashreel/dashreel/segment"
	. "github.com/smartystreets/goconvey/convey"
)

func startingAt(times ...time.Time) []segment.Segment {
	segments := make([]segment.Segment, len(times))
	for i, t := range times {
		segments[i] = segment.Segment{Filename: t.Format("150405"), UTC: t}
	}
	return segments
}

func TestUTCScale(t *testing.T) {
	base := time.Date(2024, 3, 9, 11, 0, 0, 0, time.UTC)

	Convey("Given segments spread over two hours", t, func() {
		u := NewUTCScale(startingAt(base, base.Add(30*time.Minute), base.Add(2*time.Hour)))

		Convey("Bounds are the earliest and latest start", func() {
			lo, hi := u.Bounds()
			So(lo, ShouldEqual, base)
			So(hi, ShouldEqual, base.Add(2*time.Hour))
		})

		Convey("Markers are placed by timestamp, not by duration", func() {
			markers := u.Markers(101)
			So(len(markers), ShouldEqual, 3)
			So(markers[0].Percent, ShouldEqual, 0)
			So(markers[1].Percent, ShouldAlmostEqual, 25)
			So(markers[1].Pixel, ShouldEqual, 25)
			So(markers[2].Pixel, ShouldEqual, 100)
		})

		Convey("At inverts Percent", func() {
			So(u.At(50), ShouldEqual, base.Add(time.Hour))
			So(u.Percent(u.At(12.5)), ShouldAlmostEqual, 12.5)
		})

		Convey("Nearest picks the closest start", func() {
			So(u.Nearest(base.Add(20*time.Minute)), ShouldEqual, 1)
			So(u.Nearest(base.Add(-time.Hour)), ShouldEqual, 0)
			So(u.Nearest(base.Add(5*time.Hour)), ShouldEqual, 2)
		})

		Convey("DayMarkers includes noon inside the range", func() {
			marks := u.DayMarkers(time.UTC)
			So(len(marks), ShouldEqual, 1)
			So(marks[0].Kind, ShouldEqual, Noon)
			So(marks[0].Percent, ShouldAlmostEqual, 50)
		})
	})

	Convey("Given segments that all start together", t, func() {
		u := NewUTCScale(startingAt(base, base))

		Convey("The nominal span avoids a zero denominator", func() {
			So(u.Percent(base), ShouldEqual, 0)
			So(u.At(100), ShouldEqual, base.Add(NominalSpan))
			So(u.DayMarkers(time.UTC), ShouldBeEmpty)
		})
	})

	Convey("Given no segments", t, func() {
		u := NewUTCScale(nil)

		Convey("Nothing is drawn", func() {
			So(u.Markers(80), ShouldBeEmpty)
			So(u.Nearest(base), ShouldEqual, -1)
		})
	})
}
