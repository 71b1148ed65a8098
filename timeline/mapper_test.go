package timeline

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMapper(t *testing.T) {
	Convey("Given three segments of 60, 45 and 30 seconds", t, func() {
		m := NewMapper([]float64{60, 45, 30})

		Convey("Offsets are cumulative and start at zero", func() {
			So(m.Offsets(), ShouldResemble, []float64{0, 60, 105})
			So(m.Total(), ShouldEqual, 135)
		})

		Convey("ToGlobalTime adds the segment offset", func() {
			So(m.ToGlobalTime(1, 10), ShouldEqual, 70)
			So(m.ToGlobalTime(5, 0), ShouldEqual, 105)
		})

		Convey("ToSegmentAndOffset finds the owning segment", func() {
			i, off := m.ToSegmentAndOffset(70)
			So(i, ShouldEqual, 1)
			So(off, ShouldEqual, 10)

			i, off = m.ToSegmentAndOffset(60)
			So(i, ShouldEqual, 1)
			So(off, ShouldEqual, 0)
		})

		Convey("Out of range times are clamped", func() {
			i, off := m.ToSegmentAndOffset(-5)
			So(i, ShouldEqual, 0)
			So(off, ShouldEqual, 0)

			i, off = m.ToSegmentAndOffset(1000)
			So(i, ShouldEqual, 2)
			So(off, ShouldEqual, 30)
		})

		Convey("Conversions round trip inside the timeline", func() {
			for _, g := range []float64{0, 12.5, 60, 104.9, 134} {
				i, off := m.ToSegmentAndOffset(g)
				So(m.ToGlobalTime(i, off), ShouldAlmostEqual, g)
			}
		})

		Convey("Percent mapping is linear over the total", func() {
			So(m.ToPercent(67.5), ShouldAlmostEqual, 50)
			So(m.FromPercent(50), ShouldAlmostEqual, 67.5)
			So(m.ToPercent(500), ShouldEqual, 100)
		})

		Convey("SetDuration refines offsets of later segments only", func() {
			So(m.SetDuration(0, 62.4), ShouldBeTrue)
			offsets := m.Offsets()
			So(offsets[0], ShouldEqual, 0)
			So(offsets[1], ShouldAlmostEqual, 62.4)
			So(offsets[2], ShouldAlmostEqual, 107.4)
		})

		Convey("SetDuration ignores invalid input", func() {
			So(m.SetDuration(0, math.NaN()), ShouldBeFalse)
			So(m.SetDuration(0, -1), ShouldBeFalse)
			So(m.SetDuration(9, 10), ShouldBeFalse)
			So(m.SetDuration(0, 60), ShouldBeFalse)
			So(m.Total(), ShouldEqual, 135)
		})
	})

	Convey("Given segments with placeholder durations", t, func() {
		m := NewMapper([]float64{1, 1})

		Convey("Reaching segment one locally maps to global one", func() {
			So(m.ToGlobalTime(1, 0), ShouldEqual, 1)
		})

		Convey("Metadata for the first segment shifts the second", func() {
			m.SetDuration(0, 60)
			So(m.ToGlobalTime(1, 0), ShouldEqual, 60)
		})
	})

	Convey("Given an empty or zero length timeline", t, func() {
		empty := NewMapper(nil)
		zero := NewMapper([]float64{0, 0})

		Convey("Percentages use the nominal range instead of dividing by zero", func() {
			So(empty.ToPercent(1800), ShouldAlmostEqual, 50)
			So(zero.ToPercent(0), ShouldEqual, 0)
			So(zero.FromPercent(100), ShouldEqual, NominalRange)
		})

		Convey("Lookups never panic", func() {
			i, off := empty.ToSegmentAndOffset(10)
			So(i, ShouldEqual, 0)
			So(off, ShouldEqual, 0)
			So(empty.ToGlobalTime(3, 4), ShouldEqual, 4)
		})

		Convey("Invalid durations are treated as zero", func() {
			m := NewMapper([]float64{math.Inf(1), 10})
			So(m.Offsets(), ShouldResemble, []float64{0, 0})
			So(m.Total(), ShouldEqual, 10)
		})
	})
}
