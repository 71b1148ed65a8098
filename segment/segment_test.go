package segment

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSegment(t *testing.T) {
	Convey("Given a segment without a known duration", t, func() {
		s := Segment{Filename: "a.MP4", UTC: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}

		Convey("DurationOr should fall back to the placeholder", func() {
			So(s.DurationOr(1), ShouldEqual, 1)
		})

		Convey("WithDuration should not mutate the original", func() {
			d := s.WithDuration(60)
			So(d.DurationOr(1), ShouldEqual, 60)
			So(s.Duration.IsAbsent(), ShouldBeTrue)
		})

		Convey("String should include the UTC start", func() {
			So(s.String(), ShouldEqual, "a.MP4 (2024-05-01T10:00:00Z)")
		})
	})

	Convey("ParseChannel", t, func() {
		c, err := ParseChannel(" b ")
		So(err, ShouldBeNil)
		So(c, ShouldEqual, ChannelRear)

		_, err = ParseChannel("C")
		So(err, ShouldNotBeNil)
	})
}
