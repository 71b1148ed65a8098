package cmd

import (
	"testing"

	"github.com/dashreel/dashreel/config"
	"github.com/dashreel/dashreel/key"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigFields(t *testing.T) {
	Convey("Misspelled keys get a suggestion", t, func() {
		So(closestKey("player.seek_stp"), ShouldEqual, key.PlayerSeekStep)

		_, err := lookupField("player.seek_stp")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, key.PlayerSeekStep)
	})

	Convey("Sections come from key prefixes", t, func() {
		So(sections(), ShouldContain, "player")
		So(sections(), ShouldContain, "scan")
		So(sections(), ShouldNotContain, "player.binary")
	})

	Convey("Given a selection of fields", t, func() {
		Convey("named keys are returned sorted", func() {
			fields, err := selectFields([]string{key.ScanChannels, key.PlayerBinary}, "")
			So(err, ShouldBeNil)
			So(len(fields), ShouldEqual, 2)
			So(fields[0].Key, ShouldEqual, key.PlayerBinary)
			So(fields[1].Key, ShouldEqual, key.ScanChannels)
		})

		Convey("a section keeps only its own keys", func() {
			fields, err := selectFields(nil, "combine")
			So(err, ShouldBeNil)
			So(len(fields), ShouldEqual, 3)
			for _, f := range fields {
				So(f.Key, ShouldStartWith, "combine.")
			}
		})

		Convey("no filter selects everything", func() {
			fields, err := selectFields(nil, "")
			So(err, ShouldBeNil)
			So(len(fields), ShouldEqual, len(config.Default))
		})

		Convey("unknown keys and sections are rejected", func() {
			_, err := selectFields([]string{"player.volume"}, "")
			So(err, ShouldNotBeNil)

			_, err = selectFields(nil, "audio")
			So(err, ShouldNotBeNil)
		})
	})
}
