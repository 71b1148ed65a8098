package log

import (
	"testing"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeFalse)

		Convey("Writer should swallow output", func() {
			w := Writer(logrus.InfoLevel)
			n, err := w.Write([]byte("frame=1\n"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 8)
			So(w.Close(), ShouldBeNil)
		})

		Convey("Entries should not panic", func() {
			So(func() { With(Fields{"slot": 1}).Infof("bound %d", 3) }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "not-a-level")
		Reset(func() {
			viper.Set(key.LogsWrite, false)
			enabled = false
		})

		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeTrue)

		Convey("An unknown level should fall back to info", func() {
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
		})
	})
}
