package recent

import (
	"testing"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestRecent(t *testing.T) {
	Convey("Given folder history", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		viper.Set(key.HistoryRememberFolders, true)
		So(Clear(), ShouldBeNil)

		So(Remember("/media/card/DCIM"), ShouldBeNil)
		So(Remember("/home/user/Videos/trip"), ShouldBeNil)
		So(Remember("/home/user/Videos/trip/"), ShouldBeNil)

		Convey("List is ordered by use", func() {
			folders := List()
			So(folders, ShouldHaveLength, 2)
			So(folders[0].Path, ShouldEqual, "/home/user/Videos/trip")
			So(folders[0].Rank, ShouldEqual, 2)
		})

		Convey("Suggest matches fuzzily", func() {
			So(Suggest("card").MustGet(), ShouldEqual, "/media/card/DCIM")
			So(SuggestMany("zzz"), ShouldBeEmpty)
		})

		Convey("Forget removes a folder", func() {
			So(Forget("/media/card/DCIM"), ShouldBeNil)
			So(List(), ShouldHaveLength, 1)
		})

		Convey("Nothing is recorded when disabled", func() {
			viper.Set(key.HistoryRememberFolders, false)
			defer viper.Set(key.HistoryRememberFolders, true)

			So(Remember("/mnt/other"), ShouldBeNil)
			So(List(), ShouldHaveLength, 2)
			So(SuggestMany("card"), ShouldBeEmpty)
		})
	})
}
