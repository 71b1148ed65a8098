package open

import (
	"testing"

	"github.com/dashreel/dashreel/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Each platform uses its own opener", t, func() {
		cmd, err := command(constant.Darwin, "/out/trip.mp4")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"open", "/out/trip.mp4"})

		cmd, err = command(constant.Linux, "/out/trip.mp4")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"xdg-open", "/out/trip.mp4"})

		cmd, err = command(constant.Windows, `C:\out\trip.mp4`)
		So(err, ShouldBeNil)
		So(cmd.Args[1:], ShouldResemble, []string{"url.dll,FileProtocolHandler", `C:\out\trip.mp4`})

		_, err = command("plan9", "/out/trip.mp4")
		So(err, ShouldNotBeNil)
	})
}
