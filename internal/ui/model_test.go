package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notification model", t, func() {
		m := &Model{}

		Convey("Notify shows the text until it is cleared", func() {
			msg := Notify("combined 3 files")()
			So(m.Update(msg), ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "combined 3 files")
			So(m.View("a\nb"), ShouldContainSubstring, "b  ")

			m.Update(ClearNotificationMsg{at: m.notifiedAt})
			So(m.Current(), ShouldBeEmpty)
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("A stale clear does not hide a newer notification", func() {
			m.Update(NotificationMsg("first"))
			stale := ClearNotificationMsg{}
			m.Update(NotificationMsg("second"))
			m.Update(stale)
			So(m.Current(), ShouldEqual, "second")
		})
	})
}
