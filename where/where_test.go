package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dashreel/dashreel/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestWhere(t *testing.T) {
	Convey("Given a config path override", t, func() {
		custom := filepath.Join(os.TempDir(), "dashreel-where-test")
		So(os.Setenv(EnvConfigPath, custom), ShouldBeNil)
		Reset(func() {
			_ = os.Unsetenv(EnvConfigPath)
		})

		Convey("Config should resolve to the override and exist", func() {
			So(Config(), ShouldEqual, custom)
			exists, err := filesystem.API().DirExists(custom)
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("Logs and Folders should live under the config directory", func() {
			So(Logs(), ShouldEqual, filepath.Join(custom, "logs"))
			So(Folders(), ShouldEqual, filepath.Join(custom, "folders.json"))
		})
	})

	Convey("Temp should be namespaced by the application", t, func() {
		So(filepath.Base(Temp()), ShouldEqual, "dashreel")
	})
}
