package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/segment"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const ffprobeScript = `#!/bin/sh
echo probed >> "$(dirname "$0")/calls"
case "$*" in
  *broken*) echo "invalid data" >&2; exit 1 ;;
esac
echo '{"format":{"duration":"59.800000"}}'
`

func fakeFFprobe(t *testing.T) (binary string, calls func() int) {
	dir := t.TempDir()
	binary = filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(binary, []byte(ffprobeScript), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	return binary, func() int {
		data, err := os.ReadFile(filepath.Join(dir, "calls"))
		if err != nil {
			return 0
		}
		return strings.Count(string(data), "probed")
	}
}

func TestProber(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake ffprobe is a shell script")
	}

	Convey("Given a prober backed by a fake ffprobe", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		binary, calls := fakeFFprobe(t)
		p := New(binary, 2)
		ctx := context.Background()

		write := func(path string) segment.Segment {
			So(filesystem.API().WriteFile(path, []byte("mp4"), 0o644), ShouldBeNil)
			return segment.Segment{Path: path, Filename: filepath.Base(path)}
		}

		Convey("Duration parses the container duration", func() {
			d, err := p.Duration(ctx, "/card/a.MP4")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 59.8)
		})

		Convey("Unknown durations are probed once and cached", func() {
			segs := []segment.Segment{write("/card/one.MP4"), write("/card/two.MP4")}

			out, err := p.Annotate(ctx, segs)
			So(err, ShouldBeNil)
			So(out[0].Duration.OrEmpty(), ShouldEqual, 59.8)
			So(out[1].Duration.OrEmpty(), ShouldEqual, 59.8)
			So(segs[0].Duration.IsPresent(), ShouldBeFalse)
			So(calls(), ShouldEqual, 2)

			_, err = p.Annotate(ctx, segs)
			So(err, ShouldBeNil)
			So(calls(), ShouldEqual, 2)

			Convey("until the file changes", func() {
				later := time.Now().Add(time.Hour)
				So(filesystem.API().Chtimes("/card/one.MP4", later, later), ShouldBeNil)
				_, err := p.Annotate(ctx, segs)
				So(err, ShouldBeNil)
				So(calls(), ShouldEqual, 3)
			})
		})

		Convey("Known durations are left alone", func() {
			seg := write("/card/known.MP4")
			seg.Duration = mo.Some(12.0)
			out, err := p.Annotate(ctx, []segment.Segment{seg})
			So(err, ShouldBeNil)
			So(out[0].Duration.OrEmpty(), ShouldEqual, 12.0)
			So(calls(), ShouldEqual, 0)
		})

		Convey("Unreadable files keep an unknown duration", func() {
			out, err := p.Annotate(ctx, []segment.Segment{write("/card/broken.MP4")})
			So(err, ShouldBeNil)
			So(out[0].Duration.IsPresent(), ShouldBeFalse)
		})
	})
}
