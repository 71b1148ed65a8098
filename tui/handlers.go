package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dashreel/dashreel/concat"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/internal/ui"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/playback"
	"github.com/dashreel/dashreel/probe"
	"github.com/dashreel/dashreel/recent"
	"github.com/dashreel/dashreel/scan"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/timeline"
	"github.com/dashreel/dashreel/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// refreshInterval paces the player view.
const refreshInterval = 200 * time.Millisecond

type (
	scannedMsg  []segment.Segment
	probedMsg   []segment.Segment
	sessionMsg  struct{ session *playback.Session }
	combinedMsg struct{ dest string }
	tickMsg     struct{ session *playback.Session }
	controlMsg  struct{}
)

func (b *statefulBubble) scanFolder() tea.Cmd {
	opts := b.options.Scan
	return func() tea.Msg {
		segments, err := scan.Scan(b.ctx, opts)
		if err != nil {
			return err
		}

		if err := recent.Remember(opts.Root); err != nil {
			log.Warnf("remember %s: %v", opts.Root, err)
		}
		return scannedMsg(segments)
	}
}

func (b *statefulBubble) probeDurations(segments []segment.Segment) tea.Cmd {
	return func() tea.Msg {
		prober := probe.FromConfig()
		if !prober.Available() {
			log.Warn("ffprobe not found, durations stay unknown")
			return probedMsg(segments)
		}

		probed, err := prober.Annotate(b.ctx, segments)
		if err != nil {
			return err
		}
		return probedMsg(probed)
	}
}

func (b *statefulBubble) showSegments(segments []segment.Segment) tea.Cmd {
	b.segments = segments
	items := lo.Map(segments, func(_ segment.Segment, i int) list.Item {
		return &listItem{segment: &b.segments[i]}
	})

	b.segmentsC.Title = fmt.Sprintf("Segments - %s", filepath.Base(b.options.Scan.Root))
	cmd := b.segmentsC.SetItems(items)

	if at, ok := b.options.At.Get(); ok {
		if i := timeline.NewUTCScale(segments).Nearest(at); i >= 0 {
			b.segmentsC.Select(i)
		}
	}

	b.stopLoading()
	b.newState(segmentsState)
	return cmd
}

// startSession replaces any running session with one over selection, starting at index start.
func (b *statefulBubble) startSession(selection []segment.Segment, start int) tea.Cmd {
	b.exitSession()
	b.selection = selection

	return func() tea.Msg {
		if err := b.engine.LoadCatalog(selection); err != nil {
			return err
		}

		session, err := b.engine.EnterAt(b.ctx, start)
		if err != nil {
			return err
		}
		return sessionMsg{session: session}
	}
}

func (b *statefulBubble) exitSession() {
	if b.session == nil {
		return
	}

	if err := b.engine.Exit(); err != nil {
		log.Warnf("exit session: %v", err)
	}
	b.session = nil
}

func (b *statefulBubble) tick() tea.Cmd {
	session := b.session
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{session: session}
	})
}

// control runs a session operation off the UI loop. Failures become notifications.
func (b *statefulBubble) control(op func(s *playback.Session) error) tea.Cmd {
	session := b.session
	if session == nil {
		return nil
	}

	return func() tea.Msg {
		err := op(session)
		switch {
		case err == nil, errors.Is(err, playback.ErrTransitionInProgress):
			return controlMsg{}
		case errors.Is(err, playback.ErrSessionClosed):
			return controlMsg{}
		default:
			log.Warnf("control: %v", err)
			return ui.NotificationMsg(fmt.Sprintf("%s %s", icon.Get(icon.Fail), err))
		}
	}
}

func (b *statefulBubble) seekStep() time.Duration {
	if step := viper.GetDuration(key.PlayerSeekStep); step > 0 {
		return step
	}
	return 10 * time.Second
}

func (b *statefulBubble) changeSpeed(faster bool) tea.Cmd {
	return b.control(func(s *playback.Session) error {
		return s.SetSpeed(nextSpeed(s.Speed(), faster))
	})
}

// jumpToMarker moves to the segment starting just before or after the current one in UTC.
func (b *statefulBubble) jumpToMarker(later bool) tea.Cmd {
	return b.control(func(s *playback.Session) error {
		target, ok := adjacentMarker(s.Markers(b.width), s.Index(), later)
		if !ok {
			return nil
		}
		return s.JumpToSegment(b.ctx, target)
	})
}

func (b *statefulBubble) combineSegments(paths []string, output string) tea.Cmd {
	return func() tea.Msg {
		dir := viper.GetString(key.CombineOutputDir)
		if dir == "" || filepath.IsAbs(output) {
			dir = filepath.Dir(output)
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(paths[0]), dir)
		}

		stem := util.SanitizeFilename(util.FileStem(output))
		if stem == "" {
			stem = "combined"
		}
		name := stem + filepath.Ext(output)
		dest, err := concat.Destination(dir, name)
		if err != nil {
			return err
		}

		combiner := concat.FromConfig()
		if err := combiner.Available(b.ctx); err != nil {
			return err
		}

		if err := combiner.Combine(b.ctx, paths, dest); err != nil {
			return err
		}
		return combinedMsg{dest: dest}
	}
}
