package tui

import (
	"fmt"
	"strconv"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/internal/ui"
	"github.com/dashreel/dashreel/playback"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/util"
	"github.com/samber/lo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if b.loading {
			var spinnerCmd tea.Cmd
			b.spinnerC, spinnerCmd = b.spinnerC.Update(msg)
			return b, tea.Batch(cmd, spinnerCmd)
		}
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var stateCmd tea.Cmd
	switch b.state {
	case loadingState:
		stateCmd = b.updateLoading(msg)
	case segmentsState:
		stateCmd = b.updateSegments(msg)
	case playerState:
		stateCmd = b.updatePlayer(msg)
	case combineState:
		stateCmd = b.updateCombine(msg)
	case errorState:
		stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.back) {
			if b.statesHistory.Len() == 0 {
				return tea.Quit
			}
			b.stopLoading()
			b.previousState()
		}
	case scannedMsg:
		if len(msg) == 0 {
			b.raiseError(fmt.Errorf("no dashcam segments found in %s", b.options.Scan.Root))
			return nil
		}
		if b.options.Probe {
			b.progressStatus = fmt.Sprintf("Probing %s", util.Quantify(len(msg), "segment", "segments"))
			return b.probeDurations(msg)
		}
		return b.showSegments(msg)
	case probedMsg:
		return b.showSegments(msg)
	case sessionMsg:
		b.stopLoading()
		b.session = msg.session
		b.snapshot = msg.session.Snapshot()
		b.setState(playerState)
		return b.tick()
	case combinedMsg:
		b.stopLoading()
		b.previousState()
		return ui.Notify(fmt.Sprintf("%s Saved %s", icon.Get(icon.Success), msg.dest))
	}
	return nil
}

func (b *statefulBubble) updateSegments(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && b.segmentsC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.segmentsC.FilterState() == list.FilterApplied {
				b.segmentsC.ResetFilter()
				return nil
			}
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.selectOne):
			if item, ok := b.segmentsC.SelectedItem().(*listItem); ok {
				item.toggleMark()
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.selectAll):
			for _, i := range b.segmentsC.VisibleItems() {
				i.(*listItem).marked = true
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.clearSelection):
			for _, i := range b.segmentsC.Items() {
				i.(*listItem).marked = false
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.combine):
			b.inputC.SetValue("")
			b.newState(combineState)
			return b.inputC.Focus()
		case bubblesKey.Matches(msg, b.keymap.play):
			item, ok := b.segmentsC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}

			selection := b.marked()
			start := lo.IndexOf(lo.Map(selection, func(s segment.Segment, _ int) string { return s.Path }), item.segment.Path)
			if start < 0 {
				start = 0
			}

			b.newState(loadingState)
			return tea.Batch(b.startLoading("Starting player"), b.startSession(selection, start))
		}
	}

	b.segmentsC, cmd = b.segmentsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		if b.session == nil || msg.session != b.session {
			return nil
		}
		b.snapshot = b.session.Snapshot()
		return b.tick()
	case controlMsg:
		if b.session != nil {
			b.snapshot = b.session.Snapshot()
		}
	case tea.KeyMsg:
		k := b.keymap
		switch {
		case bubblesKey.Matches(msg, k.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, k.back):
			b.exitSession()
			b.previousState()
		case bubblesKey.Matches(msg, k.playPause):
			return b.control(func(s *playback.Session) error { return s.TogglePlayPause(b.ctx) })
		case bubblesKey.Matches(msg, k.next):
			return b.control(func(s *playback.Session) error { return s.Next(b.ctx) })
		case bubblesKey.Matches(msg, k.prev):
			return b.control(func(s *playback.Session) error { return s.Previous(b.ctx) })
		case bubblesKey.Matches(msg, k.seekBack):
			return b.control(func(s *playback.Session) error { return s.SeekBy(b.ctx, -b.seekStep()) })
		case bubblesKey.Matches(msg, k.seekForward):
			return b.control(func(s *playback.Session) error { return s.SeekBy(b.ctx, b.seekStep()) })
		case bubblesKey.Matches(msg, k.seekStart):
			return b.control(func(s *playback.Session) error { return s.SeekToGlobalTime(b.ctx, 0) })
		case bubblesKey.Matches(msg, k.seekPercent):
			digit, err := strconv.Atoi(msg.String())
			if err != nil {
				return nil
			}
			return b.control(func(s *playback.Session) error { return s.SeekToPercent(b.ctx, float64(digit*10)) })
		case bubblesKey.Matches(msg, k.faster):
			return b.changeSpeed(true)
		case bubblesKey.Matches(msg, k.slower):
			return b.changeSpeed(false)
		case bubblesKey.Matches(msg, k.prevMarker):
			return b.jumpToMarker(false)
		case bubblesKey.Matches(msg, k.nextMarker):
			return b.jumpToMarker(true)
		case bubblesKey.Matches(msg, k.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
		}
	}
	return nil
}

func (b *statefulBubble) updateCombine(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.inputC.Blur()
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			output := b.inputC.Value()
			if output == "" {
				output = b.inputC.Placeholder
			}

			paths := lo.Map(b.marked(), func(s segment.Segment, _ int) string { return s.Path })
			b.inputC.Blur()
			b.setState(loadingState)
			status := fmt.Sprintf("Combining %s", util.Quantify(len(paths), "segment", "segments"))
			return tea.Batch(b.startLoading(status), b.combineSegments(paths, output))
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() == 0 {
				return tea.Quit
			}
			b.previousState()
		}
	}
	return nil
}

