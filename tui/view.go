package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/playback"
	"github.com/dashreel/dashreel/style"
	"github.com/dashreel/dashreel/util"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case segmentsState:
		output = listExtraPaddingStyle.Render(b.segmentsC.View())
	case playerState:
		output = b.viewPlayer()
	case combineState:
		output = b.viewCombine()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func stateIcon(s playback.State) string {
	switch s {
	case playback.Playing:
		return icon.Get(icon.Play)
	case playback.Ended:
		return icon.Get(icon.Ended)
	default:
		return icon.Get(icon.Pause)
	}
}

func (b *statefulBubble) viewPlayer() string {
	snap := b.snapshot
	truncate := style.Truncate(b.width)

	header := fmt.Sprintf("%s %s %s",
		stateIcon(snap.State),
		style.Fg(color.Purple)(snap.Filename),
		style.Faint(fmt.Sprintf("%d/%d", snap.Index+1, snap.Count)),
	)

	details := fmt.Sprintf("%s • %s • %s",
		snap.UTC.Format(time.RFC3339),
		snap.Kind,
		snap.Channel,
	)

	clock := fmt.Sprintf("%s / %s  %s  %s",
		formatClock(snap.Elapsed),
		formatClock(snap.Total),
		style.Bold(fmt.Sprintf("%gx", snap.Speed)),
		style.Faint(snap.Phase.String()),
	)

	lines := []string{
		style.Title("Now Playing"),
		"",
		truncate(header),
		truncate(style.Faint(details)),
		"",
		b.progressC.ViewAs(util.Clamp(snap.Percent/100, 0, 1)),
	}

	if b.session != nil {
		row := markerRow(b.width, b.session.Markers(b.width), b.session.Scale().DayMarkers(time.Local), snap.Index)
		lines = append(lines, style.Fg(style.AccentColor)(row))
	}

	lines = append(lines, "", clock)
	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewCombine() string {
	count := len(b.marked())
	return b.renderLines(
		true,
		[]string{
			style.Title("Combine"),
			"",
			fmt.Sprintf("%s %s into one file", icon.Get(icon.Combine), util.Quantify(count, "segment", "segments")),
			"",
			b.inputC.View(),
		},
	)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
