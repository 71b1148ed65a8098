package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/style"
	"github.com/spf13/viper"
)

// listItem wraps a scanned segment for the segments list.
type listItem struct {
	segment *segment.Segment
	marked  bool
}

func (t *listItem) toggleMark() {
	t.marked = !t.marked
}

func kindIcon(k segment.Kind) string {
	switch k {
	case segment.KindEmergency:
		return icon.Get(icon.Emergency)
	case segment.KindParking:
		return icon.Get(icon.Parking)
	default:
		return icon.Get(icon.Video)
	}
}

func (t *listItem) Title() string {
	s := t.segment
	title := fmt.Sprintf("%s %s %s",
		kindIcon(s.Kind),
		s.Local.Format("2006-01-02 15:04:05"),
		style.Faint(string(s.Channel)),
	)

	if t.marked {
		title = fmt.Sprintf("%s %s", title, lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Mark)))
	}
	return title
}

func (t *listItem) Description() string {
	s := t.segment
	parts := []string{s.Filename, string(s.Kind)}

	if d, ok := s.Duration.Get(); ok {
		parts = append(parts, (time.Duration(d * float64(time.Second))).Round(time.Second).String())
	}

	if viper.GetBool(key.TUIShowPaths) {
		parts = append(parts, s.Path)
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	return t.segment.Filename + " " + string(t.segment.Kind)
}
