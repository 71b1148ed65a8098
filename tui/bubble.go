package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dashreel/dashreel/internal/ui"
	"github.com/dashreel/dashreel/playback"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/style"
	"github.com/dashreel/dashreel/util"
	"github.com/samber/lo"
)

// statefulBubble holds the application state, its component models and the playback engine.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	segmentsC list.Model
	progressC progress.Model
	inputC    textinput.Model
	helpC     help.Model

	ctx     context.Context
	engine  *playback.Engine
	session *playback.Session

	segments  []segment.Segment
	selection []segment.Segment
	snapshot  playback.Snapshot

	progressStatus string
	lastError      error

	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering the previous state unless it was transient.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.segmentsC.SetSize(listWidth, listHeight)
	b.segmentsC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.progressC.Width = b.width
	b.inputC.Width = b.width
	b.helpC.Width = listWidth
}

func (b *statefulBubble) startLoading(status string) tea.Cmd {
	b.loading = true
	b.progressStatus = status
	return b.spinnerC.Tick
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
	b.progressStatus = ""
}

// marked returns the selected segments, or every listed segment when nothing is selected.
func (b *statefulBubble) marked() []segment.Segment {
	items := lo.FilterMap(b.segmentsC.Items(), func(i list.Item, _ int) (*listItem, bool) {
		item, ok := i.(*listItem)
		return item, ok && item.marked
	})

	if len(items) == 0 {
		return b.segments
	}

	return lo.Map(items, func(item *listItem, _ int) segment.Segment {
		return *item.segment
	})
}

func newBubble(ctx context.Context, engine *playback.Engine, options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		ctx:           ctx,
		engine:        engine,
		notifier:      &ui.Model{},
		options:       options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.segmentsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.segmentsC.KeyMap = keymap.forList()
	bubble.segmentsC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.segmentsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.segmentsC.Title = "Segments"
	bubble.segmentsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Peach).Padding(0, 1)
	bubble.segmentsC.Styles.NoItems = paddingStyle
	bubble.segmentsC.StatusMessageLifetime = time.Hour * 999
	bubble.segmentsC.SetStatusBarItemName("segment", "segments")

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "combined.mp4"
	bubble.inputC.CharLimit = 255
	bubble.inputC.Prompt = "Output: "

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
