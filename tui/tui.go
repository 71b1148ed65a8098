// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/player"
	"github.com/dashreel/dashreel/playback"
	"github.com/dashreel/dashreel/scan"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Scan scan.Options
	// At starts playback at the segment nearest to this UTC instant.
	At mo.Option[time.Time]
	// Probe measures durations with ffprobe before the list is shown.
	Probe bool
	// Launcher starts decoders; nil means mpv.
	Launcher player.Launcher
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	if options.Launcher == nil {
		options.Launcher = player.MPVLauncher(player.Options{
			Binary: viper.GetString(key.PlayerBinary),
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := playback.NewEngine(options.Launcher, playback.OptionsFromConfig())
	bubble := newBubble(ctx, engine, options)
	defer bubble.exitSession()

	bubble.setState(loadingState)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
