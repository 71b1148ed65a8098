// Package cmd implements the dashreel command-line interface.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/constant"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd reports which external tools are available.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv, ffmpeg and ffprobe can be found",
	Run: func(cmd *cobra.Command, args []string) {
		missing := 0
		for _, dep := range []struct{ name, purpose string }{
			{viper.GetString(key.PlayerBinary), "playback"},
			{viper.GetString(key.CombineFFmpeg), "combining"},
			{viper.GetString(key.CombineFFprobe), "duration probing"},
		} {
			path, err := exec.LookPath(dep.name)
			if err != nil {
				missing++
				fmt.Printf("%s %s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), style.Bold(dep.name), style.Faint("needed for "+dep.purpose))
				continue
			}
			fmt.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(dep.name), style.Faint(path))
		}

		if missing > 0 {
			os.Exit(1)
		}
	},
}

// CheckDependencies exits with install instructions when a required binary is missing.
func CheckDependencies(binaries ...string) {
	for _, bin := range binaries {
		if _, err := exec.LookPath(bin); err != nil {
			printMissingDependencyError(bin)
			os.Exit(1)
		}
	}
}

func installCommand(dep string) string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install " + packageOf(dep)
	case constant.Linux:
		return "sudo apt install " + packageOf(dep)
	case constant.Windows:
		return "scoop install " + packageOf(dep)
	}
	return ""
}

// packageOf maps a binary to the package that ships it.
func packageOf(dep string) string {
	if dep == "ffprobe" {
		return "ffmpeg"
	}
	return dep
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd := installCommand(dep); installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
