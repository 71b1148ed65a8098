// Package cmd implements the dashreel command-line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/constant"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/recent"
	"github.com/dashreel/dashreel/scan"
	"github.com/dashreel/dashreel/style"
	"github.com/dashreel/dashreel/tui"
	"github.com/dashreel/dashreel/util"
	"github.com/dashreel/dashreel/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	addScanFlags(rootCmd.Flags())
	rootCmd.Flags().String("at", "", "Start at the segment nearest to this time")
	rootCmd.ValidArgsFunction = completeFolders

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd scans a folder and opens the player.
var rootCmd = &cobra.Command{
	Use:   constant.Dashreel + " [folder]",
	Short: "Gapless player and combiner for dashcam footage",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Gapless player and combiner for dashcam footage"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies(viper.GetString(key.PlayerBinary))

		root, err := resolveFolder(args)
		handleErr(err)

		opts, err := scanOptions(cmd.Flags(), root)
		handleErr(err)

		at := mo.None[time.Time]()
		if raw := lo.Must(cmd.Flags().GetString("at")); raw != "" {
			t, err := scan.ParseTime(raw)
			handleErr(err)
			at = mo.Some(t)
		}

		handleErr(tui.Run(&tui.Options{
			Scan:  opts,
			At:    at,
			Probe: probeEnabled(cmd.Flags()),
		}))
	},
}

// addScanFlags registers the flags shared by every command that scans a folder.
func addScanFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("channel", "C", nil, "Camera channels to include (A front, B rear)")
	flags.String("from", "", "Only include segments starting at or after this time")
	flags.String("to", "", "Only include segments starting at or before this time")
	flags.StringP("preset", "r", "", "Time range preset: "+strings.Join(lo.Map(scan.Presets(), func(p scan.Preset, _ int) string { return string(p) }), ", "))
	flags.BoolP("probe", "P", false, "Probe segment durations with ffprobe (default from scan.probe_durations)")
}

// probeEnabled prefers an explicit --probe over scan.probe_durations.
func probeEnabled(flags *pflag.FlagSet) bool {
	if flags.Changed("probe") {
		return lo.Must(flags.GetBool("probe"))
	}
	return viper.GetBool(key.ScanProbeDurations)
}

// scanOptions builds scan options from the shared scan flags.
func scanOptions(flags *pflag.FlagSet, root string) (scan.Options, error) {
	opts := scan.Options{Root: root}

	names := lo.Must(flags.GetStringSlice("channel"))
	if len(names) == 0 {
		names = viper.GetStringSlice(key.ScanChannels)
	}
	channels, err := scan.Channels(names)
	if err != nil {
		return opts, err
	}
	opts.Channels = channels

	if raw := lo.Must(flags.GetString("preset")); raw != "" {
		preset, err := scan.ParsePreset(raw)
		if err != nil {
			return opts, err
		}
		opts.From, opts.To = preset.Range(time.Now())
	}

	for name, target := range map[string]*mo.Option[time.Time]{"from": &opts.From, "to": &opts.To} {
		raw := lo.Must(flags.GetString(name))
		if raw == "" {
			continue
		}
		t, err := scan.ParseTime(raw)
		if err != nil {
			return opts, fmt.Errorf("--%s: %w", name, err)
		}
		*target = mo.Some(t)
	}

	return opts, nil
}

// resolveFolder returns the folder argument, or asks for one.
func resolveFolder(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if !util.IsTerminal() {
		return "", errors.New("folder is required")
	}

	return pickFolder()
}

func completeFolders(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return recent.SuggestMany(toComplete), cobra.ShellCompDirectiveFilterDirs
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
