// Package cmd implements the dashreel command-line interface.
package cmd

import (
	"fmt"

	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/util"
	"github.com/dashreel/dashreel/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines a filesystem resource eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"duration cache", "durations", mo.Some("d"), where.Durations},
	{"recent folders", "folders", mo.Some("f"), where.Folders},
	{"temporary files", "temp", mo.Some("t"), where.Temp},
	{"logs", "logs", mo.Some("l"), where.Logs},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached and temporary artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and temporary application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			location := target.location()
			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			exists, _ := filesystem.API().Exists(location)
			if exists {
				handleErr(util.Delete(location))
			}
			e()
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
