package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/concat"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/open"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/style"
	"github.com/dashreel/dashreel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(combineCmd)

	addScanFlags(combineCmd.Flags())
	combineCmd.Flags().StringP("filter", "f", "", "Fuzzy filter on file names and paths")
	combineCmd.Flags().StringP("output", "o", "", "Output file name or path")
	combineCmd.Flags().BoolP("all", "a", false, "Combine every matching segment without asking")
	combineCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	combineCmd.Flags().Bool("open", false, "Open the folder of the combined file when done")
}

// combineCmd losslessly joins segments into one video.
var combineCmd = &cobra.Command{
	Use:               "combine [folder]",
	Short:             "Join dashcam segments into a single video without re-encoding",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeFolders,
	Run: func(cmd *cobra.Command, args []string) {
		combiner := concat.FromConfig()
		if err := combiner.Available(cmd.Context()); err != nil {
			printMissingDependencyError(viper.GetString(key.CombineFFmpeg))
			handleErr(err)
		}

		root, err := resolveFolder(args)
		handleErr(err)

		segments, err := scanFolder(cmd.Context(), cmd.Flags(), root)
		handleErr(err)
		if len(segments) == 0 {
			handleErr(errors.New("no segments to combine"))
		}

		if !lo.Must(cmd.Flags().GetBool("all")) {
			segments, err = askSegments(segments)
			handleErr(err)
		}

		output := lo.Must(cmd.Flags().GetString("output"))
		if output == "" {
			output, err = askOutput(segments)
			handleErr(err)
		}

		dir := viper.GetString(key.CombineOutputDir)
		if filepath.IsAbs(output) || dir == "" {
			dir = filepath.Dir(output)
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}

		dest, err := concat.Destination(dir, filepath.Base(output))
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			proceed := true
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Combine %s into %s?", util.Quantify(len(segments), "segment", "segments"), dest),
				Default: true,
			}, &proceed))
			if !proceed {
				return
			}
		}

		paths := lo.Map(segments, func(s segment.Segment, _ int) string { return s.Path })
		erase := util.PrintErasable(fmt.Sprintf("%s Combining %s...", icon.Get(icon.Progress), util.Quantify(len(paths), "segment", "segments")))
		err = combiner.Combine(cmd.Context(), paths, dest)
		erase()
		handleErr(err)

		fmt.Printf("%s saved %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(dest))

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Folder(dest))
		}
	},
}

func askSegments(segments []segment.Segment) ([]segment.Segment, error) {
	options := lo.Map(segments, func(s segment.Segment, _ int) string {
		return fmt.Sprintf("%s %s %s", s.Local.Format("2006-01-02 15:04:05"), s.Channel, s.Filename)
	})

	var chosen []int
	err := survey.AskOne(&survey.MultiSelect{
		Message:  "Segments to combine",
		Options:  options,
		Default:  options,
		PageSize: 15,
	}, &chosen, survey.WithValidator(survey.MinItems(1)))
	if err != nil {
		return nil, err
	}

	return lo.Map(chosen, func(i int, _ int) segment.Segment { return segments[i] }), nil
}

func askOutput(segments []segment.Segment) (string, error) {
	first, last := segments[0], segments[len(segments)-1]
	suggestion := fmt.Sprintf("%s_%s.mp4",
		first.Local.Format("20060102_150405"),
		last.Local.Add(time.Duration(last.DurationOr(0)*float64(time.Second))).Format("150405"),
	)

	var output string
	err := survey.AskOne(&survey.Input{
		Message: "Output file",
		Default: suggestion,
	}, &output, survey.WithValidator(survey.Required))
	return output, err
}
