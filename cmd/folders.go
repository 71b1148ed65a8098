package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/folders"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/recent"
	"github.com/dashreel/dashreel/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(foldersCmd)

	foldersCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	foldersCmd.Flags().BoolP("recent", "R", false, "List recently scanned folders")
	foldersCmd.Flags().String("forget", "", "Remove a folder from the recent list")
	foldersCmd.MarkFlagsMutuallyExclusive("recent", "forget")
	foldersCmd.SetOut(os.Stdout)
}

// foldersCmd lists places that may hold footage.
var foldersCmd = &cobra.Command{
	Use:               "folders [path]",
	Short:             "List likely footage locations or the subfolders of a path",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeFolders,
	Run: func(cmd *cobra.Command, args []string) {
		if forget := lo.Must(cmd.Flags().GetString("forget")); forget != "" {
			handleErr(recent.Forget(forget))
			fmt.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), forget)
			return
		}

		var entries []folders.Entry

		switch {
		case lo.Must(cmd.Flags().GetBool("recent")):
			entries = lo.Map(recent.List(), func(f recent.Folder, _ int) folders.Entry {
				return folders.Entry{Name: f.Path, Path: f.Path}
			})
		case len(args) > 0:
			children, err := folders.Children(args[0])
			handleErr(err)
			entries = children
		default:
			entries = folders.Common()
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		for _, e := range entries {
			cmd.Printf("%s %s %s\n", icon.Get(icon.Folder), style.Bold(e.Name), style.Faint(e.Path))
		}
	},
}

const (
	chooseHere = ". (scan this folder)"
	chooseUp   = ".. (up)"
)

// pickFolder walks the filesystem interactively, starting from recent and common folders.
func pickFolder() (string, error) {
	starts := lo.Map(recent.List(), func(f recent.Folder, _ int) folders.Entry {
		return folders.Entry{Name: icon.Get(icon.Search) + " " + f.Path, Path: f.Path}
	})
	starts = append(starts, folders.Common()...)
	if len(starts) == 0 {
		return "", errors.New("no folders to choose from")
	}

	var choice string
	err := survey.AskOne(&survey.Select{
		Message:  "Footage folder",
		Options:  lo.Map(starts, func(e folders.Entry, _ int) string { return e.Name }),
		PageSize: 15,
	}, &choice)
	if err != nil {
		return "", err
	}

	current := lo.FindOrElse(starts, starts[0], func(e folders.Entry) bool { return e.Name == choice }).Path

	for {
		children, err := folders.Children(current)
		if err != nil {
			return "", err
		}

		options := []string{chooseHere}
		if _, ok := folders.Parent(current); ok {
			options = append(options, chooseUp)
		}
		options = append(options, lo.Map(children, func(e folders.Entry, _ int) string { return e.Name })...)

		err = survey.AskOne(&survey.Select{
			Message:  current,
			Options:  options,
			PageSize: 15,
		}, &choice)
		if err != nil {
			return "", err
		}

		switch choice {
		case chooseHere:
			return current, nil
		case chooseUp:
			current, _ = folders.Parent(current)
		default:
			current = filepath.Join(current, choice)
		}
	}
}
