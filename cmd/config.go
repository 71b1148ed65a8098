package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/config"
	"github.com/dashreel/dashreel/constant"
	"github.com/dashreel/dashreel/filesystem"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/style"
	"github.com/dashreel/dashreel/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// closestKey returns the registered key with the smallest edit distance to key.
func closestKey(key string) string {
	return lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
}

func errUnknownKey(key string) error {
	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closestKey(key)),
	)
}

// lookupField resolves key to its registered field.
func lookupField(key string) (config.Field, error) {
	field, ok := config.Default[key]
	if !ok {
		return config.Field{}, errUnknownKey(key)
	}
	return field, nil
}

// keyArg takes the key from the first argument, falling back to --key.
func keyArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if key := lo.Must(cmd.Flags().GetString("key")); key != "" {
		return key, nil
	}
	return "", errors.New("a key is required, e.g. player.seek_step")
}

// sections lists the key prefixes in use, such as player or scan.
func sections() []string {
	names := lo.Uniq(lo.Map(lo.Keys(config.Default), func(key string, _ int) string {
		section, _, _ := strings.Cut(key, ".")
		return section
	}))
	slices.Sort(names)
	return names
}

// selectFields returns the fields named by keys, or every field of section, sorted by key.
// An empty section with no keys selects everything.
func selectFields(keys []string, section string) ([]config.Field, error) {
	var fields []config.Field

	if len(keys) > 0 {
		for _, key := range keys {
			field, err := lookupField(key)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}
	} else {
		fields = lo.Filter(lo.Values(config.Default), func(f config.Field, _ int) bool {
			return section == "" || strings.HasPrefix(f.Key, section+".")
		})
		if len(fields) == 0 {
			return nil, fmt.Errorf("no section %s, known sections: %s", section, strings.Join(sections(), ", "))
		}
	}

	slices.SortFunc(fields, func(a, b config.Field) int {
		return strings.Compare(a.Key, b.Key)
	})
	return fields, nil
}

func configFile() string {
	return filepath.Join(where.Config(), constant.Dashreel+".toml")
}

// persist writes the in-memory settings, creating the file on first use.
func persist() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.SafeWriteConfig()
	}
	return err
}

func completeConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func completeSections(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return sections(), cobra.ShellCompDirectiveNoFileComp
}

func success(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change player, scan and combine settings",
	Long: fmt.Sprintf(
		"Settings live in %s and can be overridden with %s_* environment variables.",
		style.Fg(color.Yellow)(constant.Dashreel+".toml"),
		strings.ToUpper(constant.Dashreel),
	),
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only describe these keys")
	configInfoCmd.Flags().StringP("section", "s", "", "Only describe keys of this section, e.g. player")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print fields as JSON")
	configInfoCmd.MarkFlagsMutuallyExclusive("key", "section")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completeConfigKeys)
	_ = configInfoCmd.RegisterFlagCompletionFunc("section", completeSections)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:     "info",
	Short:   "Describe settings with their defaults and environment variables",
	Example: "  dashreel config info --section player\n  dashreel config info -k scan.probe_workers --json",
	Run: func(cmd *cobra.Command, args []string) {
		fields, err := selectFields(
			lo.Must(cmd.Flags().GetStringSlice("key")),
			lo.Must(cmd.Flags().GetString("section")),
		)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i := range fields {
			if i > 0 {
				fmt.Print("\n\n")
			}
			fmt.Print(fields[i].Pretty())
		}
		fmt.Println()
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "New value; repeat for list keys")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completeConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value...]",
	Short: "Change a setting",
	Long:  "The value is parsed with the type of the key's default: durations like 250ms, numbers, booleans or a list.",
	Example: "  dashreel config set player.seek_step 5s\n" +
		"  dashreel config set scan.channels A B\n" +
		"  dashreel config set player.autoplay false",
	ValidArgsFunction: completeConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := keyArg(cmd, args)
		handleErr(err)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		field, err := lookupField(key)
		handleErr(err)

		value, err := field.Parse(raw)
		handleErr(err)

		viper.Set(key, value)
		handleErr(persist())

		success("%s = %s", style.Fg(color.Purple)(key), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completeConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a setting",
	Example:           "  dashreel config get player.ready_timeout",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := keyArg(cmd, args)
		handleErr(err)

		_, err = lookupField(key)
		handleErr(err)

		fmt.Println(viper.Get(key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to " + constant.Dashreel + ".toml",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote %s", style.Fg(color.Yellow)(path))
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file; defaults apply afterwards",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		success("deleted %s", style.Fg(color.Yellow)(configFile()))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().StringP("section", "s", "", "Restore every key of this section")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "section", "all")
	configResetCmd.MarkFlagsOneRequired("key", "section", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completeConfigKeys)
	_ = configResetCmd.RegisterFlagCompletionFunc("section", completeSections)
}

var configResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Restore settings to their defaults",
	Example: "  dashreel config reset --key player.nav_debounce\n  dashreel config reset --section player",
	Run: func(cmd *cobra.Command, args []string) {
		var keys []string
		if key := lo.Must(cmd.Flags().GetString("key")); key != "" {
			keys = []string{key}
		}
		section := lo.Must(cmd.Flags().GetString("section"))

		fields, err := selectFields(keys, section)
		handleErr(err)

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		handleErr(persist())

		if len(fields) == 1 {
			success("%s reset to %s",
				style.Fg(color.Purple)(fields[0].Key),
				style.Fg(color.Yellow)(fmt.Sprint(fields[0].Value)),
			)
			return
		}
		success("reset %d settings", len(fields))
	},
}
