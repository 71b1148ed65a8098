// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/constant"
	"github.com/dashreel/dashreel/key"
	"github.com/dashreel/dashreel/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Dashreel + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	case float64:
		return "float64"
	case time.Duration:
		return "duration"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerBinary, "mpv", "Decoder executable used for both playback slots")
	register(key.PlayerReadyTimeout, 10*time.Second, "How long a segment transition waits for the next segment to become playable.\nPlayback falls back to paused when it expires")
	register(key.PlayerSeekTimeout, 5*time.Second, "How long a seek waits for the decoder to become seekable")
	register(key.PlayerSeekPollInterval, 100*time.Millisecond, "Polling interval used while waiting for seek readiness")
	register(key.PlayerNavDebounce, 250*time.Millisecond, "Repeated next/previous requests inside this window are ignored")
	register(key.PlayerPlaceholderDuration, 1.0, "Provisional duration in seconds for segments whose length is not known yet")
	register(key.PlayerAutoplay, true, "Start playing as soon as the player opens")
	register(key.PlayerDefaultSpeed, 1.0, "Initial playback speed multiplier")
	register(key.PlayerSeekStep, 5*time.Second, "Seek distance of the left/right keys")
	register(key.ScanChannels, []string{"A", "B"}, "Camera channels to include.\nA is the front camera, B the rear camera")
	register(key.ScanProbeDurations, true, "Probe segment durations with ffprobe while scanning")
	register(key.ScanProbeWorkers, 4, "Number of concurrent ffprobe processes")
	register(key.CombineOutputDir, "", "Directory for combined videos.\nDefaults to the scanned folder")
	register(key.CombineFFmpeg, "ffmpeg", "ffmpeg executable used for concatenation")
	register(key.CombineFFprobe, "ffprobe", "ffprobe executable used for duration probing")
	register(key.HistoryRememberFolders, true, "Remember scanned folders and suggest them later")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.TUIShowPaths, false, "Show full segment paths under list items")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
