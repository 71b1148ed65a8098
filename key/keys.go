// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys tune the dual-slot player and its decoder processes.
const (
	PlayerBinary              = "player.binary"
	PlayerReadyTimeout        = "player.ready_timeout"
	PlayerSeekTimeout         = "player.seek_timeout"
	PlayerSeekPollInterval    = "player.seek_poll_interval"
	PlayerNavDebounce         = "player.nav_debounce"
	PlayerPlaceholderDuration = "player.placeholder_duration"
	PlayerAutoplay            = "player.autoplay"
	PlayerDefaultSpeed        = "player.default_speed"
	PlayerSeekStep            = "player.seek_step"
)

// Segment Discovery - these keys govern how folders are scanned for dashcam segments.
const (
	ScanChannels       = "scan.channels"
	ScanProbeDurations = "scan.probe_durations"
	ScanProbeWorkers   = "scan.probe_workers"
)

// Concatenation - these keys configure the external ffmpeg toolchain.
const (
	CombineOutputDir = "combine.output_dir"
	CombineFFmpeg    = "combine.ffmpeg"
	CombineFFprobe   = "combine.ffprobe"
)

// Folder History - these keys configure the persistence of recently scanned folders.
const (
	HistoryRememberFolders = "history.remember_folders"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's presentation.
const (
	TUIShowPaths = "tui.show_paths"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
