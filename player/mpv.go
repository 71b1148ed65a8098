package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dashreel/dashreel/constant"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/where"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
	eofQueryTimeout   = 500 * time.Millisecond
	// eofTolerance is how close to the end a pause must happen to count as the end of media.
	eofTolerance = 0.1
)

// Options configure a launched mpv process.
type Options struct {
	// Binary is the mpv executable name or path.
	Binary string
	// Title is the window title.
	Title string
}

// MPV implements Decoder with one idle mpv process per instance.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	stderr     io.Closer
	events     *eventListener
	mu         sync.Mutex // serializes IPC commands

	state    sync.RWMutex
	handler  func(Event)
	paused   bool
	ready    bool
	seekable bool
	position float64
	duration float64
	known    bool // duration is known
	ended    bool // EventEnded was emitted for the current media
}

// NewMPV creates an MPV instance that is not yet attached to a process.
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
		paused: true,
	}
}

// MPVLauncher returns a Launcher that starts mpv processes with the given options.
func MPVLauncher(opts Options) Launcher {
	return func(ctx context.Context) (Decoder, error) {
		m := NewMPV()
		if err := m.Start(ctx, opts); err != nil {
			return nil, err
		}
		return m, nil
	}
}

// Start launches an idle, paused mpv process and connects to its IPC socket.
func (m *MPV) Start(ctx context.Context, opts Options) error {
	binary := opts.Binary
	if binary == "" {
		binary = "mpv"
	}

	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%s.sock", constant.Dashreel, uuid.NewString()))

	// Respect the user's mpv.conf: no --vo, --profile or --hwdec here.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--title=%s", sanitizeTitle(opts.Title)),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
	}

	m.cmd = exec.Command(binary, args...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	stderr := log.Writer(logrus.DebugLevel)
	m.stderr = stderr
	m.cmd.Stdout = nil
	m.cmd.Stderr = stderr
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		_ = stderr.Close()
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		// If socket never became ready, kill the orphaned process
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = newEventListener(m.socketPath, m.dispatch)
	if err := m.events.start(); err != nil {
		_ = m.Close()
		return err
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket(ctx context.Context) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) SetHandler(handler func(Event)) {
	m.state.Lock()
	defer m.state.Unlock()
	m.handler = handler
}

func (m *MPV) emit(e Event) {
	m.state.RLock()
	handler := m.handler
	m.state.RUnlock()

	if handler != nil {
		handler(e)
	}
}

// Load replaces the current media. mpv keeps its pause state across loads.
func (m *MPV) Load(ctx context.Context, target string) error {
	safe, err := SanitizeTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.state.Lock()
	m.ready, m.seekable, m.known, m.ended = false, false, false, false
	m.position, m.duration = 0, 0
	m.state.Unlock()

	_, err = m.sendCommand(ctx, "loadfile", safe, "replace")
	return err
}

func (m *MPV) Play(ctx context.Context) error {
	if _, err := m.sendCommand(ctx, "set_property", "pause", false); err != nil {
		return err
	}
	m.state.Lock()
	m.paused = false
	m.state.Unlock()
	return nil
}

func (m *MPV) Pause(ctx context.Context) error {
	if _, err := m.sendCommand(ctx, "set_property", "pause", true); err != nil {
		return err
	}
	m.state.Lock()
	m.paused = true
	m.state.Unlock()
	return nil
}

func (m *MPV) Paused() bool {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.paused
}

func (m *MPV) Ready() bool {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.ready
}

func (m *MPV) Seekable() bool {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.ready && m.seekable
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(ctx context.Context, seconds float64) error {
	if _, err := m.sendCommand(ctx, "seek", seconds, "absolute"); err != nil {
		return err
	}
	m.state.Lock()
	m.position = seconds
	m.ended = false
	m.state.Unlock()
	return nil
}

func (m *MPV) Position() float64 {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.position
}

func (m *MPV) Duration() (float64, bool) {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.duration, m.known
}

func (m *MPV) SetSpeed(speed float64) error {
	return m.Set("speed", speed)
}

// SetVisible mutes and minimizes a hidden decoder so a preloading slot is neither seen nor heard.
func (m *MPV) SetVisible(visible bool) error {
	if err := m.Set("mute", !visible); err != nil {
		return err
	}
	// not every video output supports minimizing
	if err := m.Set("window-minimized", !visible); err != nil {
		log.Debugf("mpv: window-minimized: %v", err)
	}
	return nil
}

// Set a property
func (m *MPV) Set(property string, value any) error {
	ctx, cancel := context.WithTimeout(context.Background(), readDeadline*maxRetries)
	defer cancel()
	_, err := m.sendCommand(ctx, "set_property", property, value)
	return err
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	if m.events != nil {
		m.events.stop()
	}

	// Try graceful quit via IPC
	ctx, cancel := context.WithTimeout(context.Background(), readDeadline)
	_, _ = m.sendCommand(ctx, "quit")
	cancel()

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	if m.stderr != nil {
		_ = m.stderr.Close()
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// dispatch translates raw mpv events into decoder events.
func (m *MPV) dispatch(msg ipcMessage) {
	switch msg.Event {
	case "property-change":
		m.onProperty(msg.Name, msg.Data)
	case "file-loaded":
		m.state.Lock()
		m.ready, m.ended = true, false
		m.state.Unlock()
		m.emit(Event{Kind: EventReady})
	case "end-file":
		if msg.Reason == "error" {
			m.emit(Event{Kind: EventError, Err: fmt.Errorf("mpv: load failed: %s", msg.FileError)})
		}
	}
}

func (m *MPV) onProperty(name string, data any) {
	switch name {
	case "pause":
		paused, ok := data.(bool)
		if !ok {
			return
		}
		m.state.Lock()
		m.paused = paused
		m.state.Unlock()

		switch {
		case !paused:
			m.emit(Event{Kind: EventPlay})
		case m.atEnd():
			m.end()
		default:
			m.emit(Event{Kind: EventPause})
		}
	case "eof-reached":
		if reached, _ := data.(bool); reached {
			m.end()
		}
	case "duration":
		d, ok := data.(float64)
		if !ok || d <= 0 {
			return
		}
		m.state.Lock()
		m.duration, m.known = d, true
		m.state.Unlock()
		m.emit(Event{Kind: EventMetadata, Duration: d})
	case "seekable":
		seekable, _ := data.(bool)
		m.state.Lock()
		m.seekable = seekable
		m.state.Unlock()
	case "time-pos":
		pos, ok := data.(float64)
		if !ok {
			return
		}
		m.state.Lock()
		m.position = pos
		m.state.Unlock()
		m.emit(Event{Kind: EventTimeUpdate, Position: pos})
	}
}

// atEnd tells an end-of-media pause (keep-open) apart from a user pause.
func (m *MPV) atEnd() bool {
	ctx, cancel := context.WithTimeout(context.Background(), eofQueryTimeout)
	defer cancel()

	if data, err := doSendCommand(ctx, m.socketPath, []any{"get_property", "eof-reached"}); err == nil {
		if reached, ok := data.(bool); ok && reached {
			return true
		}
	}

	m.state.RLock()
	defer m.state.RUnlock()
	return m.known && m.position >= m.duration-eofTolerance
}

// end emits EventEnded at most once per loaded media.
func (m *MPV) end() {
	m.state.Lock()
	if m.ended {
		m.state.Unlock()
		return
	}
	m.ended = true
	m.state.Unlock()
	m.emit(Event{Kind: EventEnded})
}

// SanitizeTarget validates that a media locator is safe to pass to mpv.
// Local paths are cleaned; remote targets must be http(s).
func SanitizeTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty target")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in target")
	}

	// Prevent flag injection
	if strings.HasPrefix(l, "-") {
		return "", errors.New("target must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		case "file":
			return filepath.Clean(u.Path), nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the window title for mpv
func sanitizeTitle(title string) string {
	if title == "" {
		title = constant.Dashreel
	}
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
