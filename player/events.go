package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/dashreel/dashreel/log"
)

// observed lists the properties mpv pushes to the event connection.
var observed = []string{
	"pause",
	"eof-reached",
	"duration",
	"seekable",
	"time-pos",
}

// eventListener owns the persistent mpv connection that carries property changes and events.
type eventListener struct {
	socketPath string
	dispatch   func(ipcMessage)
	conn       net.Conn
	done       chan struct{}
	once       sync.Once
}

func newEventListener(socketPath string, dispatch func(ipcMessage)) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		dispatch:   dispatch,
		done:       make(chan struct{}),
	}
}

// start connects, subscribes to the observed properties and starts the read loop.
// Observers are registered on the listening connection itself, since mpv only
// sends property changes to the client that asked for them.
func (el *eventListener) start() error {
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	go el.readLoop()

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// stop closes the connection, which ends the read loop.
func (el *eventListener) stop() {
	if el.conn == nil {
		return
	}
	el.once.Do(func() {
		if el.conn != nil {
			_ = el.conn.Close()
		}
	})
	<-el.done
}

func (el *eventListener) readLoop() {
	defer close(el.done)

	scanner := bufio.NewScanner(el.conn)
	scanner.Buffer(make([]byte, 4096), maxLineSize)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Event == "" {
			// replies to our observe_property commands
			continue
		}
		el.dispatch(msg)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("event listener read error: %v", err)
	}
}
