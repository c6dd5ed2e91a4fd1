// Package preview maintains the push channel from the photobooth backend: a
// receive-only websocket carrying live preview frames and session events.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	reconnectDelay   = 3 * time.Second
	handshakeTimeout = 5 * time.Second
)

// EventType discriminates inbound push messages.
type EventType string

const (
	EventPreview           EventType = "preview"
	EventPhotoCaptured     EventType = "photo_captured"
	EventSelectionComplete EventType = "selection_complete"
	EventSessionComplete   EventType = "session_complete"
)

// Event is one decoded push message. Only the fields matching its Type are
// populated; everything else keeps its zero value.
type Event struct {
	Type EventType `json:"type"`

	// preview
	Data string `json:"data"`

	// photo_captured
	SessionID         string `json:"session_id"`
	PhotoCount        int    `json:"photo_count"`
	Photo             string `json:"photo"`
	CaptureComplete   bool   `json:"capture_complete"`
	MaxCapturePhotos  int    `json:"max_capture_photos"`
	FinalPhotosNeeded int    `json:"final_photos_needed"`

	// selection_complete
	SelectedIndices []int `json:"selected_indices"`

	// session_complete
	Filename string `json:"filename"`
	Collage  string `json:"collage"`
}

// StatusType marks connection lifecycle notes emitted alongside events.
type StatusType int

const (
	StatusConnected StatusType = iota
	StatusDisconnected
)

// Status reports a connection state change on the channel.
type Status struct {
	Type StatusType
	Err  error
}

// Channel owns one websocket connection to the backend and the goroutine
// that reads it. On any read or dial failure it waits a fixed delay and
// redials, forever; a kiosk stays powered and so does its controller.
type Channel struct {
	url    string
	dialer *websocket.Dialer

	events chan Event
	status chan Status
}

// NewChannel prepares a channel for the backend at base. Accepts http(s) or
// ws(s) URLs; the /ws path is appended when missing.
func NewChannel(base string) *Channel {
	return &Channel{
		url:    wsURL(base),
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		events: make(chan Event, 16),
		status: make(chan Status, 4),
	}
}

// Events delivers decoded push messages in arrival order.
func (c *Channel) Events() <-chan Event { return c.events }

// StatusNotes delivers connect/disconnect notes. Best effort; notes are
// dropped rather than blocking the read loop.
func (c *Channel) StatusNotes() <-chan Status { return c.status }

// Run dials and reads until ctx is cancelled. It closes the event channel on
// return so consumers can range over it.
func (c *Channel) Run(ctx context.Context) {
	defer close(c.events)
	for {
		if err := c.readOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.note(Status{Type: StatusDisconnected, Err: err})
			log.Printf("[preview] connection lost: %v (retrying in %s)", err, reconnectDelay)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Channel) readOnce(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()
	c.note(Status{Type: StatusConnected})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Printf("[preview] dropping malformed message: %v", err)
			continue
		}
		if event.Type == "" {
			continue
		}
		select {
		case c.events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Channel) note(s Status) {
	select {
	case c.status <- s:
	default:
	}
}

func wsURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	case strings.HasPrefix(base, "ws://"), strings.HasPrefix(base, "wss://"):
	default:
		base = "ws://" + base
	}
	if !strings.HasSuffix(base, "/ws") {
		base += "/ws"
	}
	return base
}
