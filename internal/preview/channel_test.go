package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWSURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"http", "http://booth.local:8000", "ws://booth.local:8000/ws"},
		{"https", "https://booth.local", "wss://booth.local/ws"},
		{"already ws", "ws://booth.local/ws", "ws://booth.local/ws"},
		{"bare host", "booth.local:8000", "ws://booth.local:8000/ws"},
		{"trailing slash", "http://booth.local/", "ws://booth.local/ws"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := wsURL(tt.in); got != tt.want {
				t.Fatalf("wsURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestChannelDeliversEventsInOrder(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		messages := []string{
			`{"type":"preview","data":"ZnJhbWUx"}`,
			`{"type":"photo_captured","photo_count":2,"max_capture_photos":4,"capture_complete":false}`,
			`{"type":"session_complete","filename":"booth_1.jpg","collage":"Y29sbGFnZQ=="}`,
		}
		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := NewChannel(server.URL)
	go channel.Run(ctx)

	want := []EventType{EventPreview, EventPhotoCaptured, EventSessionComplete}
	for i, wantType := range want {
		select {
		case event := <-channel.Events():
			if event.Type != wantType {
				t.Fatalf("event %d: got type %q, want %q", i, event.Type, wantType)
			}
			if wantType == EventPhotoCaptured && event.PhotoCount != 2 {
				t.Fatalf("photo_captured payload not decoded: %+v", event)
			}
			if wantType == EventSessionComplete && event.Collage == "" {
				t.Fatalf("session_complete payload missing collage: %+v", event)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestChannelSkipsMalformedMessages(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"preview","data":"ok"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := NewChannel(server.URL)
	go channel.Run(ctx)

	select {
	case event := <-channel.Events():
		if event.Type != EventPreview || event.Data != "ok" {
			t.Fatalf("expected the valid preview event, got %+v", event)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the valid event")
	}
}

func TestChannelReconnectsAfterDrop(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	connects := make(chan struct{}, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connects <- struct{}{}
		// Drop the connection immediately to force a redial.
		conn.Close()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := NewChannel(strings.Replace(server.URL, "http", "ws", 1) + "/ws")
	go channel.Run(ctx)

	for i := 0; i < 2; i++ {
		select {
		case <-connects:
		case <-time.After(10 * time.Second):
			t.Fatalf("expected connection attempt %d", i+1)
		}
	}
}
