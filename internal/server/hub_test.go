package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeMessage struct {
	Type    string             `json:"type"`
	Payload schema.ChangeEvent `json:"payload"`
}

func startHub(t *testing.T, hub *Hub) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return cancel
}

func TestHub_PublishReachesClients(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)

	first := newClient(hub, nil, "first")
	second := newClient(hub, nil, "second")
	require.True(t, hub.Register(first))
	require.True(t, hub.Register(second))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Publish(schema.ChangeEvent{ID: "evt-1", Files: []string{"alice.log"}})

	for _, client := range []*Client{first, second} {
		select {
		case message := <-client.send:
			var msg changeMessage
			require.NoError(t, json.Unmarshal(message, &msg))
			assert.Equal(t, "change", msg.Type)
			assert.Equal(t, "evt-1", msg.Payload.ID)
			assert.Equal(t, []string{"alice.log"}, msg.Payload.Files)
		case <-time.After(time.Second):
			t.Fatalf("client %s got no message", client.remote)
		}
	}

	hub.Unregister(first)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-first.send
	assert.False(t, open, "unregister closes the send channel")
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	cancel := startHub(t, hub)

	client := newClient(hub, nil, "test")
	require.True(t, hub.Register(client))
	cancel()

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	// A stopped hub refuses clients and drops events without blocking
	assert.False(t, hub.Register(newClient(hub, nil, "late")))
	hub.Publish(schema.ChangeEvent{ID: "dropped"})
	hub.Unregister(client)
	assert.Zero(t, hub.ClientCount())
}

func TestServeSSE(t *testing.T) {
	s, _, _ := newTestServer(t)
	startHub(t, s.hub)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	s.hub.Publish(schema.ChangeEvent{ID: "evt-sse", Files: []string{"bob.log"}})

	var data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if rest, ok := strings.CutPrefix(line, "data: "); ok {
			data = strings.TrimSpace(rest)
		}
	}
	var msg changeMessage
	require.NoError(t, json.Unmarshal([]byte(data), &msg))
	assert.Equal(t, "evt-sse", msg.Payload.ID)
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readChange(t *testing.T, conn *websocket.Conn, timeout time.Duration) changeMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	messageType, message, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, messageType)

	var msg changeMessage
	require.NoError(t, json.Unmarshal(message, &msg))
	return msg
}

func TestServeWS(t *testing.T) {
	s, _, _ := newTestServer(t)
	startHub(t, s.hub)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	conn := dialWS(t, ts)
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	s.hub.Publish(schema.ChangeEvent{ID: "evt-ws"})
	msg := readChange(t, conn, 2*time.Second)
	assert.Equal(t, "change", msg.Type)
	assert.Equal(t, "evt-ws", msg.Payload.ID)

	_ = conn.Close()
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWS_BurstSendsOneFramePerEvent(t *testing.T) {
	s, _, _ := newTestServer(t)
	startHub(t, s.hub)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	conn := dialWS(t, ts)
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	ids := []string{"evt-1", "evt-2", "evt-3", "evt-4", "evt-5"}
	for _, id := range ids {
		s.hub.Publish(schema.ChangeEvent{ID: id})
	}
	for _, id := range ids {
		msg := readChange(t, conn, 2*time.Second)
		assert.Equal(t, "change", msg.Type)
		assert.Equal(t, id, msg.Payload.ID)
	}
}

func TestWatcher_PushesLogWrites(t *testing.T) {
	s, _, dir := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.hub.Run(ctx)
	s.startWatching(ctx)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	conn := dialWS(t, ts)
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// Keep appending until the watcher has registered the directory
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f, err := os.OpenFile(filepath.Join(dir, "alice.log"), os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return
				}
				_, _ = f.WriteString("1704290800,995,10\n")
				_ = f.Close()
			}
		}
	}()

	msg := readChange(t, conn, 5*time.Second)
	assert.Equal(t, []string{"alice.log"}, msg.Payload.Files)
	assert.NotEmpty(t, msg.Payload.ID)
}
