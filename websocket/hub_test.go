package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cadenza/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub Hub) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := GetUpgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewClient(hub, conn)
		hub.RegisterClient(client)
		client.StartPumps()
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return server, conn
}

func TestHubBroadcastsSnapshots(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	_, conn := newTestServer(t, hub)

	// Give the hub a moment to process the registration.
	time.Sleep(100 * time.Millisecond)

	sent := types.ProgressMessage{
		JobID:        "job-1",
		Type:         "progress",
		Percent:      42,
		Message:      "Downloading...",
		CurrentTrack: 4,
		TotalTracks:  10,
		Speed:        "2.5 songs/min",
		Timestamp:    time.Now(),
	}
	hub.Notify(sent)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got types.ProgressMessage
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, sent.JobID, got.JobID)
	assert.Equal(t, sent.Type, got.Type)
	assert.Equal(t, sent.Percent, got.Percent)
	assert.Equal(t, sent.CurrentTrack, got.CurrentTrack)
	assert.Equal(t, sent.TotalTracks, got.TotalTracks)
	assert.Equal(t, sent.Speed, got.Speed)
}

func TestHubNotifyNeverBlocks(t *testing.T) {
	hub := NewHub()
	// Run is deliberately not started: every Notify lands in the
	// buffered broadcast channel and overflow is dropped.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			hub.Notify(types.ProgressMessage{JobID: "job-1", Percent: i % 100})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full broadcast channel")
	}
}
