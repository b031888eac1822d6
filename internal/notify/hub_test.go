package notify

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsSyncUpdate(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	require.NoError(t, hub.Publish(2, 99))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(message, &envelope))
	assert.Equal(t, EventSyncUpdate, envelope.Type)
	assert.EqualValues(t, 2, envelope.Data["major_version"])
	assert.EqualValues(t, 99, envelope.Data["minor_version"])
	assert.NotZero(t, envelope.Timestamp)
}

func TestHubBroadcastsToAllClients(t *testing.T) {
	hub := NewHub(nil)
	first := dialHub(t, hub)
	second := dialHub(t, hub)
	waitForClients(t, hub, 2)

	require.NoError(t, hub.Publish(1, 7))

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)

		var envelope Envelope
		require.NoError(t, json.Unmarshal(message, &envelope))
		assert.EqualValues(t, 7, envelope.Data["minor_version"])
	}
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	// No connected clients: publish is a no-op, never an error.
	assert.NoError(t, hub.Publish(1, 1))
}

func TestHubPong(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply["action"])
}
