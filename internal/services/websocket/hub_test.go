package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashify/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func startHub(t *testing.T) (*HubService, string) {
	t.Helper()
	hub := NewHubService(logger.NewNop())
	go hub.Run()
	t.Cleanup(hub.Stop)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
		defer hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub, url := startHub(t)

	first := dial(t, url)
	second := dial(t, url)
	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.BroadcastJSON("stats", map[string]int{"totalDetections": 7}))

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, "stats", msg.Type)
		assert.Equal(t, map[string]interface{}{"totalDetections": float64(7)}, msg.Data)
	}
}

func TestHub_LateClientCatchesUp(t *testing.T) {
	hub, url := startHub(t)

	require.NoError(t, hub.BroadcastJSON("stats", map[string]int{"totalDetections": 1}))
	require.NoError(t, hub.BroadcastJSON("stats", map[string]int{"totalDetections": 2}))

	conn := dial(t, url)

	// Depending on scheduling the client sees the replayed snapshot or the
	// live broadcasts; either way the newest value arrives.
	latest := float64(0)
	for latest != 2 {
		msg := readMessage(t, conn)
		data, ok := msg.Data.(map[string]interface{})
		require.True(t, ok)
		latest = data["totalDetections"].(float64)
	}
	assert.Equal(t, float64(2), latest)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StopDoesNotBlockProducers(t *testing.T) {
	hub := NewHubService(logger.NewNop())
	go hub.Run()
	hub.Stop()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast([]byte("{}"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked after Stop")
	}
}
