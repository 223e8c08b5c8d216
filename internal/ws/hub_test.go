package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auracheck/internal/logging"
	"auracheck/internal/models"
)

func startHubServer(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	hub := NewHub(logging.NewNop())
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// The server handler registers the connection concurrently with the
	// dial returning.
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	return hub, client
}

func TestHub_BroadcastDeliversJSON(t *testing.T) {
	hub, client := startHubServer(t)

	hub.Broadcast(models.LatestReading{DeviceID: "esp-01", Location: "Block A", Status: models.StatusCritical})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"device_id":"esp-01"`)
	assert.Contains(t, string(msg), `"status":"critical"`)
}

func TestHub_DropsClientsThatFailWrites(t *testing.T) {
	hub, client := startHubServer(t)

	require.NoError(t, client.Close())

	// Writes to the closed connection fail within a broadcast or two,
	// after which the hub must have dropped it.
	assert.Eventually(t, func() bool {
		hub.Broadcast(models.LatestReading{DeviceID: "esp-01"})
		return hub.ClientCount() == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestHub_BroadcastWithNoClientsIsANoOp(t *testing.T) {
	hub := NewHub(logging.NewNop())
	hub.Broadcast(models.LatestReading{DeviceID: "esp-01"})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_UnmarshalableEventIsDropped(t *testing.T) {
	hub, client := startHubServer(t)

	hub.Broadcast(make(chan int)) // not JSON-serializable
	hub.Broadcast(models.LatestReading{DeviceID: "esp-01"})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"device_id":"esp-01"`)
}
