package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	ws "github.com/gokatarajesh/quiz-live/pkg/http/ws"
)

// subscribe opens a real socket for userID and attaches it to channel.
func subscribe(t *testing.T, hub *ws.Hub, channel string, userID int64) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ready := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conn := ws.NewConnection(c, userID, zerolog.Nop())
		hub.Register(conn)
		hub.Subscribe(channel, conn.ID)
		go conn.WritePump()
		close(ready)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered")
	}
	return client
}

func readMessage(t *testing.T, c *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}
