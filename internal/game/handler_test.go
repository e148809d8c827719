package game

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-live/internal/auth"
	"github.com/gokatarajesh/quiz-live/internal/auth/jwt"
	"github.com/gokatarajesh/quiz-live/internal/broadcast"
	"github.com/gokatarajesh/quiz-live/internal/server"
	ws "github.com/gokatarajesh/quiz-live/pkg/http/ws"
)

type wsFixture struct {
	service *Service
	hub     *ws.Hub
	server  *httptest.Server
}

// newWSFixture serves the session socket with the caller id taken from ?uid=.
func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	hub := ws.NewHub(testLogger())
	local := broadcast.NewLocal(hub)
	registry := NewRegistry(Deps{
		Broadcaster: local,
		Scheduler:   NewManualScheduler(),
		Timings:     DefaultTimings(),
		Logger:      testLogger(),
	})
	t.Cleanup(registry.Shutdown)
	svc := NewService(registry, stubQuizzes{7: testQuiz()}, nil, ServiceOptions{}, testLogger())
	h := NewHandler(svc, hub, local, testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/sessions/{code}", func(w http.ResponseWriter, r *http.Request) {
		if uid, err := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64); err == nil {
			r = r.WithContext(auth.WithClaims(r.Context(), &jwt.Claims{UserID: uid, Username: "u" + strconv.FormatInt(uid, 10)}))
		}
		h.HandleWebSocket(w, r)
	})
	// upgrades without the session lookup, as when a session ends mid-handshake
	mux.HandleFunc("GET /ws/raw/{code}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := server.WSUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.HandleConnection(conn, r.PathValue("code"), Caller{ID: 2, Username: "u2"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &wsFixture{service: svc, hub: hub, server: srv}
}

func (f *wsFixture) dial(t *testing.T, code string, uid int64) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/sessions/" + code + "?uid=" + strconv.FormatInt(uid, 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readWS(t *testing.T, c *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}

// readUntil skips broadcast events until a reply of msgType arrives.
func readUntil(t *testing.T, c *websocket.Conn, msgType string) ws.Message {
	t.Helper()
	for i := 0; i < 10; i++ {
		msg := readWS(t, c)
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("no %s message received", msgType)
	return ws.Message{}
}

func TestHandler_SessionOverWebSocket(t *testing.T) {
	f := newWSFixture(t)
	code, err := f.service.CreateSession(t.Context(), 7, 1)
	require.NoError(t, err)

	conn := f.dial(t, code, 2)
	snap := readWS(t, conn)
	assert.Equal(t, ws.TypeSnapshot, snap.Type)
	assert.Contains(t, string(snap.Payload), `"code":"`+code+`"`)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypeJoinSession, RequestID: "r1"}))
	update := readWS(t, conn)
	assert.Equal(t, EventUpdatePlayers, update.Type)
	ack := readUntil(t, conn, ws.TypeAck)
	assert.Equal(t, "r1", ack.RequestID)

	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"2"}, f.hub.Subscribers(ChannelFor(code)))
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypeStartSession, RequestID: "r2"}))
	reply := readUntil(t, conn, ws.TypeError)
	assert.Equal(t, "r2", reply.RequestID)
	assert.Contains(t, string(reply.Payload), `"code":"forbidden"`)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypeSubmitAnswer, RequestID: "r3", Payload: []byte(`{"answer_id":100}`)}))
	reply = readUntil(t, conn, ws.TypeError)
	assert.Contains(t, string(reply.Payload), `"code":"invalid_state"`)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypePing, RequestID: "r4"}))
	pong := readUntil(t, conn, ws.TypePong)
	assert.Equal(t, "r4", pong.RequestID)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: "dance", RequestID: "r5"}))
	reply = readUntil(t, conn, ws.TypeError)
	assert.Contains(t, string(reply.Payload), `"code":"unknown_message_type"`)
}

func TestHandler_AuthorStartsGame(t *testing.T) {
	f := newWSFixture(t)
	code, err := f.service.CreateSession(t.Context(), 7, 1)
	require.NoError(t, err)
	_, err = f.service.JoinSession(t.Context(), code, Caller{ID: 2, Username: "ada"})
	require.NoError(t, err)

	author := f.dial(t, code, 1)
	readWS(t, author)
	require.NoError(t, author.WriteJSON(ws.Message{Type: ws.TypeStartSession, RequestID: "go"}))

	start := readWS(t, author)
	assert.Equal(t, EventStartGame, start.Type)
	assert.Contains(t, string(start.Payload), `"gameStartCountdown":5`)
	ack := readUntil(t, author, ws.TypeAck)
	assert.Equal(t, "go", ack.RequestID)
}

func TestHandler_UnknownSessionRejectsUpgrade(t *testing.T) {
	f := newWSFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/sessions/nope1?uid=2"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	url = "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/sessions/nope1"
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_DisconnectLeavesPresence(t *testing.T) {
	f := newWSFixture(t)
	code, err := f.service.CreateSession(t.Context(), 7, 1)
	require.NoError(t, err)

	conn := f.dial(t, code, 2)
	readWS(t, conn)
	require.Eventually(t, func() bool { return len(f.hub.Subscribers(ChannelFor(code))) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return len(f.hub.Subscribers(ChannelFor(code))) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_SnapshotFollowsSubscription(t *testing.T) {
	f := newWSFixture(t)
	code, err := f.service.CreateSession(t.Context(), 7, 1)
	require.NoError(t, err)

	conn := f.dial(t, code, 2)
	snap := readWS(t, conn)
	require.Equal(t, ws.TypeSnapshot, snap.Type)
	assert.Equal(t, []string{"2"}, f.hub.Subscribers(ChannelFor(code)))
}

func TestHandler_SessionGoneBeforeSnapshot(t *testing.T) {
	f := newWSFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/raw/NOPE1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	msg := readWS(t, conn)
	assert.Equal(t, ws.TypeError, msg.Type)
	assert.Contains(t, string(msg.Payload), `"code":"session_not_found"`)
}
