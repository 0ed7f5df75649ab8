package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/math-battle/internal/config"
	"github.com/palemoky/math-battle/internal/game/card"
	"github.com/palemoky/math-battle/internal/protocol"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	s.accessLog = io.Discard

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Shutdown()
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ protocol.MessageType, payload any) {
	t.Helper()
	msg := codec.MustNewMessage(typ, payload)
	data, err := codec.Encode(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func receive(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := codec.Decode(data)
	require.NoError(t, err)
	return msg
}

// receiveType skips messages until one of type typ arrives.
func receiveType(t *testing.T, conn *websocket.Conn, typ protocol.MessageType) *protocol.Message {
	t.Helper()
	for range 50 {
		if msg := receive(t, conn); msg.Type == typ {
			return msg
		}
	}
	t.Fatalf("no %s message received", typ)
	return nil
}

func TestWebSocket_GameFlow(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, nil)
	conn := dial(t, ts, nil)

	connected := receive(t, conn)
	require.Equal(t, protocol.MsgConnected, connected.Type)
	hello, err := codec.ParsePayload[protocol.ConnectedPayload](connected)
	require.NoError(t, err)
	assert.NotEmpty(t, hello.ClientID)

	send(t, conn, protocol.MsgCreateRoom, nil)
	created, err := codec.ParsePayload[protocol.RoomCreatedPayload](receiveType(t, conn, protocol.MsgRoomCreated))
	require.NoError(t, err)
	assert.Len(t, created.RoomCode, 6)

	send(t, conn, protocol.MsgStartGame, protocol.StartGamePayload{Names: []string{"Alice", "Bob"}})
	started, err := codec.ParsePayload[protocol.EventPayload](receiveType(t, conn, protocol.MsgEvent))
	require.NoError(t, err)
	assert.Equal(t, "game_started", started.Kind)

	state, err := codec.ParsePayload[protocol.GameStateDTO](receiveType(t, conn, protocol.MsgGameState))
	require.NoError(t, err)
	require.Len(t, state.Players, 2)
	assert.Equal(t, "Alice", state.Players[0].Name)
	assert.Len(t, state.Cards, card.DeckSize)

	send(t, conn, protocol.MsgFlipCard, protocol.FlipCardPayload{Index: 99})
	errMsg, err := codec.ParsePayload[protocol.ErrorPayload](receiveType(t, conn, protocol.MsgError))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidCard, errMsg.Code)

	assert.Equal(t, 1, s.GetOnlineCount())
	assert.Equal(t, 1, s.roomManager.ActiveGamesCount())
}

func TestWebSocket_InvalidMessage(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, nil)
	conn := dial(t, ts, nil)
	receiveType(t, conn, protocol.MsgConnected)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	errMsg, err := codec.ParsePayload[protocol.ErrorPayload](receiveType(t, conn, protocol.MsgError))
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errMsg.Code)
}

func TestWebSocket_DisconnectKeepsRoom(t *testing.T) {
	t.Parallel()

	s, ts := newTestServer(t, nil)
	conn := dial(t, ts, nil)
	receiveType(t, conn, protocol.MsgConnected)

	send(t, conn, protocol.MsgCreateRoom, nil)
	created, err := codec.ParsePayload[protocol.RoomCreatedPayload](receiveType(t, conn, protocol.MsgRoomCreated))
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return s.GetOnlineCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	room := s.roomManager.GetRoom(created.RoomCode)
	require.NotNil(t, room)
	assert.Nil(t, room.Client())

	// 新连接用房间号接管
	again := dial(t, ts, nil)
	receiveType(t, again, protocol.MsgConnected)
	send(t, again, protocol.MsgResumeRoom, protocol.ResumeRoomPayload{RoomCode: created.RoomCode})
	resumed, err := codec.ParsePayload[protocol.RoomResumedPayload](receiveType(t, again, protocol.MsgRoomResumed))
	require.NoError(t, err)
	assert.Equal(t, created.RoomCode, resumed.RoomCode)
	assert.Equal(t, "setup", resumed.State.Phase)
}

func TestWebSocket_OriginRejected(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Security.AllowedOrigins = []string{"https://example.com"}
	_, ts := newTestServer(t, cfg)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := dial(t, ts, http.Header{"Origin": {"https://example.com"}})
	assert.Equal(t, protocol.MsgConnected, receive(t, conn).Type)
}

func TestWebSocket_ServerFull(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Server.MaxConnections = 1
	_, ts := newTestServer(t, cfg)

	conn := dial(t, ts, nil)
	receiveType(t, conn, protocol.MsgConnected)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth_WithoutRedis(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, nil)

	var health healthResponse
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "disabled", health.Redis)
	assert.Zero(t, health.Rooms)
}

func TestHealth_WithRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()
	_, ts := newTestServer(t, cfg)

	var health healthResponse
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &health))
	assert.Equal(t, "ok", health.Redis)

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, ts.URL+"/healthz", &health))
	assert.Equal(t, "degraded", health.Status)
}

func TestNewServer_RedisUnavailable(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := NewServer(cfg)
	assert.ErrorContains(t, err, "redis")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, nil)

	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/version", &body))
	assert.Equal(t, Version, body["version"])
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/healthz", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
