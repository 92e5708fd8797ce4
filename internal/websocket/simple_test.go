package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/jrichmond93/ChatbotPOC/internal/assistant"
	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := NewServer(assistant.NewEngine(session.NewStore()))
	router := gin.New()
	router.GET("/ws", srv.HandleWebSocket)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func readChat(t *testing.T, conn *websocket.Conn) types.ChatResponse {
	t.Helper()
	f := readFrame(t, conn)
	require.Equal(t, FrameResponse, f.Type)
	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(f.Data, &resp))
	return resp
}

func TestServer_ConversationKeepsSession(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(map[string]any{"message": "Hi, I'm Bob"}))
	first := readChat(t, conn)
	require.NotEmpty(t, first.SessionID)

	// No sessionId: the socket continues its session.
	require.NoError(t, conn.WriteJSON(Frame{Type: FrameMessage, Data: json.RawMessage(`{"message":"What's my name?"}`)}))
	second := readChat(t, conn)
	require.Equal(t, first.SessionID, second.SessionID)
	require.Contains(t, second.Response, "Bob")
	require.Equal(t, 4, second.MessageCount)
}

func TestServer_Suggestions(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(Frame{Type: FrameSuggestions, Data: json.RawMessage(`{"stock":"ACME"}`)}))
	f := readFrame(t, conn)
	require.Equal(t, FrameSuggestions, f.Type)

	var resp types.SuggestionsResponse
	require.NoError(t, json.Unmarshal(f.Data, &resp))
	require.Len(t, resp.Suggestions, 3)
	require.Equal(t, "stock", resp.Context)
}

func TestServer_ErrorFrames(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	f := readFrame(t, conn)
	require.Equal(t, FrameError, f.Type)

	require.NoError(t, conn.WriteJSON(Frame{Type: "launch"}))
	f = readFrame(t, conn)
	require.Equal(t, FrameError, f.Type)
	require.Contains(t, string(f.Data), "launch")

	// The socket stays usable after errors.
	require.NoError(t, conn.WriteJSON(map[string]any{"message": "hello"}))
	readChat(t, conn)
}

func TestServer_FansOutToSessionPeers(t *testing.T) {
	srv, url := newTestServer(t)
	a := dial(t, url+"?sessionId=shared")
	b := dial(t, url+"?sessionId=shared")

	require.Eventually(t, func() bool {
		return srv.Manager().GetConnectionCount() == 2
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteJSON(map[string]any{"message": "my name is Alice"}))
	require.Equal(t, "shared", readChat(t, a).SessionID)
	require.Equal(t, "shared", readChat(t, b).SessionID)
}

func TestServer_CloseDisconnectsClients(t *testing.T) {
	srv, url := newTestServer(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool {
		return srv.Manager().GetConnectionCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	srv.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
