package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voisinage/voisin_go_server/internal/pkg/jwt"
	"github.com/voisinage/voisin_go_server/internal/pkg/ws"
)

const wsTestSecret = "ws-test-secret"

func TestWebSocketHandler_MissingToken(t *testing.T) {
	handler := NewWebSocketHandler(ws.NewHub(), wsTestSecret)

	router := gin.New()
	router.GET("/ws", handler.Handle)

	w := performRequest(router, "GET", "/ws", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebSocketHandler_InvalidToken(t *testing.T) {
	handler := NewWebSocketHandler(ws.NewHub(), wsTestSecret)

	router := gin.New()
	router.GET("/ws", handler.Handle)

	w := performRequest(router, "GET", "/ws?token=not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebSocketHandler_ConnectAndPush(t *testing.T) {
	hub := ws.NewHub()
	handler := NewWebSocketHandler(hub, wsTestSecret)

	router := gin.New()
	router.GET("/ws", handler.Handle)

	server := httptest.NewServer(router)
	defer server.Close()

	token, err := jwt.GenerateToken(42, wsTestSecret, 1)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens in the upgrade handler; poll briefly
	require.Eventually(t, func() bool {
		return hub.IsOnline(42)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.SendToUser(42, &ws.Message{Type: "ping"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"ping"`)
}
