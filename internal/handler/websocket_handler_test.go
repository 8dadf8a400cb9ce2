package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"receipt-service/internal/model"
)

func TestEventStreamHonorsSubscriptions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	feed := make(chan *model.Event, 4)
	h := NewWebSocketHandler(feed, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	router := gin.New()
	h.RegisterRoutes(router.Group("/ws"))
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(WebSocketMessage{
		Type: "subscribe",
		Data: map[string]interface{}{"topic": string(model.EventJobFailed)},
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var confirm WebSocketMessage
	require.NoError(t, conn.ReadJSON(&confirm))
	assert.Equal(t, "subscribed", confirm.Type)

	assert.Eventually(t, func() bool {
		return h.GetConnectionStats().TotalConnections == 1
	}, time.Second, 10*time.Millisecond)

	feed <- model.NewEvent(model.EventJobCompleted, "print-service", "INFO", model.JSONObject{"sale_id": "A-1"})
	feed <- model.NewEvent(model.EventJobFailed, "print-service", "ERROR", model.JSONObject{"sale_id": "A-2"})

	var msg struct {
		Type string      `json:"type"`
		Data model.Event `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "event", msg.Type)
	assert.Equal(t, model.EventJobFailed, msg.Data.EventType)
	assert.Equal(t, "A-2", msg.Data.Data["sale_id"])
}

func TestEventStreamRejectsUnknownMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewWebSocketHandler(make(chan *model.Event), zap.NewNop())
	router := gin.New()
	h.RegisterRoutes(router.Group("/ws"))
	server := httptest.NewServer(router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws/events", nil)
	require.NoError(t, err)
	defer conn.Close()

	tests := []struct {
		name    string
		message WebSocketMessage
		reply   string
	}{
		{name: "ping", message: WebSocketMessage{Type: "ping"}, reply: "pong"},
		{name: "subscribe without topic", message: WebSocketMessage{Type: "subscribe"}, reply: "error"},
		{name: "unknown", message: WebSocketMessage{Type: "print"}, reply: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteJSON(tt.message))
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			var reply WebSocketMessage
			require.NoError(t, conn.ReadJSON(&reply))
			assert.Equal(t, tt.reply, reply.Type)
		})
	}
}
