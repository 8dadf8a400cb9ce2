package relay

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"receipt-service/internal/model"
	"receipt-service/internal/transport"
)

type capturingRelay struct {
	mu      sync.Mutex
	targets []transport.NetworkTarget
	payload []byte
	err     error
}

func (r *capturingRelay) Forward(ctx context.Context, target transport.NetworkTarget, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
	r.payload = payload
	return r.err
}

func startHub(t *testing.T, key string) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(key, time.Hour, zap.NewNop())
	router := gin.New()
	router.GET("/ws/relay", hub.HandleAgent)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/relay"
}

func waitConnected(t *testing.T, hub *Hub) {
	t.Helper()
	require.Eventually(t, hub.Connected, 2*time.Second, 10*time.Millisecond)
}

func TestHubWithoutAgent(t *testing.T) {
	hub := NewHub("", 0, zap.NewNop())

	err := hub.Forward(context.Background(), transport.NetworkTarget{Host: "h", Port: 9100}, []byte("x"))
	assert.ErrorIs(t, err, ErrNoAgent)
}

func TestHubAgentRoundTrip(t *testing.T) {
	hub, url := startHub(t, "secret")
	printer := &capturingRelay{}
	agent := NewAgent(AgentConfig{ServiceURL: url, AgentKey: "secret", ReconnectDelay: 50 * time.Millisecond}, printer, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go agent.Run(ctx)
	waitConnected(t, hub)

	payload := []byte{0x1B, 0x40, 'o', 'k'}
	fwdCtx, fwdCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer fwdCancel()
	err := hub.Forward(fwdCtx, transport.NetworkTarget{Host: "192.168.1.20", Port: 9100, Timeout: 3 * time.Second}, payload)
	require.NoError(t, err)

	printer.mu.Lock()
	defer printer.mu.Unlock()
	require.Len(t, printer.targets, 1)
	assert.Equal(t, transport.NetworkTarget{Host: "192.168.1.20", Port: 9100, Timeout: 3 * time.Second}, printer.targets[0])
	assert.Equal(t, payload, printer.payload)
}

func TestHubAgentReportsFailure(t *testing.T) {
	hub, url := startHub(t, "")
	printer := &capturingRelay{err: errors.New("failed to connect to 10.0.0.9:9100: connection refused")}
	agent := NewAgent(AgentConfig{ServiceURL: url}, printer, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go agent.Run(ctx)
	waitConnected(t, hub)

	fwdCtx, fwdCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer fwdCancel()
	err := hub.Forward(fwdCtx, transport.NetworkTarget{Host: "10.0.0.9", Port: 9100}, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, "failed to connect to 10.0.0.9:9100: connection refused", err.Error())
}

func TestHubTimesOutWithoutAcknowledgement(t *testing.T) {
	hub, url := startHub(t, "")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteJSON(Message{Type: MessageTypeRegister}))

	var registered Message
	require.NoError(t, conn.ReadJSON(&registered))
	assert.Equal(t, MessageTypeRegistered, registered.Type)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = hub.Forward(ctx, transport.NetworkTarget{Host: "h", Port: 9100}, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay timeout")
}

func TestHubRejectsWrongKey(t *testing.T) {
	hub, url := startHub(t, "secret")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteJSON(Message{Type: MessageTypeRegister, AgentKey: "guess"}))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageTypeRejected, reply.Type)
	assert.False(t, hub.Connected())
}

func TestDirectForward(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	addr := ln.Addr().(*net.TCPAddr)
	direct := NewDirect(zap.NewNop())
	err = direct.Forward(context.Background(), transport.NetworkTarget{Host: "127.0.0.1", Port: addr.Port, Timeout: time.Second}, []byte("receipt"))
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, []byte("receipt"), got)
	case <-time.After(2 * time.Second):
		t.Fatal("nothing received")
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []*model.Event
}

func (l *eventLog) Publish(event *model.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) types() []model.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	types := make([]model.EventType, 0, len(l.events))
	for _, e := range l.events {
		types = append(types, e.EventType)
	}
	return types
}

func TestHubAnnouncesAgents(t *testing.T) {
	hub, url := startHub(t, "")
	log := &eventLog{}
	hub.SetPublisher(log)

	ctx, cancel := context.WithCancel(context.Background())
	agent := NewAgent(AgentConfig{ServiceURL: url, ReconnectDelay: time.Hour}, &capturingRelay{}, zap.NewNop())
	done := make(chan struct{})
	go func() {
		agent.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(log.types()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []model.EventType{model.EventRelayAgentConnected}, log.types())

	cancel()
	<-done

	require.Eventually(t, func() bool {
		return len(log.types()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, model.EventRelayAgentDisconnected, log.types()[1])
	assert.False(t, hub.Connected())
}
