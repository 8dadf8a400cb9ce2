// internal/relay/hub.go
package relay

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"receipt-service/internal/events"
	"receipt-service/internal/model"
	"receipt-service/internal/transport"
)

var (
	ErrNoAgent           = errors.New("no relay agent connected")
	ErrAgentDisconnected = errors.New("relay agent disconnected")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 1 << 20
)

// Hub accepts one relay agent over websocket and forwards print jobs to it.
// A newly registered agent replaces the previous one.
type Hub struct {
	agentKey     string
	pingInterval time.Duration
	upgrader     websocket.Upgrader
	logger       *zap.Logger
	publisher    events.Publisher

	mu      sync.Mutex
	agent   *agentConn
	pending map[string]chan Message
}

type agentConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  chan struct{}
	once    sync.Once
}

func (a *agentConn) send(msg Message) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return a.conn.WriteJSON(msg)
}

func (a *agentConn) close() {
	a.once.Do(func() {
		close(a.closed)
		a.conn.Close()
	})
}

// NewHub creates the relay hub. An empty agent key accepts any agent.
func NewHub(agentKey string, pingInterval time.Duration, logger *zap.Logger) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Hub{
		agentKey:     agentKey,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:  logger.With(zap.String("component", "relay-hub")),
		pending: make(map[string]chan Message),
	}
}

// SetPublisher announces agent arrivals and departures on the event bus
func (h *Hub) SetPublisher(publisher events.Publisher) {
	h.publisher = publisher
}

// HandleAgent upgrades the request and serves the agent until it leaves
func (h *Hub) HandleAgent(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade relay connection", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageSize)

	agent := &agentConn{conn: conn, closed: make(chan struct{})}
	defer agent.close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	var hello Message
	if err := conn.ReadJSON(&hello); err != nil {
		h.logger.Warn("Relay agent sent no registration", zap.Error(err))
		return
	}
	if hello.Type != MessageTypeRegister || (h.agentKey != "" && hello.AgentKey != h.agentKey) {
		h.logger.Warn("Relay agent rejected", zap.String("remote_addr", c.Request.RemoteAddr))
		agent.send(Message{Type: MessageTypeRejected, Error: "invalid agent key"})
		return
	}

	remoteAddr := c.Request.RemoteAddr
	h.attach(agent)
	defer func() {
		h.detach(agent)
		h.announce(model.EventRelayAgentDisconnected, "WARNING", remoteAddr)
	}()

	if err := agent.send(Message{Type: MessageTypeRegistered}); err != nil {
		return
	}
	h.logger.Info("Relay agent registered", zap.String("remote_addr", remoteAddr))
	h.announce(model.EventRelayAgentConnected, "INFO", remoteAddr)

	go h.pingLoop(agent)
	h.readLoop(agent)
}

// Connected reports whether an agent is registered
func (h *Hub) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.agent != nil
}

// Forward sends the job to the agent and waits for its acknowledgement
func (h *Hub) Forward(ctx context.Context, target transport.NetworkTarget, payload []byte) error {
	h.mu.Lock()
	agent := h.agent
	if agent == nil {
		h.mu.Unlock()
		return ErrNoAgent
	}
	id := uuid.NewString()
	reply := make(chan Message, 1)
	h.pending[id] = reply
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
	}()

	msg := Message{
		Type:      MessageTypePrint,
		ID:        id,
		Host:      target.Host,
		Port:      target.Port,
		TimeoutMS: target.Timeout.Milliseconds(),
		Payload:   payload,
	}
	if err := agent.send(msg); err != nil {
		return fmt.Errorf("failed to send job to relay agent: %w", err)
	}

	select {
	case ack := <-reply:
		if ack.Type == MessageTypePrintFailed {
			if ack.Error == "" {
				return errors.New("relay agent reported a failure")
			}
			return errors.New(ack.Error)
		}
		return nil
	case <-agent.closed:
		return ErrAgentDisconnected
	case <-ctx.Done():
		return fmt.Errorf("relay timeout: %w", ctx.Err())
	}
}

func (h *Hub) announce(eventType model.EventType, severity, remoteAddr string) {
	if h.publisher == nil {
		return
	}
	h.publisher.Publish(model.NewEvent(eventType, "relay-hub", severity, model.JSONObject{
		"remote_addr": remoteAddr,
	}))
}

func (h *Hub) attach(agent *agentConn) {
	h.mu.Lock()
	previous := h.agent
	h.agent = agent
	h.mu.Unlock()

	if previous != nil {
		h.logger.Info("Replacing relay agent")
		previous.close()
	}
}

func (h *Hub) detach(agent *agentConn) {
	h.mu.Lock()
	if h.agent == agent {
		h.agent = nil
	}
	h.mu.Unlock()
	h.logger.Info("Relay agent disconnected")
}

func (h *Hub) readLoop(agent *agentConn) {
	agent.conn.SetReadDeadline(time.Now().Add(pongWait))
	for {
		var msg Message
		if err := agent.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Relay read error", zap.Error(err))
			}
			return
		}
		agent.conn.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Type {
		case MessageTypePong:
		case MessageTypePrinted, MessageTypePrintFailed:
			h.mu.Lock()
			reply, ok := h.pending[msg.ID]
			h.mu.Unlock()
			if !ok {
				h.logger.Debug("Late relay acknowledgement", zap.String("id", msg.ID))
				continue
			}
			select {
			case reply <- msg:
			default:
			}
		default:
			h.logger.Debug("Unknown relay message", zap.String("type", string(msg.Type)))
		}
	}
}

func (h *Hub) pingLoop(agent *agentConn) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-agent.closed:
			return
		case <-ticker.C:
			if err := agent.send(Message{Type: MessageTypePing}); err != nil {
				agent.close()
				return
			}
		}
	}
}
