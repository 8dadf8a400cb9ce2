// internal/relay/agent.go
package relay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"receipt-service/internal/transport"
)

// AgentConfig configures a relay agent
type AgentConfig struct {
	ServiceURL     string
	AgentKey       string
	ReconnectDelay time.Duration
	DefaultTimeout time.Duration
}

// Agent runs on the printer LAN. It keeps a websocket to the service hub
// open and performs the TCP hop for each print job.
type Agent struct {
	config AgentConfig
	relay  transport.Relay
	logger *zap.Logger
}

// NewAgent creates an agent that prints through relay
func NewAgent(config AgentConfig, relay transport.Relay, logger *zap.Logger) *Agent {
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = 5 * time.Second
	}
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 10 * time.Second
	}
	return &Agent{
		config: config,
		relay:  relay,
		logger: logger.With(zap.String("component", "relay-agent")),
	}
}

// Run connects and reconnects until ctx ends
func (a *Agent) Run(ctx context.Context) error {
	for {
		err := a.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Warn("Relay session ended, reconnecting",
			zap.Error(err),
			zap.Duration("delay", a.config.ReconnectDelay),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.config.ReconnectDelay):
		}
	}
}

// session serves one websocket connection
func (a *Agent) session(ctx context.Context) error {
	header := http.Header{}
	header.Add("X-Agent-Key", a.config.AgentKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.config.ServiceURL, header)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	if err := conn.WriteJSON(Message{Type: MessageTypeRegister, AgentKey: a.config.AgentKey}); err != nil {
		return fmt.Errorf("failed to send register: %w", err)
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		switch msg.Type {
		case MessageTypeRegistered:
			a.logger.Info("Registered with service", zap.String("url", a.config.ServiceURL))
		case MessageTypeRejected:
			return fmt.Errorf("registration rejected: %s", msg.Error)
		case MessageTypePing:
			if err := conn.WriteJSON(Message{Type: MessageTypePong}); err != nil {
				return fmt.Errorf("failed to send pong: %w", err)
			}
		case MessageTypePrint:
			if err := conn.WriteJSON(a.print(ctx, msg)); err != nil {
				return fmt.Errorf("failed to send acknowledgement: %w", err)
			}
		default:
			a.logger.Debug("Unknown message type", zap.String("type", string(msg.Type)))
		}
	}
}

func (a *Agent) print(ctx context.Context, msg Message) Message {
	timeout := time.Duration(msg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = a.config.DefaultTimeout
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := transport.NetworkTarget{Host: msg.Host, Port: msg.Port, Timeout: timeout}
	if err := a.relay.Forward(jobCtx, target, msg.Payload); err != nil {
		a.logger.Warn("Print failed",
			zap.String("id", msg.ID),
			zap.String("host", msg.Host),
			zap.Int("port", msg.Port),
			zap.Error(err),
		)
		return Message{Type: MessageTypePrintFailed, ID: msg.ID, Error: err.Error()}
	}

	a.logger.Info("Printed",
		zap.String("id", msg.ID),
		zap.String("host", msg.Host),
		zap.Int("bytes", len(msg.Payload)),
	)
	return Message{Type: MessageTypePrinted, ID: msg.ID}
}
