// internal/transport/network.go
package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"receipt-service/internal/protocol"
)

// Relay performs the TCP connection to a network printer on behalf of the service
type Relay interface {
	Forward(ctx context.Context, target NetworkTarget, payload []byte) error
}

// Network sends ESC/POS bytes to an ip:port printer through a relay
type Network struct {
	relay          Relay
	defaultPort    int
	defaultTimeout time.Duration
	logger         *zap.Logger
}

// NewNetwork creates the network transport
func NewNetwork(relay Relay, defaultPort int, defaultTimeout time.Duration, logger *zap.Logger) *Network {
	if defaultPort <= 0 {
		defaultPort = protocol.DefaultTCPPort
	}
	if defaultTimeout <= 0 {
		defaultTimeout = protocol.DefaultLinkTimeout
	}
	return &Network{
		relay:          relay,
		defaultPort:    defaultPort,
		defaultTimeout: defaultTimeout,
		logger:         logger.With(zap.String("transport", "network")),
	}
}

func (n *Network) Name() string { return "network" }

// Send forwards the payload within the target timeout. A missing address is a caller error.
func (n *Network) Send(ctx context.Context, payload []byte, dest Destination) Result {
	if err := RequireNetwork(dest); err != nil {
		return Fail(err)
	}

	target := *dest.Network
	if target.Port == 0 {
		target.Port = n.defaultPort
	}
	if target.Timeout <= 0 {
		target.Timeout = n.defaultTimeout
	}

	sendCtx, cancel := context.WithTimeout(ctx, target.Timeout)
	defer cancel()

	start := time.Now()
	if err := n.relay.Forward(sendCtx, target, payload); err != nil {
		n.logger.Warn("Relay forward failed",
			zap.String("job_id", dest.JobID),
			zap.String("host", target.Host),
			zap.Int("port", target.Port),
			zap.Error(err),
		)
		return Fail(err)
	}

	n.logger.Info("Payload relayed",
		zap.String("job_id", dest.JobID),
		zap.String("host", target.Host),
		zap.Int("port", target.Port),
		zap.Int("bytes", len(payload)),
		zap.Duration("duration", time.Since(start)),
	)
	return OK()
}
