// internal/relay/direct.go
package relay

import (
	"context"

	"go.uber.org/zap"

	"receipt-service/internal/protocol"
	"receipt-service/internal/transport"
)

// Direct opens the printer socket from this process. Used when the service
// runs on the printer LAN, and by the agent for the last hop.
type Direct struct {
	logger *zap.Logger
}

// NewDirect creates a direct relay
func NewDirect(logger *zap.Logger) *Direct {
	return &Direct{logger: logger.With(zap.String("relay", "direct"))}
}

// Forward writes the payload to host:port and closes the socket
func (d *Direct) Forward(ctx context.Context, target transport.NetworkTarget, payload []byte) error {
	link, err := protocol.CreateLink(protocol.KindTCP, protocol.Settings{
		TCP: &protocol.TCPConfig{
			Host:    target.Host,
			Port:    target.Port,
			Timeout: target.Timeout,
		},
	}, d.logger)
	if err != nil {
		return err
	}
	return protocol.Deliver(ctx, link, payload)
}
