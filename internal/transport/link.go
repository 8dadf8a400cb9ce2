// internal/transport/link.go
package transport

import (
	"context"

	"go.uber.org/zap"

	"receipt-service/internal/protocol"
)

// LinkFactory opens links to locally attached printers
type LinkFactory func(kind protocol.Kind, settings protocol.Settings, logger *zap.Logger) (protocol.Link, error)

// Wired sends ESC/POS bytes over a serial port or a USB printer-class device.
// Each job opens and closes its own link.
type Wired struct {
	kind    protocol.Kind
	factory LinkFactory
	logger  *zap.Logger
}

// NewSerial creates the serial transport
func NewSerial(factory LinkFactory, logger *zap.Logger) *Wired {
	return newWired(protocol.KindSerial, factory, logger)
}

// NewUSB creates the USB transport
func NewUSB(factory LinkFactory, logger *zap.Logger) *Wired {
	return newWired(protocol.KindUSB, factory, logger)
}

func newWired(kind protocol.Kind, factory LinkFactory, logger *zap.Logger) *Wired {
	if factory == nil {
		factory = protocol.CreateLink
	}
	return &Wired{
		kind:    kind,
		factory: factory,
		logger:  logger.With(zap.String("transport", string(kind))),
	}
}

func (w *Wired) Name() string { return string(w.kind) }

// Send delivers the payload in one write
func (w *Wired) Send(ctx context.Context, payload []byte, dest Destination) Result {
	link, err := w.factory(w.kind, protocol.Settings{Serial: dest.Serial, USB: dest.USB}, w.logger)
	if err != nil {
		return Fail(err)
	}

	if err := protocol.Deliver(ctx, link, payload); err != nil {
		return Fail(err)
	}

	w.logger.Info("Payload sent",
		zap.String("job_id", dest.JobID),
		zap.Int("bytes", len(payload)),
	)
	return OK()
}
