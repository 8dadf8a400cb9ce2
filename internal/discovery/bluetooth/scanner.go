// internal/discovery/bluetooth/scanner.go
package bluetooth

import (
	"context"

	"go.uber.org/zap"

	"receipt-service/internal/discovery"
	"receipt-service/internal/transport"
)

// Discoverer runs a BLE scan
type Discoverer interface {
	Discover(ctx context.Context) ([]transport.DiscoveredPrinter, error)
}

// Scanner reports nearby BLE printers through the wireless transport
type Scanner struct {
	radio  Discoverer
	logger *zap.Logger
}

// NewScanner creates a bluetooth scanner
func NewScanner(radio Discoverer, logger *zap.Logger) *Scanner {
	return &Scanner{radio: radio, logger: logger.With(zap.String("scanner", "bluetooth"))}
}

func (s *Scanner) GetScannerType() string { return "bluetooth" }

func (s *Scanner) IsAvailable() bool { return s.radio != nil }

// Scan lists advertisements; allowlisted printers are marked known
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.Printer, error) {
	found, err := s.radio.Discover(ctx)
	if err != nil {
		return nil, err
	}

	printers := make([]*discovery.Printer, 0, len(found))
	for _, p := range found {
		name := p.Name
		if name == "" {
			name = p.Address
		}
		printers = append(printers, &discovery.Printer{
			Type:    s.GetScannerType(),
			Name:    name,
			Address: p.Address,
			Known:   p.Known,
		})
	}
	return printers, nil
}
