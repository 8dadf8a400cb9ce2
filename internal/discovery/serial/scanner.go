// internal/discovery/serial/scanner.go
package serial

import (
	"context"
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"receipt-service/internal/discovery"
)

// PortLister enumerates serial ports
type PortLister func() ([]*enumerator.PortDetails, error)

// Scanner lists serial ports that may host a receipt printer
type Scanner struct {
	list   PortLister
	logger *zap.Logger
}

// NewScanner creates a serial scanner over the OS port enumerator
func NewScanner(logger *zap.Logger) *Scanner {
	return NewScannerWithLister(enumerator.GetDetailedPortsList, logger)
}

// NewScannerWithLister creates a serial scanner over a custom enumerator
func NewScannerWithLister(list PortLister, logger *zap.Logger) *Scanner {
	return &Scanner{
		list:   list,
		logger: logger.With(zap.String("scanner", "serial")),
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "serial"
}

// IsAvailable checks if serial scanning is available
func (s *Scanner) IsAvailable() bool {
	return true
}

// Scan lists the serial ports. Bluetooth SPP and debug ports are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.Printer, error) {
	ports, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("failed to get serial ports: %w", err)
	}

	printers := []*discovery.Printer{}
	for _, port := range ports {
		if ctx.Err() != nil {
			return printers, ctx.Err()
		}
		if skipPort(port.Name) {
			continue
		}

		printer := &discovery.Printer{
			Type:    s.GetScannerType(),
			Name:    port.Name,
			Address: port.Name,
			Details: map[string]interface{}{"usb": port.IsUSB},
		}
		if port.IsUSB {
			printer.VendorID = strings.ToUpper(port.VID)
			printer.ProductID = strings.ToUpper(port.PID)
			if port.Product != "" {
				printer.Name = port.Product
			}
			if port.SerialNumber != "" {
				printer.Details["serial_number"] = port.SerialNumber
			}
		}
		printers = append(printers, printer)
	}

	s.logger.Debug("Serial scan completed", zap.Int("ports_found", len(printers)))
	return printers, nil
}

func skipPort(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"bluetooth", "debug-console", "wlan-debug"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
