// internal/service/printer_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"receipt-service/internal/discovery"
	"receipt-service/internal/events"
	"receipt-service/internal/model"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

// WirelessPrinter is the connection surface of the bluetooth transport
type WirelessPrinter interface {
	Connect(ctx context.Context, address string) (transport.PrinterConnection, error)
	Disconnect() error
	Status() transport.PrinterConnection
	OnStateChange(listener transport.StateListener)
}

// PrinterService manages the wireless printer session and printer discovery
type PrinterService struct {
	wireless  WirelessPrinter
	scanners  *discovery.ScannerManager
	publisher events.Publisher
	logger    *utils.ServiceLogger
}

// NewPrinterService creates a new printer service. wireless may be nil when
// bluetooth is disabled.
func NewPrinterService(
	wireless WirelessPrinter,
	scanners *discovery.ScannerManager,
	publisher events.Publisher,
	logger *zap.Logger,
) *PrinterService {
	s := &PrinterService{
		wireless:  wireless,
		scanners:  scanners,
		publisher: publisher,
		logger:    utils.NewServiceLogger(logger, "printer-service"),
	}
	if wireless != nil {
		wireless.OnStateChange(s.onStateChange)
	}
	return s
}

// ConnectBluetooth opens (or reuses) the wireless printer session
func (s *PrinterService) ConnectBluetooth(ctx context.Context, address string) (transport.PrinterConnection, error) {
	if s.wireless == nil {
		return transport.PrinterConnection{}, transport.ErrRadioUnavailable
	}
	return s.wireless.Connect(ctx, address)
}

// DisconnectBluetooth closes the wireless printer session
func (s *PrinterService) DisconnectBluetooth() error {
	if s.wireless == nil {
		return nil
	}
	return s.wireless.Disconnect()
}

// BluetoothStatus reports the wireless printer session
func (s *PrinterService) BluetoothStatus() transport.PrinterConnection {
	if s.wireless == nil {
		return transport.PrinterConnection{}
	}
	return s.wireless.Status()
}

// Discover scans one link type, or every available one when scannerType is empty
func (s *PrinterService) Discover(ctx context.Context, scannerType string) (*discovery.Report, error) {
	if scannerType == "" {
		return s.scanners.ScanAll(ctx), nil
	}

	printers, err := s.scanners.ScanByType(ctx, scannerType)
	if err != nil {
		return nil, err
	}
	return &discovery.Report{Printers: printers}, nil
}

// ScannerTypes lists the available discovery scanners
func (s *PrinterService) ScannerTypes() []string {
	return s.scanners.GetAvailableScanners()
}

func (s *PrinterService) onStateChange(conn transport.PrinterConnection, unsolicited bool) {
	eventType, severity := model.EventPrinterConnected, "INFO"
	if !conn.Connected {
		eventType = model.EventPrinterDisconnected
		if unsolicited {
			severity = "WARNING"
		}
	}

	s.logger.Info("Printer state changed",
		zap.String("event", string(eventType)),
		zap.String("printer_id", conn.ID),
		zap.Bool("unsolicited", unsolicited),
	)

	if s.publisher == nil {
		return
	}
	s.publisher.Publish(model.NewEvent(eventType, "bluetooth", severity, model.JSONObject{
		"printer_id":   conn.ID,
		"printer_name": conn.Name,
		"unsolicited":  unsolicited,
	}))
}
