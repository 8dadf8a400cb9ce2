// internal/discovery/usb/scanner.go
package usb

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"receipt-service/internal/discovery"
)

// USBClassPrinter is the USB device class of printers
const USBClassPrinter = gousb.Class(7)

// Scanner enumerates USB printers
type Scanner struct {
	logger  *zap.Logger
	vendors *VendorDatabase
}

// NewScanner creates a new USB scanner
func NewScanner(logger *zap.Logger) *Scanner {
	return &Scanner{
		logger:  logger.With(zap.String("scanner", "usb")),
		vendors: NewVendorDatabase(),
	}
}

// GetScannerType returns scanner type identifier
func (s *Scanner) GetScannerType() string {
	return "usb"
}

// IsAvailable reports whether libusb can be initialized
func (s *Scanner) IsAvailable() bool {
	return true
}

// Scan lists printer-class devices and devices of known printer vendors
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.Printer, error) {
	usbCtx := gousb.NewContext()
	defer func() {
		if err := usbCtx.Close(); err != nil {
			s.logger.Warn("Failed to close USB context", zap.Error(err))
		}
	}()

	var descs []*gousb.DeviceDesc
	devices, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if s.Matches(desc) {
			descs = append(descs, desc)
		}
		return false // descriptors are enough, never open
	})
	for _, device := range devices {
		device.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	printers := make([]*discovery.Printer, 0, len(descs))
	for _, desc := range descs {
		if ctx.Err() != nil {
			return printers, ctx.Err()
		}
		printers = append(printers, s.describe(desc))
	}

	s.logger.Debug("USB scan completed", zap.Int("printers_found", len(printers)))
	return printers, nil
}

// Matches decides whether a device is worth reporting
func (s *Scanner) Matches(desc *gousb.DeviceDesc) bool {
	if s.vendors.IsKnownVendor(desc.Vendor) {
		return true
	}
	if desc.Class == USBClassPrinter {
		return true
	}
	// composite devices declare the class on the interface
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == USBClassPrinter {
					return true
				}
			}
		}
	}
	return false
}

func (s *Scanner) describe(desc *gousb.DeviceDesc) *discovery.Printer {
	vendorID := strings.ToUpper(fmt.Sprintf("%04x", uint16(desc.Vendor)))
	productID := strings.ToUpper(fmt.Sprintf("%04x", uint16(desc.Product)))

	printer := &discovery.Printer{
		Type:      s.GetScannerType(),
		Name:      fmt.Sprintf("USB printer %s:%s", vendorID, productID),
		Address:   fmt.Sprintf("%s:%s", vendorID, productID),
		VendorID:  "0x" + vendorID,
		ProductID: "0x" + productID,
		Details: map[string]interface{}{
			"bus":     desc.Bus,
			"address": desc.Address,
		},
	}

	if vendor := s.vendors.GetVendorInfo(desc.Vendor); vendor != nil {
		printer.Known = true
		printer.Name = vendor.Name
		if model, ok := vendor.Model(desc.Product); ok {
			printer.Name = vendor.Name + " " + model
		}
	}
	return printer
}
