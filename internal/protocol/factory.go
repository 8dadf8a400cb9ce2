// internal/protocol/factory.go
package protocol

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

var validBaudRates = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}

// CreateLink creates a link of the given kind. Defaults are applied to a copy of the settings.
func CreateLink(kind Kind, settings Settings, logger *zap.Logger) (Link, error) {
	if err := ValidateSettings(kind, settings); err != nil {
		return nil, err
	}

	switch kind {
	case KindTCP:
		cfg := withTCPDefaults(*settings.TCP)
		logger.Debug("Creating TCP link",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
		)
		return NewTCPConnection(&cfg, logger), nil
	case KindSerial:
		cfg := withSerialDefaults(*settings.Serial)
		logger.Debug("Creating serial link",
			zap.String("port", cfg.Port),
			zap.Int("baud_rate", cfg.BaudRate),
		)
		return NewSerialConnection(&cfg, logger), nil
	case KindUSB:
		cfg := withUSBDefaults(*settings.USB)
		logger.Debug("Creating USB link",
			zap.String("vendor_id", cfg.VendorID),
			zap.String("product_id", cfg.ProductID),
		)
		return NewUSBConnection(&cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported link type: %s", kind)
	}
}

// ValidateSettings checks that the settings for kind are present and sane
func ValidateSettings(kind Kind, settings Settings) error {
	switch kind {
	case KindTCP:
		return validateTCPConfig(settings.TCP)
	case KindSerial:
		return validateSerialConfig(settings.Serial)
	case KindUSB:
		return validateUSBConfig(settings.USB)
	default:
		return fmt.Errorf("unsupported link type: %s", kind)
	}
}

// Deliver opens a link, writes the whole payload and closes it again
func Deliver(ctx context.Context, link Link, payload []byte) error {
	if err := link.Open(ctx); err != nil {
		return err
	}
	defer link.Close()

	return link.Write(ctx, payload)
}

func validateTCPConfig(cfg *TCPConfig) error {
	if cfg == nil || cfg.Host == "" {
		return fmt.Errorf("TCP host is required")
	}
	if cfg.Port != 0 && (cfg.Port < 1 || cfg.Port > 65535) {
		return fmt.Errorf("invalid port number: %d", cfg.Port)
	}
	return nil
}

func validateSerialConfig(cfg *SerialConfig) error {
	if cfg == nil || cfg.Port == "" {
		return fmt.Errorf("serial port is required")
	}
	if cfg.BaudRate == 0 {
		return nil
	}
	for _, rate := range validBaudRates {
		if cfg.BaudRate == rate {
			return nil
		}
	}
	return fmt.Errorf("invalid baud rate: %d", cfg.BaudRate)
}

func validateUSBConfig(cfg *USBConfig) error {
	if cfg == nil || cfg.VendorID == "" {
		return fmt.Errorf("USB vendor_id is required")
	}
	if cfg.ProductID == "" {
		return fmt.Errorf("USB product_id is required")
	}
	if _, err := parseHexID(cfg.VendorID); err != nil {
		return fmt.Errorf("invalid vendor ID: %w", err)
	}
	if _, err := parseHexID(cfg.ProductID); err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}
	return nil
}

func withTCPDefaults(cfg TCPConfig) TCPConfig {
	if cfg.Port == 0 {
		cfg.Port = DefaultTCPPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLinkTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return cfg
}

func withSerialDefaults(cfg SerialConfig) SerialConfig {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = 1
	}
	if cfg.Parity == "" {
		cfg.Parity = "none"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLinkTimeout
	}
	return cfg
}

func withUSBDefaults(cfg USBConfig) USBConfig {
	if cfg.Endpoint == 0 {
		cfg.Endpoint = DefaultUSBEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLinkTimeout
	}
	return cfg
}
