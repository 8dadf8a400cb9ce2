// internal/protocol/connection.go
package protocol

import "time"

// SerialConfig represents serial connection configuration
type SerialConfig struct {
	Port     string        `json:"port" mapstructure:"port"`
	BaudRate int           `json:"baud_rate" mapstructure:"baud_rate"`
	DataBits int           `json:"data_bits,omitempty" mapstructure:"data_bits"`
	StopBits int           `json:"stop_bits,omitempty" mapstructure:"stop_bits"`
	Parity   string        `json:"parity,omitempty" mapstructure:"parity"`
	Timeout  time.Duration `json:"timeout,omitempty" mapstructure:"timeout"`
}

// USBConfig represents USB connection configuration. IDs are hex strings, "0x04b8" or "04b8".
type USBConfig struct {
	VendorID  string        `json:"vendor_id" mapstructure:"vendor_id"`
	ProductID string        `json:"product_id" mapstructure:"product_id"`
	Endpoint  int           `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Timeout   time.Duration `json:"timeout,omitempty" mapstructure:"timeout"`
}

// TCPConfig represents a raw socket printer, usually on port 9100
type TCPConfig struct {
	Host         string        `json:"host" mapstructure:"host"`
	Port         int           `json:"port" mapstructure:"port"`
	Timeout      time.Duration `json:"timeout,omitempty" mapstructure:"timeout"`
	WriteTimeout time.Duration `json:"write_timeout,omitempty" mapstructure:"write_timeout"`
}

// Settings carries the configuration of whichever link kind is requested
type Settings struct {
	TCP    *TCPConfig
	Serial *SerialConfig
	USB    *USBConfig
}

const (
	DefaultTCPPort      = 9100
	DefaultBaudRate     = 9600
	DefaultLinkTimeout  = 10 * time.Second
	DefaultUSBEndpoint  = 1
	defaultWriteTimeout = 30 * time.Second
)
