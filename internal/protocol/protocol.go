// internal/protocol/protocol.go
package protocol

import (
	"context"
	"time"
)

// Kind identifies the physical link to a printer
type Kind string

const (
	KindTCP    Kind = "tcp"
	KindSerial Kind = "serial"
	KindUSB    Kind = "usb"
)

// Link is a byte pipe to a printer. Printers answer nothing useful for a
// receipt job, so the contract is write-only.
type Link interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Data communication
	Write(ctx context.Context, data []byte) error

	// Link information
	Kind() Kind
	Stats() Stats

	// Ping sends a real-time status request
	Ping(ctx context.Context) error
}

// Stats provides link-level statistics
type Stats struct {
	BytesWritten   int64         `json:"bytes_written"`
	WriteCount     int64         `json:"write_count"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
	IsConnected    bool          `json:"is_connected"`
}

// statusRequest is DLE EOT 1
var statusRequest = []byte{0x10, 0x04, 0x01}

func (s *Stats) recordWrite(n int, latency time.Duration) {
	s.BytesWritten += int64(n)
	s.WriteCount++
	s.LastActivity = time.Now()
	if s.AverageLatency == 0 {
		s.AverageLatency = latency
	} else {
		s.AverageLatency = (s.AverageLatency + latency) / 2
	}
}
