// internal/transport/transport.go
package transport

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"receipt-service/internal/protocol"
)

// Transport failure vocabulary. Messages are shown to the operator as is.
var (
	ErrNotConnected       = errors.New("not connected")
	ErrNoWritableChannel  = errors.New("no writable characteristic found on printer")
	ErrNoPeripheral       = errors.New("no bluetooth printer found")
	ErrRadioUnavailable   = errors.New("bluetooth adapter unavailable")
	ErrSurfaceUnavailable = errors.New("print window could not be opened")
	ErrMissingTarget      = errors.New("network printer address is required")
	ErrUnknownMethod      = errors.New("unsupported print method")
)

const unknownError = "unknown error"

// Result is the only outcome that crosses a transport boundary.
// Success from the dialog and document transports means the print flow was
// invoked, not that paper came out.
type Result struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Location string `json:"location,omitempty"` // where a materialized document can be fetched

	// Cause is the error a failed result was built from, when there was one
	Cause error `json:"-"`
}

// OK is a successful result
func OK() Result {
	return Result{Success: true}
}

// OKAt is a successful result pointing at a retrievable resource
func OKAt(location string) Result {
	return Result{Success: true, Location: location}
}

// Fail normalizes an error into a failed result
func Fail(err error) Result {
	if err == nil {
		return Result{Error: unknownError}
	}
	result := FailMessage(err.Error())
	result.Cause = err
	return result
}

// FailMessage builds a failed result from a message, falling back to "unknown error"
func FailMessage(message string) Result {
	if strings.TrimSpace(message) == "" {
		message = unknownError
	}
	return Result{Error: message}
}

// NetworkTarget is a raw socket printer reached through the relay
type NetworkTarget struct {
	Host    string        `json:"host"`
	Port    int           `json:"port,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Destination carries the per-call addressing a transport may need
type Destination struct {
	JobID   string
	Network *NetworkTarget
	Serial  *protocol.SerialConfig
	USB     *protocol.USBConfig
}

// MarkupTransport delivers an HTML document
type MarkupTransport interface {
	Name() string
	Deliver(ctx context.Context, document string, dest Destination) Result
}

// BinaryTransport delivers a printer command stream
type BinaryTransport interface {
	Name() string
	Send(ctx context.Context, payload []byte, dest Destination) Result
}
