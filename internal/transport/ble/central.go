// internal/transport/ble/central.go
package ble

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"receipt-service/internal/transport"
)

// sigBaseSuffix is the tail of every 16-bit Bluetooth SIG UUID
const sigBaseSuffix = "-0000-1000-8000-00805f9b34fb"

// Central drives the default adapter. Connect needs a prior scan because
// the adapter connects by the address object the scan reported.
type Central struct {
	adapter *bluetooth.Adapter
	logger  *zap.Logger

	mu        sync.Mutex
	addresses map[string]bluetooth.Address
	names     map[string]string
	onDrop    func(address string)
}

// NewCentral wraps the default adapter
func NewCentral(logger *zap.Logger) *Central {
	return &Central{
		adapter:   bluetooth.DefaultAdapter,
		logger:    logger.With(zap.String("component", "ble-central")),
		addresses: make(map[string]bluetooth.Address),
		names:     make(map[string]string),
	}
}

// Enable powers the adapter and installs the link-loss handler
func (c *Central) Enable() error {
	if err := c.adapter.Enable(); err != nil {
		return err
	}

	c.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		c.mu.Lock()
		handler := c.onDrop
		c.mu.Unlock()
		if handler != nil {
			handler(strings.ToUpper(device.Address.String()))
		}
	})
	return nil
}

// SetDisconnectHandler registers the link-loss callback
func (c *Central) SetDisconnectHandler(handler func(address string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDrop = handler
}

// Scan runs until visit returns false or ctx ends
func (c *Central) Scan(ctx context.Context, visit func(transport.Advertisement) bool) error {
	stop := context.AfterFunc(ctx, func() {
		c.adapter.StopScan()
	})
	defer stop()

	err := c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		adv := advertisement{result: result}
		address := adv.Address()

		c.mu.Lock()
		c.addresses[address] = result.Address
		if name := result.LocalName(); name != "" {
			c.names[address] = name
		}
		c.mu.Unlock()

		if !visit(adv) {
			adapter.StopScan()
		}
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return ctx.Err()
}

// Connect opens a GATT connection to a previously scanned address
func (c *Central) Connect(ctx context.Context, address string) (transport.Peripheral, error) {
	c.mu.Lock()
	addr, ok := c.addresses[strings.ToUpper(address)]
	name := c.names[strings.ToUpper(address)]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("device %s was not seen in a scan", address)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	device, err := c.adapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("GATT connected", zap.String("address", address))

	return &peripheral{
		address: strings.ToUpper(address),
		name:    name,
		discover: func() ([]transport.Characteristic, error) {
			services, err := device.DiscoverServices(nil)
			if err != nil {
				return nil, fmt.Errorf("service discovery failed: %w", err)
			}

			var out []transport.Characteristic
			for _, service := range services {
				chars, err := service.DiscoverCharacteristics(nil)
				if err != nil {
					return nil, fmt.Errorf("characteristic discovery failed: %w", err)
				}
				serviceUUID := service.UUID().String()
				for _, ch := range chars {
					ch := ch
					out = append(out, &characteristic{
						uuid:    ch.UUID().String(),
						service: serviceUUID,
						write:   ch.WriteWithoutResponse,
					})
				}
			}
			return out, nil
		},
		disconnect: device.Disconnect,
	}, nil
}

type advertisement struct {
	result bluetooth.ScanResult
}

func (a advertisement) Address() string { return strings.ToUpper(a.result.Address.String()) }
func (a advertisement) Name() string    { return a.result.LocalName() }

func (a advertisement) HasService(uuid string) bool {
	parsed, err := bluetooth.ParseUUID(uuid)
	if err != nil {
		return false
	}
	return a.result.HasServiceUUID(parsed)
}

type peripheral struct {
	address    string
	name       string
	discover   func() ([]transport.Characteristic, error)
	disconnect func() error
}

func (p *peripheral) Address() string { return p.address }
func (p *peripheral) Name() string    { return p.name }

func (p *peripheral) Characteristics(ctx context.Context) ([]transport.Characteristic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.discover()
}

func (p *peripheral) Disconnect() error {
	return p.disconnect()
}

type characteristic struct {
	uuid    string
	service string
	write   func(p []byte) (int, error)
}

func (c *characteristic) UUID() string        { return c.uuid }
func (c *characteristic) ServiceUUID() string { return c.service }
func (c *characteristic) Writable() bool      { return Writable(c.uuid) }
func (c *characteristic) Write(p []byte) (int, error) {
	return c.write(p)
}

// Writable guesses write capability from the UUID since the radio stack does
// not expose characteristic properties. Standard SIG characteristics in
// 0x2A00-0x2BFF are read/notify only, except 0x2AF1 which printers use for data.
func Writable(uuid string) bool {
	u := strings.ToLower(uuid)
	if !strings.HasSuffix(u, sigBaseSuffix) || len(u) != 36 {
		return true
	}

	short, err := strconv.ParseUint(u[:8], 16, 32)
	if err != nil {
		return true
	}
	if short == 0x2af1 {
		return true
	}
	return short < 0x2a00 || short > 0x2bff
}
