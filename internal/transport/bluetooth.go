// internal/transport/bluetooth.go
package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"receipt-service/internal/utils"
)

// Advertisement is a peripheral seen during a scan
type Advertisement interface {
	Address() string
	Name() string
	HasService(uuid string) bool
}

// Characteristic is a GATT characteristic of a connected peripheral
type Characteristic interface {
	UUID() string
	ServiceUUID() string
	Writable() bool
	Write(p []byte) (int, error)
}

// Peripheral is a connected BLE device
type Peripheral interface {
	Address() string
	Name() string
	Characteristics(ctx context.Context) ([]Characteristic, error)
	Disconnect() error
}

// Central is the host radio
type Central interface {
	Enable() error
	// Scan calls visit for each advertisement until visit returns false or ctx ends
	Scan(ctx context.Context, visit func(Advertisement) bool) error
	Connect(ctx context.Context, address string) (Peripheral, error)
	// SetDisconnectHandler registers the callback for link loss
	SetDisconnectHandler(handler func(address string))
}

// BluetoothConfig holds the printer allowlists and pacing
type BluetoothConfig struct {
	ServiceUUIDs         []string
	NamePrefixes         []string
	WriteCharacteristics []string
	ChunkSize            int
	ChunkDelay           time.Duration
	ScanTimeout          time.Duration
}

// DefaultBluetoothConfig covers the common 58/80mm BLE thermal printers
func DefaultBluetoothConfig() BluetoothConfig {
	return BluetoothConfig{
		ServiceUUIDs: []string{
			"000018f0-0000-1000-8000-00805f9b34fb",
			"e7810a71-73ae-499d-8c15-faa9aef0c3f2",
			"49535343-fe7d-4ae5-8fa9-9fafd205e455",
			"0000ff00-0000-1000-8000-00805f9b34fb",
		},
		NamePrefixes: []string{"MPT", "PT-", "Printer", "MTP", "RPP", "InnerPrinter", "BlueTooth Printer"},
		WriteCharacteristics: []string{
			"00002af1-0000-1000-8000-00805f9b34fb",
			"bef8d6c9-9c21-4c9e-b632-bd58c1009f9f",
			"49535343-8841-43f4-a8d4-ecbe34729bb3",
			"0000ff02-0000-1000-8000-00805f9b34fb",
		},
		ChunkSize:   100,
		ChunkDelay:  20 * time.Millisecond,
		ScanTimeout: 10 * time.Second,
	}
}

// PrinterConnection describes the current wireless printer
type PrinterConnection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// DiscoveredPrinter is a scan hit
type DiscoveredPrinter struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Known   bool   `json:"known"` // matched the service or name allowlist
}

// StateListener observes connection changes. unsolicited is true when the
// printer dropped the link on its own.
type StateListener func(conn PrinterConnection, unsolicited bool)

type session struct {
	peripheral Peripheral
	channel    Characteristic
}

// Bluetooth owns the single wireless printer connection of the process
type Bluetooth struct {
	central Central
	config  BluetoothConfig
	logger  *utils.PrinterLogger

	connectMu sync.Mutex // serializes Connect and Disconnect
	scanMu    sync.Mutex // the radio runs one scan at a time
	enableMu  sync.Mutex
	enabled   bool

	mu       sync.Mutex
	current  *session
	listener StateListener
}

// NewBluetooth creates the manager and subscribes to link loss
func NewBluetooth(central Central, config BluetoothConfig, logger *zap.Logger) *Bluetooth {
	defaults := DefaultBluetoothConfig()
	if config.ChunkSize <= 0 {
		config.ChunkSize = defaults.ChunkSize
	}
	if config.ChunkDelay < 0 {
		config.ChunkDelay = 0
	}
	if config.ScanTimeout <= 0 {
		config.ScanTimeout = defaults.ScanTimeout
	}

	b := &Bluetooth{
		central: central,
		config:  config,
		logger:  utils.NewPrinterLogger(logger, "bluetooth"),
	}
	central.SetDisconnectHandler(b.handleDisconnect)
	return b
}

func (b *Bluetooth) Name() string { return "bluetooth" }

// OnStateChange installs the connection listener
func (b *Bluetooth) OnStateChange(listener StateListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listener = listener
}

// Connect selects a printer and opens the session. An empty address picks
// the first allowlisted printer, falling back to a named device and then to
// any device at all. Connecting
// to another printer replaces the current session.
func (b *Bluetooth) Connect(ctx context.Context, address string) (PrinterConnection, error) {
	b.connectMu.Lock()
	defer b.connectMu.Unlock()

	if err := b.enable(); err != nil {
		return PrinterConnection{}, err
	}

	if current := b.snapshot(); current != nil && (address == "" || strings.EqualFold(current.peripheral.Address(), address)) {
		return connectionOf(current), nil
	}

	target, err := b.selectPeripheral(ctx, address)
	if err != nil {
		return PrinterConnection{}, err
	}

	if b.snapshot() != nil {
		b.logger.Info("Replacing current printer connection", zap.String("address", target.Address()))
		b.disconnectLocked()
	}

	peripheral, err := b.central.Connect(ctx, target.Address())
	if err != nil {
		b.logger.LogConnection("connect", target.Address(), err)
		return PrinterConnection{}, fmt.Errorf("failed to connect to %s: %w", displayName(target.Name(), target.Address()), err)
	}

	chars, err := peripheral.Characteristics(ctx)
	if err != nil {
		b.release(peripheral)
		return PrinterConnection{}, fmt.Errorf("failed to discover characteristics: %w", err)
	}

	channel := b.writableChannel(chars)
	if channel == nil {
		b.release(peripheral)
		return PrinterConnection{}, ErrNoWritableChannel
	}

	s := &session{peripheral: peripheral, channel: channel}
	b.mu.Lock()
	b.current = s
	listener := b.listener
	b.mu.Unlock()

	conn := connectionOf(s)
	b.logger.LogConnection("connect", conn.ID, nil)
	b.logger.Debug("Write channel selected",
		zap.String("name", conn.Name),
		zap.String("characteristic", channel.UUID()),
	)
	if listener != nil {
		listener(conn, false)
	}
	return conn, nil
}

// Send writes the payload in paced chunks. There is no implicit reconnect.
// A failure mid-transfer leaves the paper in an unknown state.
func (b *Bluetooth) Send(ctx context.Context, payload []byte, dest Destination) Result {
	s := b.snapshot()
	if s == nil {
		return Fail(ErrNotConnected)
	}

	started := time.Now()
	size := b.config.ChunkSize
	chunks := 0
	for offset := 0; offset < len(payload); offset += size {
		if offset > 0 && b.config.ChunkDelay > 0 {
			timer := time.NewTimer(b.config.ChunkDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Fail(errors.Wrap(ctx.Err(), "transfer interrupted"))
			case <-timer.C:
			}
		}

		if b.snapshot() != s {
			return Fail(errors.Wrap(ErrNotConnected, "printer disconnected during transfer"))
		}

		end := offset + size
		if end > len(payload) {
			end = len(payload)
		}
		if _, err := s.channel.Write(payload[offset:end]); err != nil {
			b.clear(s, true)
			b.logger.LogTransmission(offset, chunks, time.Since(started), err)
			return Fail(fmt.Errorf("bluetooth write failed: %w", err))
		}
		chunks++
	}

	b.logger.LogTransmission(len(payload), chunks, time.Since(started), nil)
	return OK()
}

// Disconnect closes the session if any
func (b *Bluetooth) Disconnect() error {
	b.connectMu.Lock()
	defer b.connectMu.Unlock()
	return b.disconnectLocked()
}

// IsConnected reports whether a session is open
func (b *Bluetooth) IsConnected() bool {
	return b.snapshot() != nil
}

// Status returns the current connection, or a disconnected zero value
func (b *Bluetooth) Status() PrinterConnection {
	s := b.snapshot()
	if s == nil {
		return PrinterConnection{}
	}
	return connectionOf(s)
}

// Discover scans for nearby devices until ctx ends or the scan timeout elapses
func (b *Bluetooth) Discover(ctx context.Context) ([]DiscoveredPrinter, error) {
	if err := b.enable(); err != nil {
		return nil, err
	}

	scanCtx, cancel := context.WithTimeout(ctx, b.config.ScanTimeout)
	defer cancel()

	seen := make(map[string]bool)
	var found []DiscoveredPrinter
	err := b.scan(scanCtx, func(adv Advertisement) bool {
		if seen[adv.Address()] {
			return true
		}
		seen[adv.Address()] = true
		found = append(found, DiscoveredPrinter{
			Address: adv.Address(),
			Name:    adv.Name(),
			Known:   b.matches(adv),
		})
		return true
	})
	if err != nil && !isScanEnd(err) {
		return found, fmt.Errorf("bluetooth scan failed: %w", err)
	}
	return found, nil
}

func (b *Bluetooth) enable() error {
	b.enableMu.Lock()
	defer b.enableMu.Unlock()

	if b.enabled {
		return nil
	}
	if err := b.central.Enable(); err != nil {
		return fmt.Errorf("%w: %v", ErrRadioUnavailable, err)
	}
	b.enabled = true
	return nil
}

// scan holds the radio for the duration of one scan
func (b *Bluetooth) scan(ctx context.Context, visit func(Advertisement) bool) error {
	b.scanMu.Lock()
	defer b.scanMu.Unlock()
	return b.central.Scan(ctx, visit)
}

// selectPeripheral scans for the requested address, or for the first
// allowlisted printer. Without one it takes the first named device, then
// the first device of any kind.
func (b *Bluetooth) selectPeripheral(ctx context.Context, address string) (Advertisement, error) {
	scanCtx, cancel := context.WithTimeout(ctx, b.config.ScanTimeout)
	defer cancel()

	var match, named, unnamed Advertisement
	err := b.scan(scanCtx, func(adv Advertisement) bool {
		if address != "" {
			if strings.EqualFold(adv.Address(), address) {
				match = adv
				return false
			}
			return true
		}
		if b.matches(adv) {
			match = adv
			return false
		}
		if adv.Name() != "" {
			if named == nil {
				named = adv
			}
		} else if unnamed == nil {
			unnamed = adv
		}
		return true
	})

	if match == nil {
		match = named
	}
	if match == nil {
		match = unnamed
	}
	if match != nil {
		return match, nil
	}
	if err != nil && !isScanEnd(err) {
		return nil, fmt.Errorf("bluetooth scan failed: %w", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if address != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPeripheral, address)
	}
	return nil, ErrNoPeripheral
}

func (b *Bluetooth) matches(adv Advertisement) bool {
	for _, uuid := range b.config.ServiceUUIDs {
		if adv.HasService(uuid) {
			return true
		}
	}
	name := adv.Name()
	for _, prefix := range b.config.NamePrefixes {
		if name != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// writableChannel tries the known write characteristics in order, then the
// first writable characteristic of an allowlisted service, then any writable one
func (b *Bluetooth) writableChannel(chars []Characteristic) Characteristic {
	for _, want := range b.config.WriteCharacteristics {
		for _, c := range chars {
			if strings.EqualFold(c.UUID(), want) && c.Writable() {
				return c
			}
		}
	}

	for _, service := range b.config.ServiceUUIDs {
		for _, c := range chars {
			if strings.EqualFold(c.ServiceUUID(), service) && c.Writable() {
				return c
			}
		}
	}

	for _, c := range chars {
		if c.Writable() {
			return c
		}
	}
	return nil
}

func (b *Bluetooth) disconnectLocked() error {
	b.mu.Lock()
	s := b.current
	b.current = nil
	listener := b.listener
	b.mu.Unlock()

	if s == nil {
		return nil
	}

	err := b.release(s.peripheral)
	if listener != nil {
		conn := connectionOf(s)
		conn.Connected = false
		listener(conn, false)
	}
	if err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

// handleDisconnect runs on link loss reported by the radio
func (b *Bluetooth) handleDisconnect(address string) {
	b.mu.Lock()
	s := b.current
	if s == nil || !strings.EqualFold(s.peripheral.Address(), address) {
		b.mu.Unlock()
		return
	}
	b.current = nil
	listener := b.listener
	b.mu.Unlock()

	b.logger.Warn("Printer dropped the connection", zap.String("address", address))
	if listener != nil {
		conn := connectionOf(s)
		conn.Connected = false
		listener(conn, true)
	}
}

// clear drops s if it is still the current session
func (b *Bluetooth) clear(s *session, unsolicited bool) {
	b.mu.Lock()
	if b.current != s {
		b.mu.Unlock()
		return
	}
	b.current = nil
	listener := b.listener
	b.mu.Unlock()

	b.release(s.peripheral)
	if listener != nil {
		conn := connectionOf(s)
		conn.Connected = false
		listener(conn, unsolicited)
	}
}

// release closes the link to p and logs the outcome
func (b *Bluetooth) release(p Peripheral) error {
	err := p.Disconnect()
	b.logger.LogConnection("disconnect", p.Address(), err)
	return err
}

func (b *Bluetooth) snapshot() *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func connectionOf(s *session) PrinterConnection {
	return PrinterConnection{
		ID:        s.peripheral.Address(),
		Name:      displayName(s.peripheral.Name(), s.peripheral.Address()),
		Connected: true,
	}
}

func displayName(name, address string) string {
	if name == "" {
		return address
	}
	return name
}

func isScanEnd(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
