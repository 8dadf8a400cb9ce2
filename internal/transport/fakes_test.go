package transport

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

type fakeAdvertisement struct {
	address  string
	name     string
	services []string
}

func (a fakeAdvertisement) Address() string { return a.address }
func (a fakeAdvertisement) Name() string    { return a.name }
func (a fakeAdvertisement) HasService(uuid string) bool {
	for _, s := range a.services {
		if strings.EqualFold(s, uuid) {
			return true
		}
	}
	return false
}

type fakeCharacteristic struct {
	uuid     string
	service  string
	writable bool

	mu       sync.Mutex
	writes   [][]byte
	failAt   int // 1-based write index that fails, 0 never
	onWrite  func(n int)
	writeErr error
}

func (c *fakeCharacteristic) UUID() string        { return c.uuid }
func (c *fakeCharacteristic) ServiceUUID() string { return c.service }
func (c *fakeCharacteristic) Writable() bool      { return c.writable }

func (c *fakeCharacteristic) Write(p []byte) (int, error) {
	c.mu.Lock()
	n := len(c.writes) + 1
	hook := c.onWrite
	if c.failAt == n {
		c.mu.Unlock()
		if c.writeErr != nil {
			return 0, c.writeErr
		}
		return 0, errors.New("link lost")
	}
	c.writes = append(c.writes, append([]byte(nil), p...))
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return len(p), nil
}

func (c *fakeCharacteristic) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

type fakePeripheral struct {
	address       string
	name          string
	chars         []Characteristic
	disconnected  int
	disconnectErr error
}

func (p *fakePeripheral) Address() string { return p.address }
func (p *fakePeripheral) Name() string    { return p.name }
func (p *fakePeripheral) Characteristics(ctx context.Context) ([]Characteristic, error) {
	return p.chars, nil
}
func (p *fakePeripheral) Disconnect() error {
	p.disconnected++
	return p.disconnectErr
}

type fakeCentral struct {
	enableErr   error
	ads         []fakeAdvertisement
	peripherals map[string]*fakePeripheral
	connected   []string
	onDrop      func(address string)

	// scanDelay holds every scan open so overlapping scans can be observed
	scanDelay   time.Duration
	scanMu      sync.Mutex
	scanning    int
	maxScanning int
}

func (c *fakeCentral) Enable() error { return c.enableErr }

func (c *fakeCentral) Scan(ctx context.Context, visit func(Advertisement) bool) error {
	c.scanMu.Lock()
	c.scanning++
	if c.scanning > c.maxScanning {
		c.maxScanning = c.scanning
	}
	c.scanMu.Unlock()
	defer func() {
		c.scanMu.Lock()
		c.scanning--
		c.scanMu.Unlock()
	}()

	if c.scanDelay > 0 {
		time.Sleep(c.scanDelay)
	}
	for _, ad := range c.ads {
		if !visit(ad) {
			return nil
		}
	}
	return nil
}

func (c *fakeCentral) Connect(ctx context.Context, address string) (Peripheral, error) {
	p, ok := c.peripherals[address]
	if !ok {
		return nil, errors.New("connection refused")
	}
	c.connected = append(c.connected, address)
	return p, nil
}

func (c *fakeCentral) SetDisconnectHandler(handler func(address string)) {
	c.onDrop = handler
}

// recordingRelay captures forwarded payloads
type recordingRelay struct {
	calls   int
	target  NetworkTarget
	payload []byte
	err     error
	hasDL   bool
}

func (r *recordingRelay) Forward(ctx context.Context, target NetworkTarget, payload []byte) error {
	r.calls++
	r.target = target
	r.payload = payload
	_, r.hasDL = ctx.Deadline()
	return r.err
}

type fakeSurface struct {
	loadErr  error
	printErr error
	pdf      []byte
	loaded   string
	printed  bool
	closed   chan struct{}
	once     sync.Once
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{closed: make(chan struct{})}
}

func (s *fakeSurface) Load(ctx context.Context, html string) error {
	s.loaded = html
	return s.loadErr
}

func (s *fakeSurface) Print(ctx context.Context) error {
	s.printed = true
	return s.printErr
}

func (s *fakeSurface) PDF(ctx context.Context) ([]byte, error) {
	return s.pdf, nil
}

func (s *fakeSurface) Close() {
	s.once.Do(func() { close(s.closed) })
}

type fakeOpener struct {
	surface *fakeSurface
	err     error
}

func (o *fakeOpener) Open(ctx context.Context) (Surface, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.surface, nil
}
