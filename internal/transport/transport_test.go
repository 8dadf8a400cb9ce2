package transport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"receipt-service/internal/protocol"
)

func assertFailed(t *testing.T, message string, result Result) {
	t.Helper()
	assert.False(t, result.Success)
	assert.Equal(t, message, result.Error)
	assert.Empty(t, result.Location)
}

func TestFail(t *testing.T) {
	assert.Equal(t, Result{Error: "unknown error"}, Fail(nil))
	assert.Equal(t, Result{Error: "unknown error"}, FailMessage("  "))

	boom := errors.New("boom")
	failed := Fail(boom)
	assert.False(t, failed.Success)
	assert.Equal(t, "boom", failed.Error)
	assert.ErrorIs(t, failed.Cause, boom)
	assert.Equal(t, Result{Success: true, Location: "/x"}, OKAt("/x"))
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	network := NewNetwork(&recordingRelay{}, 0, 0, zap.NewNop())
	registry.RegisterBinary(MethodNetworked, network, RequireNetwork)
	registry.RegisterMarkup(MethodDialog, NewDialog(&fakeOpener{}, 0, zap.NewNop()), nil)

	route, err := registry.Lookup(MethodNetworked)
	require.NoError(t, err)
	assert.True(t, route.IsBinary())
	assert.Equal(t, "network", route.TransportName())

	route, err = registry.Lookup(MethodDialog)
	require.NoError(t, err)
	assert.False(t, route.IsBinary())

	_, err = registry.Lookup("fax")
	require.ErrorIs(t, err, ErrUnknownMethod)
	assert.Equal(t, `unsupported print method: "fax"`, err.Error())

	assert.Equal(t, []Method{MethodDialog, MethodNetworked}, registry.Methods())
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name     string
		validate Validator
		dest     Destination
		wantErr  bool
	}{
		{"network missing", RequireNetwork, Destination{}, true},
		{"network empty host", RequireNetwork, Destination{Network: &NetworkTarget{Port: 9100}}, true},
		{"network ok", RequireNetwork, Destination{Network: &NetworkTarget{Host: "192.168.0.50"}}, false},
		{"serial missing", RequireSerial, Destination{}, true},
		{"serial ok", RequireSerial, Destination{Serial: &protocol.SerialConfig{Port: "/dev/ttyUSB0"}}, false},
		{"usb missing", RequireUSB, Destination{}, true},
		{"usb ok", RequireUSB, Destination{USB: &protocol.USBConfig{VendorID: "04b8", ProductID: "0202"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.dest)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNetworkSend(t *testing.T) {
	relay := &recordingRelay{}
	network := NewNetwork(relay, 9100, 3*time.Second, zap.NewNop())

	result := network.Send(context.Background(), []byte{0x1B, 0x40}, Destination{Network: &NetworkTarget{Host: "10.0.0.7"}})
	require.True(t, result.Success)

	assert.Equal(t, 1, relay.calls)
	assert.Equal(t, NetworkTarget{Host: "10.0.0.7", Port: 9100, Timeout: 3 * time.Second}, relay.target)
	assert.Equal(t, []byte{0x1B, 0x40}, relay.payload)
	assert.True(t, relay.hasDL)
}

func TestNetworkSendMissingTarget(t *testing.T) {
	relay := &recordingRelay{}
	network := NewNetwork(relay, 0, 0, zap.NewNop())

	result := network.Send(context.Background(), []byte("x"), Destination{})
	assertFailed(t, ErrMissingTarget.Error(), result)
	assert.Zero(t, relay.calls)
}

func TestNetworkSendRelayError(t *testing.T) {
	relay := &recordingRelay{err: errors.New("relay timeout after 5s")}
	network := NewNetwork(relay, 0, 0, zap.NewNop())

	result := network.Send(context.Background(), []byte("x"), Destination{Network: &NetworkTarget{Host: "h", Port: 9101}})
	assertFailed(t, "relay timeout after 5s", result)
	assert.Equal(t, 9101, relay.target.Port)
}

func TestDialogDeliver(t *testing.T) {
	surface := newFakeSurface()
	dialog := NewDialog(&fakeOpener{surface: surface}, time.Millisecond, zap.NewNop())

	result := dialog.Deliver(context.Background(), "<html>receipt</html>", Destination{})
	require.True(t, result.Success)
	assert.Equal(t, "<html>receipt</html>", surface.loaded)
	assert.True(t, surface.printed)

	select {
	case <-surface.closed:
	case <-time.After(time.Second):
		t.Fatal("surface was not closed after lingering")
	}
}

func TestDialogSurfaceBlocked(t *testing.T) {
	dialog := NewDialog(&fakeOpener{err: errors.New("chrome not found")}, 0, zap.NewNop())

	result := dialog.Deliver(context.Background(), "<html></html>", Destination{})
	assert.False(t, result.Success)
	assert.Equal(t, "print window could not be opened: chrome not found", result.Error)
}

func TestDialogPrintFailure(t *testing.T) {
	surface := newFakeSurface()
	surface.printErr = errors.New("failed to invoke print: target closed")
	dialog := NewDialog(&fakeOpener{surface: surface}, time.Hour, zap.NewNop())

	result := dialog.Deliver(context.Background(), "<html></html>", Destination{})
	assertFailed(t, "failed to invoke print: target closed", result)

	select {
	case <-surface.closed:
	default:
		t.Fatal("surface should be closed immediately on failure")
	}
}

func TestDocumentDeliver(t *testing.T) {
	dir := t.TempDir()
	surface := newFakeSurface()
	surface.pdf = []byte("%PDF-1.4 receipt")
	doc := NewDocument(&fakeOpener{surface: surface}, dir, "/api/v1/documents/", zap.NewNop())

	jobID := "5f0c8a1e-6d1f-4c43-9f0a-1b2c3d4e5f60"
	result := doc.Deliver(context.Background(), "<html></html>", Destination{JobID: jobID})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "/api/v1/documents/receipt-"+jobID+".pdf", result.Location)

	name := strings.TrimPrefix(result.Location, "/api/v1/documents/")
	path, err := doc.Path(name)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, surface.pdf, data)
}

func TestDocumentPathRejectsTraversal(t *testing.T) {
	doc := NewDocument(&fakeOpener{}, t.TempDir(), "/docs", zap.NewNop())

	for _, name := range []string{"", "../secret.pdf", "a/b.pdf", "receipt.txt", "missing.pdf"} {
		_, err := doc.Path(name)
		assert.Error(t, err, name)
	}
}

func TestDocumentSurfaceBlocked(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	doc := NewDocument(&fakeOpener{err: errors.New("no display")}, dir, "/docs", zap.NewNop())

	result := doc.Deliver(context.Background(), "<html></html>", Destination{})
	assert.Equal(t, "print window could not be opened: no display", result.Error)
}

type memoryLink struct {
	opened  bool
	written []byte
	openErr error
}

func (l *memoryLink) Open(ctx context.Context) error {
	if l.openErr != nil {
		return l.openErr
	}
	l.opened = true
	return nil
}
func (l *memoryLink) Close() error { l.opened = false; return nil }
func (l *memoryLink) IsOpen() bool { return l.opened }
func (l *memoryLink) Kind() protocol.Kind {
	return protocol.KindSerial
}
func (l *memoryLink) Stats() protocol.Stats { return protocol.Stats{} }
func (l *memoryLink) Ping(ctx context.Context) error {
	return nil
}
func (l *memoryLink) Write(ctx context.Context, data []byte) error {
	l.written = append(l.written, data...)
	return nil
}

func TestWiredSend(t *testing.T) {
	link := &memoryLink{}
	var gotKind protocol.Kind
	factory := func(kind protocol.Kind, settings protocol.Settings, logger *zap.Logger) (protocol.Link, error) {
		gotKind = kind
		if err := protocol.ValidateSettings(kind, settings); err != nil {
			return nil, err
		}
		return link, nil
	}

	serialTransport := NewSerial(factory, zap.NewNop())
	result := serialTransport.Send(context.Background(), []byte("abc"), Destination{Serial: &protocol.SerialConfig{Port: "COM1"}})
	require.True(t, result.Success)
	assert.Equal(t, protocol.KindSerial, gotKind)
	assert.Equal(t, []byte("abc"), link.written)
	assert.False(t, link.opened)

	result = serialTransport.Send(context.Background(), []byte("abc"), Destination{})
	assertFailed(t, "serial port is required", result)

	link.openErr = errors.New("failed to open serial port: busy")
	result = serialTransport.Send(context.Background(), []byte("abc"), Destination{Serial: &protocol.SerialConfig{Port: "COM1"}})
	assertFailed(t, "failed to open serial port: busy", result)
}
