package protocol

import (
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		settings Settings
		wantErr  string
	}{
		{"tcp ok", KindTCP, Settings{TCP: &TCPConfig{Host: "10.0.0.5"}}, ""},
		{"tcp missing", KindTCP, Settings{}, "TCP host is required"},
		{"tcp empty host", KindTCP, Settings{TCP: &TCPConfig{Port: 9100}}, "TCP host is required"},
		{"tcp bad port", KindTCP, Settings{TCP: &TCPConfig{Host: "h", Port: 70000}}, "invalid port number: 70000"},
		{"serial ok", KindSerial, Settings{Serial: &SerialConfig{Port: "/dev/ttyUSB0", BaudRate: 115200}}, ""},
		{"serial missing", KindSerial, Settings{}, "serial port is required"},
		{"serial bad baud", KindSerial, Settings{Serial: &SerialConfig{Port: "COM3", BaudRate: 1000}}, "invalid baud rate: 1000"},
		{"usb ok", KindUSB, Settings{USB: &USBConfig{VendorID: "0x04b8", ProductID: "0e15"}}, ""},
		{"usb missing product", KindUSB, Settings{USB: &USBConfig{VendorID: "04b8"}}, "USB product_id is required"},
		{"usb bad hex", KindUSB, Settings{USB: &USBConfig{VendorID: "zz", ProductID: "0e15"}}, "invalid vendor ID"},
		{"unknown", Kind("ir"), Settings{}, "unsupported link type: ir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettings(tt.kind, tt.settings)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateLinkAppliesDefaults(t *testing.T) {
	settings := Settings{TCP: &TCPConfig{Host: "printer.local"}}

	link, err := CreateLink(KindTCP, settings, zap.NewNop())
	require.NoError(t, err)

	tcp, ok := link.(*TCPConnection)
	require.True(t, ok)
	assert.Equal(t, DefaultTCPPort, tcp.config.Port)
	assert.Equal(t, DefaultLinkTimeout, tcp.config.Timeout)
	assert.Equal(t, 0, settings.TCP.Port, "caller settings are not mutated")
	assert.Equal(t, KindTCP, link.Kind())
}

func TestCreateLinkSerialDefaults(t *testing.T) {
	link, err := CreateLink(KindSerial, Settings{Serial: &SerialConfig{Port: "/dev/ttyS0"}}, zap.NewNop())
	require.NoError(t, err)

	serialLink := link.(*SerialConnection)
	assert.Equal(t, DefaultBaudRate, serialLink.config.BaudRate)
	assert.Equal(t, 8, serialLink.config.DataBits)
	assert.Equal(t, "none", serialLink.config.Parity)
	assert.False(t, link.IsOpen())
}

func TestParseHexID(t *testing.T) {
	id, err := parseHexID("0x04B8")
	require.NoError(t, err)
	assert.EqualValues(t, 0x04b8, id)

	id, err = parseHexID("0e15")
	require.NoError(t, err)
	assert.EqualValues(t, 0x0e15, id)

	_, err = parseHexID("12345")
	assert.Error(t, err)
}

func startPrinter(t *testing.T) (string, int, <-chan []byte) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port, received
}

func TestDeliverOverTCP(t *testing.T) {
	host, port, received := startPrinter(t)

	link, err := CreateLink(KindTCP, Settings{TCP: &TCPConfig{Host: host, Port: port}}, zap.NewNop())
	require.NoError(t, err)

	payload := []byte{0x1B, 0x40, 'h', 'i', 0x0A}
	require.NoError(t, Deliver(context.Background(), link, payload))
	assert.False(t, link.IsOpen())

	select {
	case got := <-received:
		assert.Equal(t, payload, got)
	case <-time.After(2 * time.Second):
		t.Fatal("printer received nothing")
	}

	stats := link.Stats()
	assert.EqualValues(t, len(payload), stats.BytesWritten)
	assert.EqualValues(t, 1, stats.WriteCount)
}

func TestDeliverConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	link, err := CreateLink(KindTCP, Settings{TCP: &TCPConfig{Host: "127.0.0.1", Port: addr.Port, Timeout: time.Second}}, zap.NewNop())
	require.NoError(t, err)

	err = Deliver(context.Background(), link, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestWriteBeforeOpen(t *testing.T) {
	link := NewTCPConnection(&TCPConfig{Host: "h", Port: 1}, zap.NewNop())
	assert.EqualError(t, link.Write(context.Background(), []byte("x")), "TCP connection not open")
	assert.NoError(t, link.Close())
}
