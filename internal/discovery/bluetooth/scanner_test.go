package bluetooth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"receipt-service/internal/transport"
)

type stubRadio struct {
	found []transport.DiscoveredPrinter
	err   error
}

func (r stubRadio) Discover(ctx context.Context) ([]transport.DiscoveredPrinter, error) {
	return r.found, r.err
}

func TestScanMapsAdvertisements(t *testing.T) {
	radio := stubRadio{found: []transport.DiscoveredPrinter{
		{Address: "AA:BB", Name: "MPT-II", Known: true},
		{Address: "CC:DD"},
	}}

	printers, err := NewScanner(radio, zap.NewNop()).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, printers, 2)
	assert.Equal(t, "MPT-II", printers[0].Name)
	assert.True(t, printers[0].Known)
	assert.Equal(t, "CC:DD", printers[1].Name)
	assert.Equal(t, "bluetooth", printers[1].Type)
}

func TestScanRadioError(t *testing.T) {
	_, err := NewScanner(stubRadio{err: transport.ErrRadioUnavailable}, zap.NewNop()).Scan(context.Background())
	assert.ErrorIs(t, err, transport.ErrRadioUnavailable)
}
