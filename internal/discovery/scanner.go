// internal/discovery/scanner.go
package discovery

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownScanner     = errors.New("scanner type not found")
	ErrScannerUnavailable = errors.New("scanner not available")
)

// Scanner finds printers reachable over one kind of link
type Scanner interface {
	Scan(ctx context.Context) ([]*Printer, error)
	GetScannerType() string
	IsAvailable() bool
}

// Printer is a discovered printer candidate
type Printer struct {
	Type      string                 `json:"type"` // serial, usb, bluetooth, network
	Name      string                 `json:"name"`
	Address   string                 `json:"address"`
	VendorID  string                 `json:"vendor_id,omitempty"`
	ProductID string                 `json:"product_id,omitempty"`
	Known     bool                   `json:"known"` // matched a known printer vendor or allowlist
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Report is the result of a discovery run. A failing scanner does not
// fail the run; its error is reported next to the other results.
type Report struct {
	Printers []*Printer        `json:"printers"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// ScannerManager runs the registered scanners
type ScannerManager struct {
	scanners map[string]Scanner
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewScannerManager creates a new scanner manager
func NewScannerManager(logger *zap.Logger) *ScannerManager {
	return &ScannerManager{
		scanners: make(map[string]Scanner),
		logger:   logger.With(zap.String("component", "discovery")),
	}
}

// RegisterScanner registers a printer scanner
func (sm *ScannerManager) RegisterScanner(scanner Scanner) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	scannerType := scanner.GetScannerType()
	sm.scanners[scannerType] = scanner
	sm.logger.Info("Scanner registered", zap.String("type", scannerType))
}

// ScanAll runs every available scanner concurrently
func (sm *ScannerManager) ScanAll(ctx context.Context) *Report {
	sm.mu.RLock()
	scanners := make([]Scanner, 0, len(sm.scanners))
	for _, scanner := range sm.scanners {
		if scanner.IsAvailable() {
			scanners = append(scanners, scanner)
		}
	}
	sm.mu.RUnlock()

	report := &Report{Printers: []*Printer{}, Errors: map[string]string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, scanner := range scanners {
		g.Go(func() error {
			printers, err := scanner.Scan(gctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sm.logger.Warn("Scanner failed", zap.String("type", scanner.GetScannerType()), zap.Error(err))
				report.Errors[scanner.GetScannerType()] = err.Error()
			}
			report.Printers = append(report.Printers, printers...)
			return nil
		})
	}
	_ = g.Wait()

	sortPrinters(report.Printers)
	sm.logger.Info("Discovery completed",
		zap.Int("scanners", len(scanners)),
		zap.Int("printers_found", len(report.Printers)),
	)
	return report
}

// ScanByType runs a single scanner
func (sm *ScannerManager) ScanByType(ctx context.Context, scannerType string) ([]*Printer, error) {
	sm.mu.RLock()
	scanner, exists := sm.scanners[scannerType]
	sm.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScanner, scannerType)
	}
	if !scanner.IsAvailable() {
		return nil, fmt.Errorf("%w: %s", ErrScannerUnavailable, scannerType)
	}

	printers, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if printers == nil {
		printers = []*Printer{}
	}
	sortPrinters(printers)
	return printers, nil
}

// GetAvailableScanners returns the available scanner types, sorted
func (sm *ScannerManager) GetAvailableScanners() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	available := []string{}
	for scannerType, scanner := range sm.scanners {
		if scanner.IsAvailable() {
			available = append(available, scannerType)
		}
	}
	sort.Strings(available)
	return available
}

// known printers first, then by type and address
func sortPrinters(printers []*Printer) {
	sort.SliceStable(printers, func(i, j int) bool {
		if printers[i].Known != printers[j].Known {
			return printers[i].Known
		}
		if printers[i].Type != printers[j].Type {
			return printers[i].Type < printers[j].Type
		}
		return printers[i].Address < printers[j].Address
	})
}
