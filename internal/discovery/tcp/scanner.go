// internal/discovery/tcp/scanner.go
package tcp

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"receipt-service/internal/discovery"
)

// Config for TCP scanner
type Config struct {
	NetworkRanges []string      `json:"network_ranges"`
	Ports         []int         `json:"ports"`
	ConnTimeout   time.Duration `json:"connection_timeout"`
	MaxConcurrent int           `json:"max_concurrent"`
}

// Scanner probes network ranges for raw printing ports
type Scanner struct {
	logger *zap.Logger
	config Config
}

// maxHosts bounds a single range so a typo cannot sweep a /8
const maxHosts = 1024

// NewScanner creates a new TCP scanner
func NewScanner(config Config, logger *zap.Logger) *Scanner {
	if len(config.Ports) == 0 {
		config.Ports = []int{9100}
	}
	if config.ConnTimeout <= 0 {
		config.ConnTimeout = 500 * time.Millisecond
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 64
	}

	return &Scanner{
		logger: logger.With(zap.String("scanner", "network")),
		config: config,
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "network"
}

// IsAvailable is true once at least one range is configured
func (s *Scanner) IsAvailable() bool {
	return len(s.config.NetworkRanges) > 0
}

// Scan connects to every host and port of the configured ranges
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.Printer, error) {
	var targets []string
	for _, cidr := range s.config.NetworkRanges {
		hosts, err := expand(cidr)
		if err != nil {
			return nil, err
		}
		for _, host := range hosts {
			for _, port := range s.config.Ports {
				targets = append(targets, net.JoinHostPort(host, strconv.Itoa(port)))
			}
		}
	}

	open := make([]bool, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)
	dialer := &net.Dialer{Timeout: s.config.ConnTimeout}

	for i, target := range targets {
		g.Go(func() error {
			conn, err := dialer.DialContext(gctx, "tcp", target)
			if err != nil {
				return nil
			}
			conn.Close()
			open[i] = true
			return nil
		})
	}
	_ = g.Wait()

	printers := []*discovery.Printer{}
	for i, target := range targets {
		if !open[i] {
			continue
		}
		host, port, _ := net.SplitHostPort(target)
		printers = append(printers, &discovery.Printer{
			Type:    s.GetScannerType(),
			Name:    target,
			Address: target,
			Known:   port == "9100",
			Details: map[string]interface{}{"host": host, "port": port},
		})
	}

	s.logger.Info("Network scan completed",
		zap.Int("targets", len(targets)),
		zap.Int("printers_found", len(printers)),
	)
	return printers, ctx.Err()
}

// expand lists the host addresses of an IPv4 range or a single address
func expand(cidr string) ([]string, error) {
	if addr, err := netip.ParseAddr(cidr); err == nil {
		return []string{addr.String()}, nil
	}

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid network range %q: %w", cidr, err)
	}
	if !prefix.Addr().Is4() {
		return nil, fmt.Errorf("invalid network range %q: only IPv4 ranges are supported", cidr)
	}
	if prefix.Bits() < 22 {
		return nil, fmt.Errorf("network range %q exceeds %d hosts", cidr, maxHosts)
	}

	prefix = prefix.Masked()
	var hosts []string
	for addr := prefix.Addr(); prefix.Contains(addr); addr = addr.Next() {
		hosts = append(hosts, addr.String())
	}

	// drop network and broadcast addresses on ranges that have them
	if len(hosts) > 2 {
		hosts = hosts[1 : len(hosts)-1]
	}
	return hosts, nil
}
