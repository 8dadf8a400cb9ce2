// cmd/relay/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"receipt-service/internal/config"
	"receipt-service/internal/relay"
	"receipt-service/internal/utils"
)

// The relay agent runs on the printer LAN and performs the TCP hop for
// networked prints when the service runs with network.relay_mode=agent.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.CloseLogger(logger)

	serviceLogger := utils.NewServiceLogger(logger, "relay-agent")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg.Relay.ServiceURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	agent := relay.NewAgent(relay.AgentConfig{
		ServiceURL:     cfg.Relay.ServiceURL,
		AgentKey:       cfg.Relay.AgentKey,
		ReconnectDelay: cfg.Relay.ReconnectDelay,
		DefaultTimeout: cfg.Network.Timeout,
	}, relay.NewDirect(logger), logger)

	if err := agent.Run(ctx); err != nil {
		logger.Error("Relay agent stopped", zap.Error(err))
	}
	serviceLogger.LogServiceStop("shutdown signal received")
}
