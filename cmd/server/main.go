// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "receipt-service/docs"
	"receipt-service/internal/config"
	"receipt-service/internal/database"
	"receipt-service/internal/discovery"
	btdiscovery "receipt-service/internal/discovery/bluetooth"
	serialdiscovery "receipt-service/internal/discovery/serial"
	tcpdiscovery "receipt-service/internal/discovery/tcp"
	usbdiscovery "receipt-service/internal/discovery/usb"
	"receipt-service/internal/events"
	"receipt-service/internal/handler"
	"receipt-service/internal/receipt"
	"receipt-service/internal/relay"
	"receipt-service/internal/repository"
	"receipt-service/internal/routes"
	"receipt-service/internal/service"
	"receipt-service/internal/transport"
	"receipt-service/internal/transport/ble"
	"receipt-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	bus      *events.Bus
	jobRepo  repository.JobRepository
	browser  *transport.Browser
	document *transport.Document
	wireless *transport.Bluetooth
	relayHub *relay.Hub
	registry *transport.Registry
	scanners *discovery.ScannerManager

	// Services
	printService   *service.PrintService
	printerService *service.PrinterService
	jobService     *service.JobService

	eventStream *handler.WebSocketHandler
}

// @title Receipt Service API
// @version 1.0.0
// @description Thermal receipt rendering and printing for the checkout

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api/v1
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, cfg.App.Name)
	serviceLogger.LogServiceStart(cfg.App.Version, cfg.App)

	app := &Application{
		config: cfg,
		logger: logger,
		bus:    events.NewBus(logger),
	}

	if err := app.initializeJobLog(); err != nil {
		return nil, fmt.Errorf("failed to initialize job log: %w", err)
	}

	if err := app.initializeTransports(); err != nil {
		return nil, fmt.Errorf("failed to initialize transports: %w", err)
	}

	app.initializeDiscovery()
	app.initializeServices()
	app.initializeServer()

	return app, nil
}

// initializeJobLog picks postgres or the in-memory ring for the job log
func (app *Application) initializeJobLog() error {
	if !app.config.Database.Enabled {
		app.jobRepo = repository.NewMemoryJobRepository(app.config.Database.MemoryJobLimit)
		app.logger.Info("Job log kept in memory", zap.Int("limit", app.config.Database.MemoryJobLimit))
		return nil
	}

	db, err := database.NewConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	app.database = db

	migrator := database.NewMigrator(db, app.logger, &app.config.Database)
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app.jobRepo = repository.NewJobRepository(db, app.logger)
	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeTransports builds one transport per print method
func (app *Application) initializeTransports() error {
	cfg := app.config
	app.registry = transport.NewRegistry(app.logger)

	app.browser = transport.NewBrowser(transport.BrowserConfig{
		ExecPath: cfg.Browser.ExecPath,
		Headless: cfg.Browser.Headless,
		Timeout:  cfg.Browser.Timeout,
	}, app.logger)

	if err := os.MkdirAll(cfg.Printing.DocumentDir, 0o755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}
	app.document = transport.NewDocument(app.browser, cfg.Printing.DocumentDir, "/api/v1/documents", app.logger)

	app.registry.RegisterMarkup(transport.MethodDialog, transport.NewDialog(app.browser, cfg.Browser.DialogLinger, app.logger), nil)
	app.registry.RegisterMarkup(transport.MethodDocument, app.document, nil)

	if cfg.Bluetooth.Enabled {
		app.wireless = transport.NewBluetooth(ble.NewCentral(app.logger), bluetoothConfig(cfg.Bluetooth), app.logger)
		app.registry.RegisterBinary(transport.MethodWireless, app.wireless, nil)
	}

	var forwarder transport.Relay
	if cfg.Network.RelayMode == "agent" {
		app.relayHub = relay.NewHub(cfg.Relay.AgentKey, cfg.Network.PingInterval, app.logger)
		app.relayHub.SetPublisher(app.bus)
		forwarder = app.relayHub
	} else {
		forwarder = relay.NewDirect(app.logger)
	}
	network := transport.NewNetwork(forwarder, cfg.Network.DefaultPort, cfg.Network.Timeout, app.logger)
	app.registry.RegisterBinary(transport.MethodNetworked, network, transport.RequireNetwork)

	app.registry.RegisterBinary(transport.MethodSerial, transport.NewSerial(nil, app.logger), transport.RequireSerial)
	app.registry.RegisterBinary(transport.MethodUSB, transport.NewUSB(nil, app.logger), transport.RequireUSB)

	app.logger.Info("Transports initialized", zap.Any("methods", app.registry.Methods()))
	return nil
}

// bluetoothConfig overlays configured allowlists on the built-in ones
func bluetoothConfig(cfg config.BluetoothConfig) transport.BluetoothConfig {
	btConfig := transport.DefaultBluetoothConfig()
	if len(cfg.ServiceUUIDs) > 0 {
		btConfig.ServiceUUIDs = cfg.ServiceUUIDs
	}
	if len(cfg.NamePrefixes) > 0 {
		btConfig.NamePrefixes = cfg.NamePrefixes
	}
	if len(cfg.WriteCharacteristics) > 0 {
		btConfig.WriteCharacteristics = cfg.WriteCharacteristics
	}
	if cfg.ChunkSize > 0 {
		btConfig.ChunkSize = cfg.ChunkSize
	}
	if cfg.ChunkDelay > 0 {
		btConfig.ChunkDelay = cfg.ChunkDelay
	}
	if cfg.ScanTimeout > 0 {
		btConfig.ScanTimeout = cfg.ScanTimeout
	}
	return btConfig
}

func (app *Application) initializeDiscovery() {
	app.scanners = discovery.NewScannerManager(app.logger)
	app.scanners.RegisterScanner(serialdiscovery.NewScanner(app.logger))
	app.scanners.RegisterScanner(usbdiscovery.NewScanner(app.logger))
	app.scanners.RegisterScanner(tcpdiscovery.NewScanner(tcpdiscovery.Config{
		NetworkRanges: app.config.Network.ScanRanges,
		Ports:         []int{app.config.Network.DefaultPort},
	}, app.logger))
	if app.wireless != nil {
		app.scanners.RegisterScanner(btdiscovery.NewScanner(app.wireless, app.logger))
	}
}

func (app *Application) initializeServices() {
	cfg := app.config

	app.printService = service.NewPrintService(
		app.registry,
		app.jobRepo,
		app.bus,
		receipt.PaperWidth(cfg.Printing.DefaultPaper),
		cfg.Location(),
		app.logger,
	)

	// A nil *Bluetooth must not become a non-nil interface
	var wireless service.WirelessPrinter
	if app.wireless != nil {
		wireless = app.wireless
	}
	app.printerService = service.NewPrinterService(wireless, app.scanners, app.bus, app.logger)

	app.jobService = service.NewJobService(app.jobRepo, app.logger)

	app.logger.Info("Services initialized successfully")
}

func (app *Application) initializeServer() {
	app.eventStream = handler.NewWebSocketHandler(app.bus.Subscribe(), app.logger)

	routerManager := routes.NewRouter(app.config, app.logger, routes.Dependencies{
		DB:             app.database,
		PrintService:   app.printService,
		PrinterService: app.printerService,
		JobService:     app.jobService,
		Documents:      app.document,
		RelayHub:       app.relayHub,
		Events:         app.eventStream,
	})

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      routerManager.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// Start serves HTTP and the background loops until a shutdown signal arrives
func (app *Application) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.bus.Run(gctx)
		return nil
	})
	g.Go(func() error {
		app.eventStream.Run(gctx)
		return nil
	})
	g.Go(func() error {
		app.jobService.RunRetention(gctx, app.config.Database.JobRetention, app.config.Database.PruneInterval)
		return nil
	})

	g.Go(func() error {
		app.logger.Info("Starting HTTP server", zap.String("address", app.server.Addr))

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(app.config.Server.TLS.CertFile, app.config.Server.TLS.KeyFile)
		} else {
			err = app.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.shutdown()
		return nil
	})

	return g.Wait()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, app.config.App.Name)
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	if app.wireless != nil {
		if err := app.wireless.Disconnect(); err != nil {
			app.logger.Warn("Bluetooth disconnect error", zap.Error(err))
		}
	}
	app.browser.Close()

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	app.logger.Info("Application shutdown completed")
	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
