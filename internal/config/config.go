// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Printing  PrintingConfig  `mapstructure:"printing"`
	Bluetooth BluetoothConfig `mapstructure:"bluetooth"`
	Network   NetworkConfig   `mapstructure:"network"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Relay     RelayConfig     `mapstructure:"relay"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// DatabaseConfig represents database configuration.
// With Enabled false the job log lives in memory.
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	MigrationsPath string        `mapstructure:"migrations_path"`
	MemoryJobLimit int           `mapstructure:"memory_job_limit"`
	JobRetention   time.Duration `mapstructure:"job_retention"`
	PruneInterval  time.Duration `mapstructure:"prune_interval"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// PrintingConfig holds receipt defaults applied when a request leaves them out
type PrintingConfig struct {
	DefaultPaper string `mapstructure:"default_paper"`
	Timezone     string `mapstructure:"timezone"`
	ShowLogo     bool   `mapstructure:"show_logo"`
	AutoCut      bool   `mapstructure:"auto_cut"`
	OpenDrawer   bool   `mapstructure:"open_drawer"`
	DocumentDir  string `mapstructure:"document_dir"`
}

// BluetoothConfig represents the BLE printer transport configuration
type BluetoothConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	ServiceUUIDs         []string      `mapstructure:"service_uuids"`
	NamePrefixes         []string      `mapstructure:"name_prefixes"`
	WriteCharacteristics []string      `mapstructure:"write_characteristics"`
	ChunkSize            int           `mapstructure:"chunk_size"`
	ChunkDelay           time.Duration `mapstructure:"chunk_delay"`
	ScanTimeout          time.Duration `mapstructure:"scan_timeout"`
}

// NetworkConfig represents the network printer transport configuration.
// RelayMode is "direct" (the service dials the printer) or "agent"
// (a relay agent on the printer LAN does).
type NetworkConfig struct {
	RelayMode    string        `mapstructure:"relay_mode"`
	DefaultPort  int           `mapstructure:"default_port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
	ScanRanges   []string      `mapstructure:"scan_ranges"`
}

// BrowserConfig represents the headless browser behind the markup transports
type BrowserConfig struct {
	ExecPath     string        `mapstructure:"exec_path"`
	Headless     bool          `mapstructure:"headless"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DialogLinger time.Duration `mapstructure:"dialog_linger"`
}

// RelayConfig configures both ends of the relay link
type RelayConfig struct {
	ServiceURL     string        `mapstructure:"service_url"`
	AgentKey       string        `mapstructure:"agent_key"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables.
// A missing config file falls back to defaults and environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.SetEnvPrefix("RECEIPT_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8084")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.tls.enabled", false)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "receipt_service")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("database.memory_job_limit", 500)
	v.SetDefault("database.job_retention", "720h")
	v.SetDefault("database.prune_interval", "1h")

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Printing defaults
	v.SetDefault("printing.default_paper", "80mm")
	v.SetDefault("printing.timezone", "America/Sao_Paulo")
	v.SetDefault("printing.show_logo", false)
	v.SetDefault("printing.auto_cut", true)
	v.SetDefault("printing.open_drawer", false)
	v.SetDefault("printing.document_dir", "./data/documents")

	// Bluetooth defaults
	v.SetDefault("bluetooth.enabled", true)
	v.SetDefault("bluetooth.service_uuids", []string{
		"000018f0-0000-1000-8000-00805f9b34fb",
		"e7810a71-73ae-499d-8c15-faa9aef0c3f2",
		"49535343-fe7d-4ae5-8fa9-9fafd205e455",
		"0000ff00-0000-1000-8000-00805f9b34fb",
	})
	v.SetDefault("bluetooth.name_prefixes", []string{
		"MPT", "PT-", "Printer", "MTP", "RPP", "InnerPrinter", "BlueTooth Printer",
	})
	v.SetDefault("bluetooth.write_characteristics", []string{
		"00002af1-0000-1000-8000-00805f9b34fb",
		"bef8d6c9-9c21-4c9e-b632-bd58c1009f9f",
		"49535343-8841-43f4-a8d4-ecbe34729bb3",
		"0000ff02-0000-1000-8000-00805f9b34fb",
	})
	v.SetDefault("bluetooth.chunk_size", 100)
	v.SetDefault("bluetooth.chunk_delay", "20ms")
	v.SetDefault("bluetooth.scan_timeout", "10s")

	// Network defaults
	v.SetDefault("network.relay_mode", "direct")
	v.SetDefault("network.default_port", 9100)
	v.SetDefault("network.timeout", "10s")
	v.SetDefault("network.ping_interval", "30s")
	v.SetDefault("network.scan_ranges", []string{})

	// Browser defaults
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", "30s")
	v.SetDefault("browser.dialog_linger", "2m")

	// Relay defaults
	v.SetDefault("relay.service_url", "ws://localhost:8084/ws/relay")
	v.SetDefault("relay.reconnect_delay", "5s")

	// App defaults
	v.SetDefault("app.name", "receipt-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Database.Enabled && config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}

	validEnvs := []string{"development", "staging", "production", "test"}
	if !contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	validPapers := []string{"58mm", "80mm"}
	if !contains(validPapers, config.Printing.DefaultPaper) {
		return fmt.Errorf("printing.default_paper must be one of: %v", validPapers)
	}

	validModes := []string{"direct", "agent"}
	if !contains(validModes, config.Network.RelayMode) {
		return fmt.Errorf("network.relay_mode must be one of: %v", validModes)
	}
	if config.Network.RelayMode == "agent" && config.Relay.AgentKey == "" {
		return fmt.Errorf("relay.agent_key is required in agent mode")
	}

	if config.Bluetooth.ChunkSize <= 0 {
		return fmt.Errorf("bluetooth.chunk_size must be positive")
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Location resolves the receipt timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Printing.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
