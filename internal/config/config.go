package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	// IPs or CIDRs whose forwarding headers name the real client
	TrustedProxies  []string

	LogLevel string

	// Persistence
	DataBackend  string
	DataFile     string
	SQLiteDBPath string

	// AMQP, disabled when URL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// fileConfig mirrors the optional TOML file. Unset keys keep their defaults.
type fileConfig struct {
	Server struct {
		Port            string   `toml:"port"`
		LogLevel        string   `toml:"log_level"`
		ShutdownTimeout string   `toml:"shutdown_timeout"`
		TrustedProxies  []string `toml:"trusted_proxies"`
	} `toml:"server"`
	Storage struct {
		Backend    string `toml:"backend"`
		DataFile   string `toml:"data_file"`
		SQLitePath string `toml:"sqlite_path"`
	} `toml:"storage"`
	AMQP struct {
		URL      string `toml:"url"`
		Exchange string `toml:"exchange"`
		Queue    string `toml:"queue"`
	} `toml:"amqp"`
	Sheets struct {
		SpreadsheetID      string `toml:"spreadsheet_id"`
		SheetName          string `toml:"sheet_name"`
		ServiceAccountFile string `toml:"service_account_file"`
	} `toml:"sheets"`
}

func Default() *Config {
	return &Config{
		Port:            "8081",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		DataBackend:     BackendJSON,
		DataFile:        "shift_data.json",
		SQLiteDBPath:    "./data/shiftpay.db",
		AMQPExchange:    "shiftpay",
		AMQPQueue:       "ledger_events",
		GoogleSheetName: "Shifts",
	}
}

// Path returns SHIFTPAY_CONFIG when set, otherwise shiftpay/config.toml under
// the user config directory.
func Path() (string, error) {
	if p := os.Getenv("SHIFTPAY_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "shiftpay", "config.toml"), nil
}

// Load builds the configuration from defaults, then the TOML file if present,
// then the environment.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	if path == "" {
		return nil
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Server.Port)
	setString(&c.LogLevel, fc.Server.LogLevel)
	if fc.Server.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.Server.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: shutdown_timeout: %w", path, err)
		}
		c.ShutdownTimeout = d
	}
	if len(fc.Server.TrustedProxies) > 0 {
		c.TrustedProxies = fc.Server.TrustedProxies
	}
	setString(&c.DataBackend, fc.Storage.Backend)
	setString(&c.DataFile, fc.Storage.DataFile)
	setString(&c.SQLiteDBPath, fc.Storage.SQLitePath)
	setString(&c.AMQPURL, fc.AMQP.URL)
	setString(&c.AMQPExchange, fc.AMQP.Exchange)
	setString(&c.AMQPQueue, fc.AMQP.Queue)
	setString(&c.GoogleSpreadsheetID, fc.Sheets.SpreadsheetID)
	setString(&c.GoogleSheetName, fc.Sheets.SheetName)
	setString(&c.GoogleServiceAccountFile, fc.Sheets.ServiceAccountFile)
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		c.TrustedProxies = splitList(v)
	}

	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.DataFile = getEnv("DATA_FILE", c.DataFile)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)

	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)

	c.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", c.GoogleSpreadsheetID)
	c.GoogleSheetName = getEnv("GOOGLE_SHEET_NAME", c.GoogleSheetName)
	c.GoogleServiceAccountJSON = getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", c.GoogleServiceAccountJSON)
	c.GoogleServiceAccountFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleServiceAccountFile)
	c.GoogleServiceAccountFile = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", c.GoogleServiceAccountFile)
}

// SheetsEnabled reports whether a spreadsheet is configured for export.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	validBackends := []string{BackendJSON, BackendSQLite}
	switch c.DataBackend {
	case BackendJSON:
		if c.DataFile == "" {
			problems = append(problems, "data file cannot be empty when using json backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() && c.GoogleSheetName == "" {
		problems = append(problems, "Google Sheet name is required when a spreadsheet ID is set")
	}

	if _, err := c.TrustedProxyPrefixes(); err != nil {
		problems = append(problems, err.Error())
	}

	if c.ShutdownTimeout < time.Second {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

// TrustedProxyPrefixes parses TrustedProxies. A bare IP becomes a single-host
// prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy '%s': %v", entry, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy '%s': %v", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
