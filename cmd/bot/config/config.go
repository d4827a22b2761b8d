// Package config loads the bot configuration from defaults, a YAML file, the environment and flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Jacobbrewer1/supportdesk/pkg/dispatch"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/setup"
	"github.com/Jacobbrewer1/supportdesk/pkg/tickets"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Store selects and configures the store backend.
type Store struct {
	// Driver is one of mongo, postgres or sqlite.
	Driver string `yaml:"driver"`

	// MongoURI is the connection string of the mongo deployment.
	MongoURI string `yaml:"-"`

	// MongoDatabase is the mongo database holding the collections.
	MongoDatabase string `yaml:"mongo_database"`

	// DSN is the data source name of the SQL database.
	DSN string `yaml:"dsn"`

	// MaxOpenConns bounds the SQL connection pool. Zero leaves the driver default.
	MaxOpenConns int `yaml:"max_open_conns"`
}

// Config is the configuration of the bot.
type Config struct {
	// BotToken is the token for the bot. Only read from the environment.
	BotToken string `yaml:"-"`

	// ApplicationId is the ID of the application. Only read from the environment.
	ApplicationId string `yaml:"-"`

	// MonitoringPort is the port of the metrics and health server.
	MonitoringPort string `yaml:"monitoring_port"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	Store     Store          `yaml:"store"`
	Tickets   tickets.Config `yaml:"tickets"`
	Setup     setup.Config   `yaml:"setup"`
	RateLimit dispatch.Limit `yaml:"rate_limit"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		MonitoringPort: defaultMonitoringPort,
		LogLevel:       defaultLogLevel,
		Store: Store{
			Driver:        DriverMongo,
			MongoDatabase: defaultMongoDatabase,
		},
		Tickets:   tickets.DefaultConfig(),
		Setup:     setup.DefaultConfig(),
		RateLimit: dispatch.DefaultLimit(),
	}
}

// Load builds the configuration from the command line arguments and the environment.
func Load(args []string, getenv func(string) string) (*Config, error) {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	configFile := fs.String("config", getenv(EnvConfigFile), "path of the YAML tunables file")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	driver := fs.String("store", "", "store backend (mongo, postgres, sqlite)")
	port := fs.String("monitoring-port", "", "port of the metrics and health server")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := Default()
	if *configFile != "" {
		if err := cfg.readFile(*configFile); err != nil {
			return nil, err
		}
	}

	cfg.readEnv(getenv)

	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("store") {
		cfg.Store.Driver = *driver
	}
	if fs.Changed("monitoring-port") {
		cfg.MonitoringPort = *port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error decoding config file: %w", err)
	}
	return nil
}

func (c *Config) readEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.BotToken, EnvBotToken)
	set(&c.ApplicationId, EnvApplicationId)
	set(&c.MonitoringPort, EnvMonitoringPort)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Store.Driver, EnvStoreDriver)
	set(&c.Store.MongoURI, EnvMongoUri)
	set(&c.Store.DSN, EnvDatabaseDsn)
}

// Validate rejects incomplete or contradictory configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.BotToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvBotToken))
	}
	if c.ApplicationId == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvApplicationId))
	}
	if c.MonitoringPort == "" {
		errs = append(errs, errors.New("monitoring port is required"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, fmt.Errorf("%s is required for the %s store", EnvMongoUri, DriverMongo))
		}
	case DriverPostgres, DriverSqlite:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("%s is required for the %s store", EnvDatabaseDsn, c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q, expected one of %v", c.Store.Driver, drivers()))
	}

	if err := c.Tickets.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Setup.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("rate limit burst must not be negative, got %d", c.RateLimit.Burst))
	} else if c.RateLimit.Burst > 0 && c.RateLimit.Interval <= 0 {
		errs = append(errs, fmt.Errorf("rate limit interval must be positive, got %s", c.RateLimit.Interval))
	}

	return errors.Join(errs...)
}

func drivers() []string {
	return []string{DriverMongo, DriverPostgres, DriverSqlite}
}
