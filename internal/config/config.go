// Package config loads application settings from an optional YAML file and
// WEALTHFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/simaogato/wealthflow-analytics/internal/pkg/currency"
)

type ServerConfig struct {
	Address  string `mapstructure:"address"`
	APIToken string `mapstructure:"api_token"`
}

type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnectionString returns DSN when set, otherwise builds one from the individual fields
func (c PostgresConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type SQLiteConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type MarketDataConfig struct {
	// PriceSheet is a YAML/JSON file of static quotes; empty means no quotes
	PriceSheet string `mapstructure:"price_sheet"`
}

type FinanceConfig struct {
	Currency       string          `mapstructure:"currency"`
	OpeningBalance decimal.Decimal `mapstructure:"-"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite"`
	Log        LogConfig        `mapstructure:"log"`
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Finance    FinanceConfig    `mapstructure:"finance"`
}

var (
	appConfig *Config
	once      sync.Once
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.api_token", "dev-token")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.name", "wealthflow")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("sqlite.path", "wealthflow.db")
	v.SetDefault("sqlite.log_mode", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("market_data.price_sheet", "")

	v.SetDefault("finance.currency", currency.DefaultCode)
	v.SetDefault("finance.opening_balance", "0")
}

// Read builds a configuration without touching the process-wide one.
// If path is empty, "wealthflow.yaml" in the working directory is used when it
// exists; a missing default file is not an error.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("wealthflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. WEALTHFLOW_SERVER_ADDRESS=:9000
	v.SetEnvPrefix("WEALTHFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	opening, err := decimal.NewFromString(v.GetString("finance.opening_balance"))
	if err != nil {
		return nil, fmt.Errorf("invalid finance.opening_balance: %w", err)
	}
	c.Finance.OpeningBalance = opening

	if !currency.Valid(c.Finance.Currency) {
		return nil, fmt.Errorf("unknown currency %q", c.Finance.Currency)
	}

	return &c, nil
}

// Load reads the configuration once and keeps it for Get.
// Later calls return the first result whatever their path.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		appConfig, err = Read(path)
	})

	if err != nil {
		return nil, err
	}
	if appConfig == nil {
		return nil, errors.New("config failed to load")
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
