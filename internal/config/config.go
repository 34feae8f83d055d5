package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port              string        `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type QuotesConfig struct {
	EquityBaseURL    string        `yaml:"equity_base_url"`
	ChainBaseURL     string        `yaml:"chain_base_url"`
	Timeout          time.Duration `yaml:"timeout"`
	ChainCacheTTL    time.Duration `yaml:"chain_cache_ttl"`
	EquityRatePerMin int           `yaml:"equity_rate_per_min"`
	ChainRatePerMin  int           `yaml:"chain_rate_per_min"`
}

type ActivityConfig struct {
	Timezone     string `yaml:"timezone"`
	DisplayLimit int    `yaml:"display_limit"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Quotes   QuotesConfig   `yaml:"quotes"`
	Activity ActivityConfig `yaml:"activity"`

	// AdminPassword gates the dashboard, taken from env only.
	AdminPassword string `yaml:"-"`
}

const (
	_portDefault              = "8080"
	_readHeaderTimeoutDefault = 10 * time.Second
	_shutdownTimeoutDefault   = 5 * time.Second

	_timeoutDefault       = 10 * time.Second
	_chainCacheTTLDefault = 1 * time.Hour
	_equityRateDefault    = 60
	_chainRateDefault     = 30
	_timezoneDefault      = "America/New_York"
	_displayLimitDefault  = 15
)

func (c *QuotesConfig) Setup() error {
	if c.EquityBaseURL == "" {
		return fmt.Errorf("equity_base_url is required")
	}
	if _, err := url.Parse(c.EquityBaseURL); err != nil {
		return err
	}
	if c.ChainBaseURL == "" {
		return fmt.Errorf("chain_base_url is required")
	}
	if _, err := url.Parse(c.ChainBaseURL); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		c.Timeout = _timeoutDefault
	}
	if c.ChainCacheTTL <= 0 {
		c.ChainCacheTTL = _chainCacheTTLDefault
	}
	if c.EquityRatePerMin <= 0 {
		c.EquityRatePerMin = _equityRateDefault
	}
	if c.ChainRatePerMin <= 0 {
		c.ChainRatePerMin = _chainRateDefault
	}

	return nil
}

func (c *ActivityConfig) Setup() {
	if c.Timezone == "" {
		c.Timezone = _timezoneDefault
	}
	if c.DisplayLimit <= 0 {
		c.DisplayLimit = _displayLimitDefault
	}
}

func (c *ServerConfig) Setup() {
	if c.Port == "" {
		c.Port = _portDefault
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = _readHeaderTimeoutDefault
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = _shutdownTimeoutDefault
	}
}

func (c *Config) ValidateAndSetup() error {
	c.Server.Setup()

	if err := c.Quotes.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup quotes", err)
	}
	c.Activity.Setup()

	c.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if c.AdminPassword == "" {
		return fmt.Errorf("empty admin password")
	}

	return nil
}

func LoadConfig(filename string) (Config, error) {
	var cfg Config
	input, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
