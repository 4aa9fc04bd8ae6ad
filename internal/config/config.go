package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	API API `yaml:"api"`

	Realtime Realtime `yaml:"realtime"`

	Tracking Tracking `yaml:"tracking"`
}

type API struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // In seconds
}

type Realtime struct {
	URL            string `yaml:"url"`
	ReconnectDelay int    `yaml:"reconnect_delay"` // In seconds
	// MaxRetries caps reconnect attempts per outage; 0 means unbounded
	MaxRetries int `yaml:"max_retries"`
}

type Tracking struct {
	PollInterval int `yaml:"poll_interval"` // In seconds
}

func Load() (*Config, error) {
	configPath := "configs/development.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = 15
	}
	if c.Realtime.ReconnectDelay == 0 {
		c.Realtime.ReconnectDelay = 3
	}
	if c.Tracking.PollInterval == 0 {
		c.Tracking.PollInterval = 3
	}
}

func (a API) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

func (r Realtime) ReconnectDelayDuration() time.Duration {
	return time.Duration(r.ReconnectDelay) * time.Second
}

func (t Tracking) PollIntervalDuration() time.Duration {
	return time.Duration(t.PollInterval) * time.Second
}
