// Package config loads the service configuration: client profiles
// mapping a client id to its reference tables and origin stamp.
package config

import (
	"sort"
	"time"

	"github.com/spf13/viper"

	"github.com/rezonia/freight-audit/internal/model"
)

// Config is the whole service configuration.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Redis     RedisConfig             `mapstructure:"redis"`
	Tolerance string                  `mapstructure:"tolerance"`
	Clients   map[string]ClientConfig `mapstructure:"clients"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig selects the batch store backend. An empty Addr keeps
// batches in memory.
type RedisConfig struct {
	Addr string        `mapstructure:"addr"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// ClientConfig is one client's reconciliation profile: which tables
// apply and which origin is stamped onto every invoice of a batch.
type ClientConfig struct {
	Origin      string `mapstructure:"origin"`
	OriginUF    string `mapstructure:"origin_uf"`
	RateTable   string `mapstructure:"rate_table"`
	TaxTable    string `mapstructure:"tax_table"`
	RegionTable string `mapstructure:"region_table"`
}

// Load reads the YAML configuration file.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, model.NewConfigError(configPath, "read config failed", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, model.NewConfigError(configPath, "unmarshal config failed", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every client profile is complete.
func (c *Config) Validate() error {
	if len(c.Clients) == 0 {
		return model.NewConfigError("config", "at least one client profile is required", nil)
	}
	for id, client := range c.Clients {
		if client.Origin == "" || client.OriginUF == "" {
			return model.NewConfigError("clients."+id, "origin and origin_uf are required", nil)
		}
		if client.RateTable == "" {
			return model.NewConfigError("clients."+id, "rate_table is required", nil)
		}
		if client.TaxTable == "" {
			return model.NewConfigError("clients."+id, "tax_table is required", nil)
		}
		if client.RegionTable == "" {
			return model.NewConfigError("clients."+id, "region_table is required", nil)
		}
	}
	return nil
}

// Client resolves one client profile by id.
func (c *Config) Client(id string) (ClientConfig, error) {
	client, ok := c.Clients[id]
	if !ok {
		return ClientConfig{}, model.NewConfigError("clients", "unknown client: "+id, nil)
	}
	return client, nil
}

// ClientIDs lists the configured client ids.
func (c *Config) ClientIDs() []string {
	ids := make([]string, 0, len(c.Clients))
	for id := range c.Clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
