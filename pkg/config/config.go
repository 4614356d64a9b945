// Package config loads the storefront settings from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Cache    CacheConfig    `yaml:"cache"`
	Tracking TrackingConfig `yaml:"tracking"`
	Server   ServerConfig   `yaml:"server"`
}

type CatalogConfig struct {
	Url     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig leaves the list cache in memory when RedisUrl is empty.
type CacheConfig struct {
	RedisUrl      string        `yaml:"redis_url"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// TrackingConfig disables tracking when RabbitUrl is empty.
type TrackingConfig struct {
	RabbitUrl string `yaml:"rabbit_url"`
	Country   string `yaml:"country"`
}

type ServerConfig struct {
	ListenAddress string `yaml:"listen_address"`
	DebugAddress  string `yaml:"debug_address"`
	ProductsFile  string `yaml:"products_file"`
}

func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Url:     "http://localhost:5500",
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Tracking: TrackingConfig{
			Country: "se",
		},
		Server: ServerConfig{
			ListenAddress: ":5500",
			DebugAddress:  ":8081",
			ProductsFile:  "data/products.json",
		},
	}
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Load reads path when given, then applies the environment and validates.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		var err error
		if config, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides settings with the environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(name string, target *string) {
		if v := getenv(name); v != "" {
			*target = v
		}
	}
	setDuration := func(name string, target *time.Duration) error {
		v := getenv(name)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*target = d
		return nil
	}

	setString("CATALOG_URL", &c.Catalog.Url)
	setString("STOREFRONT_TOKEN", &c.Catalog.Token)
	setString("REDIS_URL", &c.Cache.RedisUrl)
	setString("REDIS_PASSWORD", &c.Cache.RedisPassword)
	setString("RABBIT_URL", &c.Tracking.RabbitUrl)
	setString("TRACKING_COUNTRY", &c.Tracking.Country)
	setString("LISTEN_ADDRESS", &c.Server.ListenAddress)
	setString("DEBUG_ADDRESS", &c.Server.DebugAddress)
	setString("PRODUCTS_FILE", &c.Server.ProductsFile)
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Cache.RedisDB = db
	}
	return errors.Join(
		setDuration("HTTP_TIMEOUT", &c.Catalog.Timeout),
		setDuration("LIST_CACHE_TTL", &c.Cache.TTL),
	)
}

func (c *Config) Validate() error {
	if c.Catalog.Url == "" {
		return fmt.Errorf("catalog.url is required")
	}
	u, err := url.Parse(c.Catalog.Url)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("catalog.url %q is not an absolute url", c.Catalog.Url)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	return nil
}
