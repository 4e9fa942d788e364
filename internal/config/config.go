package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "168h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		// The two token classes are signed with independent secrets so a
		// leaked refresh secret cannot forge access tokens or vice versa.
		AccessTokenSecret  string   `yaml:"access_token_secret"`
		RefreshTokenSecret string   `yaml:"refresh_token_secret"`
		AccessTokenTTL     Duration `yaml:"access_token_ttl"`
		RefreshTokenTTL    Duration `yaml:"refresh_token_ttl"`
	} `yaml:"auth"`
	Password struct {
		BcryptCost          int   `yaml:"bcrypt_cost"`
		MaxConcurrentHashes int64 `yaml:"max_concurrent_hashes"`
	} `yaml:"password"`
}

// Defaults preserved from the deployed service: the access token outlives the
// refresh token (8760h vs 168h). Unconventional, but intentional and kept as
// configuration rather than silently flipped.
const (
	DefaultAccessTokenTTL      = 8760 * time.Hour
	DefaultRefreshTokenTTL     = 168 * time.Hour
	DefaultBcryptCost          = 10
	DefaultMaxConcurrentHashes = 4
)

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = Duration(DefaultAccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL == 0 {
		c.Auth.RefreshTokenTTL = Duration(DefaultRefreshTokenTTL)
	}
	if c.Password.BcryptCost == 0 {
		c.Password.BcryptCost = DefaultBcryptCost
	}
	if c.Password.MaxConcurrentHashes == 0 {
		c.Password.MaxConcurrentHashes = DefaultMaxConcurrentHashes
	}
	if c.Server.Port == "" {
		c.Server.Port = ":3000"
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Auth.AccessTokenSecret == "" || c.Auth.RefreshTokenSecret == "" {
		return fmt.Errorf("auth.access_token_secret and auth.refresh_token_secret are required")
	}
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return fmt.Errorf("auth token secrets must differ")
	}
	return nil
}
