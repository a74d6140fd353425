package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Defaults used when neither the file nor the command line sets a value.
const (
	DefaultAddress  = "148.113.158.63:25001"
	DefaultClientID = "669a8bbde0c9ffb3c8cb228c"
	DefaultStrategy = "last-empty"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	// Address is host:port for TCP or a ws:// / wss:// URL.
	Address     string        `yaml:"address"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	// ReadTimeout of 0 blocks on the server forever.
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type ClientConfig struct {
	UUID         string `yaml:"uuid"`
	Strategy     string `yaml:"strategy"`
	Seed         int64  `yaml:"seed"`
	MaxLineBytes int    `yaml:"max_line_bytes"`
}

type JournalConfig struct {
	// Path of the SQLite journal. Empty disables journaling.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Development bool `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Address: DefaultAddress},
		Client: ClientConfig{UUID: DefaultClientID, Strategy: DefaultStrategy},
	}
}

// Parse reads YAML over the defaults. Keys missing from data keep their
// default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads the YAML file at path. An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must be set")
	}
	if c.Client.UUID == "" {
		return fmt.Errorf("client.uuid must be set")
	}
	if c.Client.Strategy == "" {
		return fmt.Errorf("client.strategy must be set")
	}
	if c.Server.DialTimeout < 0 || c.Server.ReadTimeout < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}
	if c.Client.MaxLineBytes < 0 {
		return fmt.Errorf("client.max_line_bytes must be >= 0")
	}
	return nil
}
