// Package config loads server configuration from a TOML file with
// environment-variable overrides for the fields that commonly differ
// per deployment (endpoint, token, default project).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Env override names.
const (
	EnvEndpoint = "LUMECUE_ENDPOINT"
	EnvToken    = "LUMECUE_TOKEN"
	EnvProject  = "LUMECUE_PROJECT"
)

// Config is the root configuration.
type Config struct {
	Service ServiceConf `toml:"service"`
	Library LibraryConf `toml:"library"`
	Log     LogConf     `toml:"log"`
}

// ServiceConf configures the connection to the lighting-control service.
type ServiceConf struct {
	// Endpoint is the GraphQL endpoint of the control service.
	Endpoint string `toml:"endpoint"`
	// Token is an optional bearer token.
	Token string `toml:"token"`
	// DefaultProject is the project ID used by resources and as the
	// fallback when a tool call omits project_id.
	DefaultProject string `toml:"default-project"`
}

// LibraryConf configures the local fixture-definition library.
type LibraryConf struct {
	DataDir string `toml:"data-dir"`
}

// LogConf configures logging.
type LogConf struct {
	Level string `toml:"level"`
}

// Default returns the configuration defaults.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Service: ServiceConf{
			Endpoint: "http://localhost:4000/graphql",
		},
		Library: LibraryConf{
			DataDir: filepath.Join(home, ".lumecue"),
		},
		Log: LogConf{
			Level: "info",
		},
	}
}

// DefaultPath is where Load looks when no -config flag is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lumecue", "config.toml")
}

// Load reads the TOML file at path, layered over defaults, then applies
// env overrides. A missing file is not an error — defaults plus env are
// a complete configuration for a local setup — unless explicit is true
// (the user asked for that specific file).
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if explicit {
			return nil, fmt.Errorf("config: %s does not exist", path)
		}
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Service.Endpoint = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Service.Token = v
	}
	if v := os.Getenv(EnvProject); v != "" {
		cfg.Service.DefaultProject = v
	}

	return &cfg, nil
}
