// Package config loads the nzdialect CLI configuration from a TOML file and
// the environment. Command line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvURL overrides the connection URL of the config file.
const EnvURL = "NZDIALECT_URL"

// Config is the [connection] and [output] settings of nzdialect.toml.
type Config struct {
	Connection Connection `toml:"connection"`
	Output     Output     `toml:"output"`
}

// Connection holds the database to talk to.
type Connection struct {
	URL    string `toml:"url"`
	Driver string `toml:"driver"`
	// Schema restricts reflection to one schema.
	Schema string `toml:"schema"`
}

// Output holds formatting defaults.
type Output struct {
	Format string `toml:"format"`
}

// Load reads the file at path and applies the environment. An empty path
// yields the environment on top of zero values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %q: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("config: %q has unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides settings from the environment read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvURL); ok && strings.TrimSpace(v) != "" {
		c.Connection.URL = strings.TrimSpace(v)
	}
}
