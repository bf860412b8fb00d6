// Package config loads the optional YAML file holding the command's
// defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default location of the config file.
const EnvConfigPath = "SNEK_CONFIG"

type Config struct {
	DefaultHeaders map[string]string `yaml:"default_headers"`
	MaxRedirects   *int              `yaml:"max_redirects"`
	UserAgent      string            `yaml:"user_agent"`
	Pretty         string            `yaml:"pretty"`
	LogFile        string            `yaml:"log_file"`
}

// Path returns the file to load: the provided path, then $SNEK_CONFIG, then
// snek/config.yaml under the user config directory.
func Path(provided string) string {
	if provided != "" {
		return provided
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "snek", "config.yaml")
}

// Load reads the config file. A missing file at the default location is an
// empty config; a missing file that was asked for explicitly is an error.
func Load(provided string, logger zerolog.Logger) (*Config, error) {
	path := Path(provided)
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && provided == "" && os.Getenv(EnvConfigPath) == "" {
		logger.Debug().Str("path", path).Msg("no config file, using defaults")
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file '%s'", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config file '%s'", path)
	}
	logger.Debug().Str("path", path).Msg("loaded config file")
	return cfg, nil
}

// Parse decodes and validates a config document. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding YAML")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxRedirects != nil && *c.MaxRedirects < 0 {
		return errors.Errorf("max_redirects must not be negative: %d", *c.MaxRedirects)
	}
	switch c.Pretty {
	case "", "all", "format", "none":
	default:
		return errors.Errorf("pretty must be one of all, format or none: %s", c.Pretty)
	}
	return nil
}
