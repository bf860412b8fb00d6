package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
default_headers:
  X-Team: snek
  Accept: application/json
max_redirects: 5
user_agent: snek-cli/1.0
pretty: format
log_file: /tmp/snek.log
`)

	cfg, err := Parse(data)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"X-Team": "snek", "Accept": "application/json"}, cfg.DefaultHeaders)
	require.NotNil(t, cfg.MaxRedirects)
	assert.Equal(t, 5, *cfg.MaxRedirects)
	assert.Equal(t, "snek-cli/1.0", cfg.UserAgent)
	assert.Equal(t, "format", cfg.Pretty)
	assert.Equal(t, "/tmp/snek.log", cfg.LogFile)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)

	require.NoError(t, err)
	assert.Nil(t, cfg.MaxRedirects)
	assert.Empty(t, cfg.DefaultHeaders)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		title string
		data  string
	}{
		{title: "Unknown key", data: "timeout: 3s\n"},
		{title: "Negative redirects", data: "max_redirects: -1\n"},
		{title: "Unknown pretty style", data: "pretty: rainbow\n"},
		{title: "Not a mapping", data: "- a\n- b\n"},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/snek.yaml")
	assert.Equal(t, "/flag.yaml", Path("/flag.yaml"))
	assert.Equal(t, "/etc/snek.yaml", Path(""))

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/home/snek/.config")
	if dir, err := os.UserConfigDir(); err == nil {
		assert.Equal(t, filepath.Join(dir, "snek", "config.yaml"), Path(""))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_agent: from-file\n"), 0o600))

	cfg, err := Load(path, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.UserAgent)
}

func TestLoad_Missing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	cfg, err := Load("", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	_, err = Load(filepath.Join(dir, "explicit.yaml"), zerolog.Nop())
	assert.Error(t, err)
}
