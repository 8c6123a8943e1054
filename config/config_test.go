package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseArgs(t *testing.T, args ...string) Config {
	t.Helper()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := parse(fs, args)
	require.NoError(t, err)
	return cfg
}

func TestParse_Defaults(t *testing.T) {
	cfg := parseArgs(t)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "dynform.sqlite", cfg.DBUrl)
	assert.Equal(t, "", cfg.TokenSecret)
	assert.Equal(t, 120*time.Second, cfg.TokenTTL)
	assert.False(t, cfg.Debug)
}

func TestParse_Flags(t *testing.T) {
	cfg := parseArgs(t, "-host", "127.0.0.1", "-port", "9000", "-db-url", "x.sqlite", "-token-secret", "s", "-debug")

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "x.sqlite", cfg.DBUrl)
	assert.Equal(t, "s", cfg.TokenSecret)
	assert.True(t, cfg.Debug)
}

func TestParse_FileProvidesValuesFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"host: 10.0.0.1\nport: 9999\ndb_url: file.sqlite\ntoken_secret: filesecret\ntoken_ttl: 300\ndebug: true\n",
	), 0o600))

	cfg := parseArgs(t, "-config", path)
	assert.Equal(t, "10.0.0.1:9999", cfg.Addr)
	assert.Equal(t, "file.sqlite", cfg.DBUrl)
	assert.Equal(t, "filesecret", cfg.TokenSecret)
	assert.Equal(t, 300*time.Second, cfg.TokenTTL)
	assert.True(t, cfg.Debug)

	// explicit flags override the file
	cfg = parseArgs(t, "-config", path, "-port", "1234", "-token-secret", "flagsecret")
	assert.Equal(t, "10.0.0.1:1234", cfg.Addr)
	assert.Equal(t, "flagsecret", cfg.TokenSecret)
	assert.Equal(t, "file.sqlite", cfg.DBUrl)
}

func TestParse_MissingFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	_, err := parse(fs, []string{"-config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestUrl(t *testing.T) {
	cfg := Config{Addr: "0.0.0.0:8080"}
	assert.Equal(t, "http://localhost:8080", cfg.Url())

	cfg = Config{Addr: "example.com:80"}
	assert.Equal(t, "http://example.com:80", cfg.Url())
}
