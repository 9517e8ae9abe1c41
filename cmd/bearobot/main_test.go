package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/bearobot/internal/logger"
)

const validConfig = `
[discord]
token = "${BEAROBOT_TEST_TOKEN:a.b.c}"

[logging]
level = "info"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCommandStructure(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["config"])
	assert.True(t, names["version"])

	validate, _, err := rootCmd.Find([]string{"config", "validate"})
	require.NoError(t, err)
	assert.Equal(t, "validate", validate.Name())
}

func TestServeCmdFlags(t *testing.T) {
	require.NoError(t, serveCmd.ParseFlags([]string{"-c", "custom.toml", "-l", "debug", "-e", "prod.env"}))
	t.Cleanup(func() {
		serveConfigPath, serveLogLevel, serveEnvPath = "./config.toml", "", "./.env"
	})

	assert.Equal(t, "custom.toml", serveConfigPath)
	assert.Equal(t, "debug", serveLogLevel)
	assert.Equal(t, "prod.env", serveEnvPath)
}

func TestVersionCmd(t *testing.T) {
	buf := &bytes.Buffer{}
	versionCmd.SetOut(buf)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, buf.String(), "Bearobot - Discord moderation bot")
	assert.Contains(t, buf.String(), "Version: ")
}

func TestLoadServeConfig(t *testing.T) {
	t.Run("valid with level override", func(t *testing.T) {
		cfgPath := writeFile(t, "config.toml", validConfig)

		cfg, err := loadServeConfig(filepath.Join(t.TempDir(), "missing.env"), cfgPath, "debug")

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "a.b.c", cfg.Discord.Token)
	})

	t.Run("dotenv supplies the token", func(t *testing.T) {
		envPath := writeFile(t, ".env", "BEAROBOT_TEST_TOKEN=x.y.z\n")
		cfgPath := writeFile(t, "config.toml", validConfig)
		t.Cleanup(func() { _ = os.Unsetenv("BEAROBOT_TEST_TOKEN") })

		cfg, err := loadServeConfig(envPath, cfgPath, "")

		require.NoError(t, err)
		assert.Equal(t, "x.y.z", cfg.Discord.Token)
	})

	t.Run("validation failures are collected", func(t *testing.T) {
		cfgPath := writeFile(t, "config.toml", "[discord]\ntoken = \"\"\n")

		_, err := loadServeConfig("", cfgPath, "verbose")

		var invalid validationFailure
		require.True(t, errors.As(err, &invalid))
		assert.GreaterOrEqual(t, len(invalid), 2)
		assert.Contains(t, invalid.Error(), "Configuration validation failed")
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := loadServeConfig("", filepath.Join(t.TempDir(), "nope.toml"), "")
		require.Error(t, err)

		var invalid validationFailure
		assert.False(t, errors.As(err, &invalid))
	})
}

func TestValidateConfigFile(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewWithWriter(buf, "info")

	assert.Empty(t, validateConfigFile(log, writeFile(t, "ok.toml", validConfig)))
	assert.Contains(t, buf.String(), "Configuration is valid")

	errs := validateConfigFile(log, writeFile(t, "bad.toml", "[purge]\nbulk_delay_ms = -1\n"))
	assert.NotEmpty(t, errs)
	assert.Contains(t, buf.String(), "Validation error")
}
