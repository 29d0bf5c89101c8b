package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFile(t *testing.T) {
	v, err := Load(t.TempDir(), "missing")
	require.NoError(t, err)

	SetDefaults(v, map[string]any{"server.port": 8090})
	assert.Equal(t, 8090, v.GetInt("server.port"))
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	body := []byte("server:\n  port: 9000\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o600))

	v, err := Load(dir, "config")
	require.NoError(t, err)
	assert.Equal(t, 9000, v.GetInt("server.port"))
	assert.Equal(t, "debug", v.GetString("log.level"))
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0o600))

	_, err := Load(dir, "config")
	assert.Error(t, err)
}

func TestBindEnvs(t *testing.T) {
	t.Setenv("CHATROOM_TEST_PORT", "7001")

	v, err := Load(t.TempDir(), "missing")
	require.NoError(t, err)
	require.NoError(t, BindEnvs(v, map[string]string{"server.port": "CHATROOM_TEST_PORT"}))

	assert.Equal(t, 7001, v.GetInt("server.port"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CHATROOM_TEST_SET", "value")
	assert.Equal(t, "value", GetEnv("CHATROOM_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CHATROOM_TEST_UNSET", "fallback"))
}
