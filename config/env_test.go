package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("LIBRARY_TEST_SET", "value")
	t.Setenv("LIBRARY_TEST_EMPTY", "")

	assert.Equal(t, "value", GetEnv("LIBRARY_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnv("LIBRARY_TEST_EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("LIBRARY_TEST_UNSET_123", "fallback"))
	assert.Equal(t, "", GetEnv("LIBRARY_TEST_UNSET_123"))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LIBRARY_TEST_FROM_FILE=yes\nLIBRARY_TEST_KEEP=file\n"), 0o600))
	t.Setenv("LIBRARY_TEST_KEEP", "process")
	t.Cleanup(func() { _ = os.Unsetenv("LIBRARY_TEST_FROM_FILE") })

	LoadEnv(path)

	assert.Equal(t, "yes", os.Getenv("LIBRARY_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("LIBRARY_TEST_KEEP"))
}

func TestLoadEnvMissingFile(t *testing.T) {
	LoadEnv(filepath.Join(t.TempDir(), "nope.env"))
}
