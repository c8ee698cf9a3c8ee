package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// TestContext creates a test context with timeout
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// LoadTOMLConfig writes content to a temporary spawnc.toml and points the
// global viper instance at it.
func LoadTOMLConfig(t *testing.T, content string) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "spawnc.toml")

	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	viper.Reset()
	viper.SetConfigFile(configFile)
	err = viper.ReadInConfig()
	require.NoError(t, err)

	t.Cleanup(viper.Reset)
}
