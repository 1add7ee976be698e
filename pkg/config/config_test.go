package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendFirestore, cfg.Backend)
	assert.Equal(t, "tasks", cfg.Firestore.Collection)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Sheet1", cfg.GSheets.Range)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: xlsx\nxlsx:\n  path: /tmp/tasks.xlsx\nserver:\n  port: 9000\n"), 0600))
	t.Setenv("AUDITBOARD_SERVER_PORT", "9100")
	t.Setenv("AUDITBOARD_LOG_LEVEL", "debug")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, BackendXLSX, cfg.Backend)
	assert.Equal(t, "/tmp/tasks.xlsx", cfg.XLSX.Path)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AUDITBOARD_BACKEND", "postgres")

	_, err := Load("")

	assert.ErrorContains(t, err, "unknown backend")
}

func TestValidateRequiresBackendSettings(t *testing.T) {
	assert.Error(t, (&Config{Backend: BackendXLSX}).Validate())
	assert.Error(t, (&Config{Backend: BackendGSheets}).Validate())
	assert.NoError(t, (&Config{Backend: BackendMemory}).Validate())
}

func TestSetKeepsExistingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, Set(path, "backend", BackendMemory))
	require.NoError(t, Set(path, "memory.path", "/tmp/tasks.json"))

	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "/tmp/tasks.json", cfg.Memory.Path)
}
