package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_TomlAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 8080

[schedule]
weekday = 1
hour = 9
`), 0644))

	t.Setenv("WEEKBOARD_LOG_LEVEL", "debug")
	t.Setenv("WEEKBOARD_UPLOAD_DIR", "/srv/reports")

	cfg, info, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1, cfg.Schedule.Weekday)
	assert.Equal(t, 9, cfg.Schedule.Hour)
	assert.Equal(t, "Asia/Shanghai", cfg.Schedule.TimeZone)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/srv/reports", cfg.Data.UploadDir)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WEEKBOARD_PORT=9100\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("WEEKBOARD_PORT") })

	cfg, info, err := LoadFrom(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport="), 0644))

	_, _, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 1234
	cfg.Log.File = "weekboard.log"
	require.NoError(t, SaveConfig(cfg, path))

	back, info, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, cfg, back)
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Data.DataDir, dir)
	for _, sub := range []string{UploadsDir, ArchiveDir, ExportsDir, BackupsDir} {
		assert.DirExists(t, filepath.Join(dir, sub))
	}

	assert.Equal(t, filepath.Join(dir, UploadsDir), UploadDir(cfg, dir))
	assert.Equal(t, filepath.Join(dir, ArchiveDir), ArchivePath(dir))
	cfg.Data.UploadDir = "/elsewhere"
	assert.Equal(t, "/elsewhere", UploadDir(cfg, dir))
}
