package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Report.Event)
	assert.Nil(t, cfg.Report.Timezone)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigReportSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[report]
event = 4
timezone = "Asia/Jakarta"
format = "json"
community-limit = 10
color = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Report.Event)
	assert.Equal(t, int64(4), *cfg.Report.Event)
	assert.Equal(t, "Asia/Jakarta", *cfg.Report.Timezone)
	assert.Equal(t, "json", *cfg.Report.Format)
	assert.Equal(t, 10, *cfg.Report.CommunityLimit)
	assert.True(t, *cfg.Report.Color)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[report]\nlang = \"en\"\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.lang")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RACEREPORT_DB", "/tmp/custom.db")
	t.Setenv("RACEREPORT_CONFIG", "")
	t.Setenv("RACEREPORT_TZ", "Asia/Jayapura")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", env.ResolveDBPath())
	assert.Equal(t, filepath.Join("/xdg/config", "racereport", "config.toml"), env.ResolveConfigPath())
	assert.Equal(t, "Asia/Jayapura", env.Timezone)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	assert.Equal(t, filepath.Join("/xdg/data", "racereport", "racereport.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/xdg/config", "racereport", "config.toml"), DefaultConfigPath())
}
