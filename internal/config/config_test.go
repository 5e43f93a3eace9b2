package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/agenda/internal/notify"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Timer.SuppressWindow)
	assert.Equal(t, time.Minute, cfg.Timer.ExtendSmall)
	assert.Equal(t, 5*time.Minute, cfg.Timer.ExtendLarge)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, notify.Undecided, cfg.Permission())
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /tmp/agenda-data
theme: neon
timer:
  extend_small: 30s
notifications:
  mode: always
alarm:
  command: paplay /usr/share/sounds/bell.oga
`), 0o644))
	t.Setenv("AGENDA_THEME", "mono")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/agenda-data", cfg.DataDir)
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, 30*time.Second, cfg.Timer.ExtendSmall)
	assert.Equal(t, notify.Granted, cfg.Permission())
	assert.Equal(t, "paplay /usr/share/sounds/bell.oga", cfg.Alarm.Command)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notifications:\n  mode: loud\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown notification mode")
}
