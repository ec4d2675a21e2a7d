package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Setenv("FOCUSBOARD_DB", "")
	c := Default()
	assert.Equal(t, 5*time.Second, c.ReportInterval)
	assert.Equal(t, 200*time.Millisecond, c.TimerTick)
	assert.Equal(t, 450*time.Millisecond, c.BlinkInterval)
	assert.Equal(t, 60, c.FrameRate)
	assert.NoError(t, c.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.ReportInterval)
}

func TestLoadOverridesAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
db_path: /tmp/tasks.db
report_interval: 10s
timer_tick: 100ms
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("FOCUSBOARD_LOG_LEVEL", "warn")
	t.Setenv("FOCUSBOARD_DB", "")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tasks.db", c.DBPath)
	assert.Equal(t, 10*time.Second, c.ReportInterval)
	assert.Equal(t, 100*time.Millisecond, c.TimerTick)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, "warn", c.Logging.Level, "env must win over file")
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame_rate: 0\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("report_interval: [1"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	c := Default()
	c.ReportInterval = 7 * time.Second
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, loaded.ReportInterval)
}

func TestFrameInterval(t *testing.T) {
	c := Default()
	c.FrameRate = 50
	assert.Equal(t, 20*time.Millisecond, c.FrameInterval())
}
