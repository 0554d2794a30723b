package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultScope, cfg.Scope)
	assert.Equal(t, DefaultBatchSize, cfg.Drill.BatchSize)
	assert.Equal(t, "noun", cfg.Drill.PartOfSpeech)
	assert.Equal(t, []string{"masculine", "feminine"}, cfg.Drill.Options)
	assert.True(t, cfg.Drill.RequireAudio)
	assert.False(t, cfg.Drill.RequireImage)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 8*time.Second, cfg.Timing.AudioTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Timing.InputGuard)
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
scope: german-a1
db_path: /tmp/lex.db
log:
  level: debug
  format: json
drill:
  batch_size: 6
  options: [masculine, feminine, neuter]
  aliases:
    das: neuter
timing:
  countdown_tick: 1s
  inter_clip_gap: 250ms
`)
	t.Setenv("LEXDRILL_DRILL_BATCH_SIZE", "4")
	t.Setenv("LEXDRILL_DB_PATH", "/var/lex.db")
	t.Setenv("LEXDRILL_TIMING_AUDIO_TIMEOUT", "3s")
	t.Setenv("LEXDRILL_DRILL_REQUIRE_AUDIO", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "german-a1", cfg.Scope)
	assert.Equal(t, "/var/lex.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Drill.BatchSize)
	assert.Equal(t, []string{"masculine", "feminine", "neuter"}, cfg.Drill.Options)
	assert.Equal(t, map[string]string{"das": "neuter"}, cfg.Drill.Aliases)
	assert.Equal(t, time.Second, cfg.Timing.CountdownTick)
	assert.Equal(t, 250*time.Millisecond, cfg.Timing.InterClipGap)
	assert.Equal(t, 3*time.Second, cfg.Timing.AudioTimeout)
	assert.False(t, cfg.Drill.RequireAudio)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("LEXDRILL_SCOPE=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LEXDRILL_SCOPE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Scope)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	_, err = Load(writeConfig(t, "drill: [unclosed"))
	assert.Error(t, err, "malformed yaml")

	_, err = Load(writeConfig(t, "drill:\n  batch_size: 13\n"))
	assert.ErrorContains(t, err, "batch_size")

	_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	assert.ErrorContains(t, err, "log.level")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"LEXDRILL_DRILL_BATCH_SIZE":           "drill.batch_size",
		"LEXDRILL_LOG_LEVEL":                  "log.level",
		"LEXDRILL_DB_PATH":                    "db_path",
		"LEXDRILL_SCOPE":                      "scope",
		"LEXDRILL_METRICS_TEXTFILE":           "metrics.textfile",
		"LEXDRILL_TIMING_PRE_COUNTDOWN_PAUSE": "timing.pre_countdown_pause",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}
