// Package config loads lexdrill configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full lexdrill configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath string `koanf:"db_path"`

	// Scope is the study-set id progress is stored under.
	Scope string `koanf:"scope"`

	// Pool is the item pool file (JSON or YAML).
	Pool string `koanf:"pool"`

	Log     LogConfig     `koanf:"log"`
	Drill   DrillConfig   `koanf:"drill"`
	Timing  TimingConfig  `koanf:"timing"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DrillConfig configures batch planning and eligibility.
type DrillConfig struct {
	BatchSize    int               `koanf:"batch_size"`
	PartOfSpeech string            `koanf:"part_of_speech"`
	Options      []string          `koanf:"options"`
	Aliases      map[string]string `koanf:"aliases"`
	RequireImage bool              `koanf:"require_image"`
	RequireAudio bool              `koanf:"require_audio"`
}

// TimingConfig configures the round sequencer pauses.
type TimingConfig struct {
	InterClipGap      time.Duration `koanf:"inter_clip_gap"`
	InterItemGap      time.Duration `koanf:"inter_item_gap"`
	CountdownTick     time.Duration `koanf:"countdown_tick"`
	PreCountdownPause time.Duration `koanf:"pre_countdown_pause"`
	AudioTimeout      time.Duration `koanf:"audio_timeout"`
	InputGuard        time.Duration `koanf:"input_guard"`
}

// MetricsConfig configures the prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after each session when set.
	Textfile string `koanf:"textfile"`
}

// Defaults.
const (
	DefaultScope        = "default"
	DefaultBatchSize    = 12
	MaxBatchSize        = 12
	DefaultPartOfSpeech = "noun"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "console"
)

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Drill.BatchSize == 0 {
		cfg.Drill.BatchSize = DefaultBatchSize
	}
	if cfg.Drill.PartOfSpeech == "" {
		cfg.Drill.PartOfSpeech = DefaultPartOfSpeech
	}
	if len(cfg.Drill.Options) == 0 {
		cfg.Drill.Options = []string{"masculine", "feminine"}
	}

	t := &cfg.Timing
	if t.InterClipGap == 0 {
		t.InterClipGap = 400 * time.Millisecond
	}
	if t.InterItemGap == 0 {
		t.InterItemGap = 900 * time.Millisecond
	}
	if t.CountdownTick == 0 {
		t.CountdownTick = 700 * time.Millisecond
	}
	if t.PreCountdownPause == 0 {
		t.PreCountdownPause = 500 * time.Millisecond
	}
	if t.AudioTimeout == 0 {
		t.AudioTimeout = 8 * time.Second
	}
	if t.InputGuard == 0 {
		t.InputGuard = 250 * time.Millisecond
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Drill.BatchSize < 1 || c.Drill.BatchSize > MaxBatchSize {
		errs = append(errs, fmt.Errorf("drill.batch_size must be between 1 and %d, got %d", MaxBatchSize, c.Drill.BatchSize))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or console", c.Log.Format))
	}

	durations := map[string]time.Duration{
		"timing.inter_clip_gap":      c.Timing.InterClipGap,
		"timing.inter_item_gap":      c.Timing.InterItemGap,
		"timing.countdown_tick":      c.Timing.CountdownTick,
		"timing.pre_countdown_pause": c.Timing.PreCountdownPause,
		"timing.audio_timeout":       c.Timing.AudioTimeout,
		"timing.input_guard":         c.Timing.InputGuard,
	}
	for name, d := range durations {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	return errors.Join(errs...)
}
