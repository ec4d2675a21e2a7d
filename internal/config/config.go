package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/focusboard/internal/logger"
	"gopkg.in/yaml.v3"
)

const appDir = "focusboard"

// Config holds process-level settings. User-editable defaults such as the
// timer length live in the database settings table instead.
type Config struct {
	DBPath         string               `yaml:"db_path"`
	Logging        logger.LoggingConfig `yaml:"logging"`
	ReportInterval time.Duration        `yaml:"report_interval"` // periodic re-aggregation
	TimerTick      time.Duration        `yaml:"timer_tick"`      // countdown refresh cadence
	BlinkInterval  time.Duration        `yaml:"blink_interval"`  // expiry blink toggle
	FrameRate      int                  `yaml:"frame_rate"`      // animation frames per second
}

// Dir returns ~/.config/focusboard (or the platform equivalent).
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, appDir), nil
}

// DefaultPath returns the location of config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in configuration with environment overrides
// applied.
func Default() *Config {
	dir, _ := Dir()
	dbPath, logPath := "", ""
	if dir != "" {
		dbPath = filepath.Join(dir, "focusboard.db")
		logPath = filepath.Join(dir, "focusboard.log")
	}

	c := &Config{
		DBPath: dbPath,
		Logging: logger.LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: logPath,
		},
		ReportInterval: 5 * time.Second,
		TimerTick:      200 * time.Millisecond,
		BlinkInterval:  450 * time.Millisecond,
		FrameRate:      60,
	}
	c.applyEnv()
	return c
}

func (c *Config) applyEnv() {
	c.DBPath = getEnv("FOCUSBOARD_DB", c.DBPath)
	c.Logging.Level = getEnv("FOCUSBOARD_LOG_LEVEL", c.Logging.Level)
	c.Logging.OutputPath = getEnv("FOCUSBOARD_LOG_FILE", c.Logging.OutputPath)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Environment wins over the file.
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects intervals the UI cannot schedule.
func (c *Config) Validate() error {
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report_interval must be positive, got %s", c.ReportInterval)
	}
	if c.TimerTick <= 0 {
		return fmt.Errorf("timer_tick must be positive, got %s", c.TimerTick)
	}
	if c.BlinkInterval <= 0 {
		return fmt.Errorf("blink_interval must be positive, got %s", c.BlinkInterval)
	}
	if c.FrameRate < 1 || c.FrameRate > 240 {
		return fmt.Errorf("frame_rate must be between 1 and 240, got %d", c.FrameRate)
	}
	return nil
}

// FrameInterval is the animation sampling period.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
