// Package config loads settings from the config file, AGENDA_* environment
// variables and built-in defaults, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/idilsaglam/agenda/internal/notify"
)

const (
	appName   = "agenda"
	envPrefix = "AGENDA"
)

type Config struct {
	DataDir       string        `mapstructure:"data_dir"`
	Theme         string        `mapstructure:"theme"`
	Log           Log           `mapstructure:"log"`
	Timer         Timer         `mapstructure:"timer"`
	Title         Title         `mapstructure:"title"`
	Notifications Notifications `mapstructure:"notifications"`
	Alarm         Alarm         `mapstructure:"alarm"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Timer struct {
	SuppressWindow time.Duration `mapstructure:"suppress_window"`
	ExtendSmall    time.Duration `mapstructure:"extend_small"`
	ExtendLarge    time.Duration `mapstructure:"extend_large"`
}

type Title struct {
	Default string `mapstructure:"default"`
	Alert   string `mapstructure:"alert"`
}

type Notifications struct {
	Mode string `mapstructure:"mode"`
	Icon string `mapstructure:"icon"`
}

type Alarm struct {
	Command string `mapstructure:"command"`
}

// Load reads path, or the default config file when path is empty. A
// missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.Log.File = expandPath(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir is empty")
	}
	if c.Timer.SuppressWindow <= 0 {
		return fmt.Errorf("config: timer.suppress_window must be positive, got %s", c.Timer.SuppressWindow)
	}
	if c.Timer.ExtendSmall < time.Second || c.Timer.ExtendLarge < time.Second {
		return errors.New("config: timer extensions must be at least 1s")
	}
	if _, err := notify.ParseMode(c.Notifications.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Permission is the notification permission the session starts with.
func (c *Config) Permission() notify.Permission {
	p, _ := notify.ParseMode(c.Notifications.Mode)
	return p
}

// DefaultPath is $XDG_CONFIG_HOME/agenda/config.yaml (or the platform equivalent).
func DefaultPath() string {
	return filepath.Join(configHome(), appName, "config.yaml")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming")
	}
	return filepath.Join(home, ".config")
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
