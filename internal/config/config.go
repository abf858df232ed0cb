package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings subdeck reads from its TOML file.
type Config struct {
	APIBind  string
	APIToken string
	// CacheDir is empty when the warm-start cache is disabled.
	CacheDir    string
	LogFile     string
	LogLevel    string
	PollSeconds int
}

const (
	defaultConfigPath  = "~/.config/subdeck/config.toml"
	defaultAPIBind     = "127.0.0.1:3000"
	defaultCacheDir    = "~/.cache/subdeck"
	defaultLogFile     = "~/.local/state/subdeck/subdeck.log"
	defaultLogLevel    = "info"
	defaultPollSeconds = 30

	// cacheDisabled as cache_dir turns the disk cache off.
	cacheDisabled = "-"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:     defaultAPIBind,
		CacheDir:    mustExpand(defaultCacheDir),
		LogFile:     mustExpand(defaultLogFile),
		LogLevel:    defaultLogLevel,
		PollSeconds: defaultPollSeconds,
	}
}

// Load locates and parses the subdeck config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind     string `toml:"api_bind"`
		APIToken    string `toml:"api_token"`
		CacheDir    string `toml:"cache_dir"`
		LogFile     string `toml:"log_file"`
		LogLevel    string `toml:"log_level"`
		PollSeconds int    `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	cfg.APIToken = strings.TrimSpace(raw.APIToken)

	switch v := strings.TrimSpace(raw.CacheDir); v {
	case "":
	case cacheDisabled:
		cfg.CacheDir = ""
	default:
		cfg.CacheDir = mustExpand(v)
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}

	return cfg, nil
}

// PollInterval returns the staleness poll interval.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// CacheEnabled reports whether the warm-start cache is configured.
func (c Config) CacheEnabled() bool {
	return strings.TrimSpace(c.CacheDir) != ""
}

// LogPath returns the application log file, defaulting when unset.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return mustExpand(defaultLogFile)
	}
	return c.LogFile
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
