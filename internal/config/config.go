// Package config loads the chessrules YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chessrules/internal/board"
)

// DefaultPath is the configuration file looked up when no path is given.
const DefaultPath = "chessrules.yaml"

// Config is the top-level configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Game     GameConfig     `yaml:"game"`
	Session  SessionConfig  `yaml:"session"`
	Protocol ProtocolConfig `yaml:"protocol"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type GameConfig struct {
	// StartFEN is the position "newgame" starts from.
	StartFEN string `yaml:"start_fen"`
}

type SessionConfig struct {
	QueueSize        int           `yaml:"queue_size"`
	SubscriberBuffer int           `yaml:"subscriber_buffer"`
	ProviderTimeout  time.Duration `yaml:"provider_timeout"`
}

type ProtocolConfig struct {
	// Color is auto, always or never.
	Color    string `yaml:"color"`
	Unicode  bool   `yaml:"unicode"`
	MaxPerft int    `yaml:"max_perft"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Game: GameConfig{
			StartFEN: board.StartFEN,
		},
		Session: SessionConfig{
			QueueSize:        16,
			SubscriberBuffer: 8,
			ProviderTimeout:  30 * time.Second,
		},
		Protocol: ProtocolConfig{
			Color:    "auto",
			Unicode:  true,
			MaxPerft: 5,
		},
	}
}

// Load reads path on top of the defaults. A missing file at DefaultPath is
// not an error; any other missing path is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks value ranges and that the start position parses.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Protocol.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("protocol.color: unknown mode %q", c.Protocol.Color)
	}
	if c.Session.QueueSize < 1 {
		return fmt.Errorf("session.queue_size: must be positive, got %d", c.Session.QueueSize)
	}
	if c.Session.SubscriberBuffer < 0 {
		return fmt.Errorf("session.subscriber_buffer: must not be negative, got %d", c.Session.SubscriberBuffer)
	}
	if c.Session.ProviderTimeout < 0 {
		return fmt.Errorf("session.provider_timeout: must not be negative, got %v", c.Session.ProviderTimeout)
	}
	if c.Protocol.MaxPerft < 1 {
		return fmt.Errorf("protocol.max_perft: must be positive, got %d", c.Protocol.MaxPerft)
	}
	if _, err := board.ParseFEN(c.Game.StartFEN); err != nil {
		return fmt.Errorf("game.start_fen: %w", err)
	}
	return nil
}
