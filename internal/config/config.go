package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Game        GameConfig        `mapstructure:"game"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type GameConfig struct {
	Variant string `mapstructure:"variant"`
	// EngineSide is "white", "black" or "none".
	EngineSide string `mapstructure:"engine_side"`
	// ViewerSide is whose view the fog variant shows in games without an engine.
	ViewerSide string `mapstructure:"viewer_side"`
	Seed       int64  `mapstructure:"seed"`
}

type EngineConfig struct {
	// Kind is "minimax" or "uci".
	Kind       string        `mapstructure:"kind"`
	Depth      int           `mapstructure:"depth"`
	UCIPath    string        `mapstructure:"uci_path"`
	UCIDepth   int           `mapstructure:"uci_depth"`
	UCITimeout time.Duration `mapstructure:"uci_timeout"`
}

type AuthConfig struct {
	SeatSecret string        `mapstructure:"seat_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads config.yaml from the given directories (default "." and
// "./config") and applies CHESSVARIANTS_* environment overrides. A missing
// file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("CHESSVARIANTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("game.variant", "standard")
	v.SetDefault("game.engine_side", "black")
	v.SetDefault("game.viewer_side", "black")
	v.SetDefault("game.seed", 0)
	v.SetDefault("engine.kind", "minimax")
	v.SetDefault("engine.depth", 2)
	v.SetDefault("engine.uci_path", "stockfish")
	v.SetDefault("engine.uci_depth", 10)
	v.SetDefault("engine.uci_timeout", 5*time.Second)
	v.SetDefault("auth.seat_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("development.debug", false)
	v.SetDefault("development.log_level", "info")
}

// Validate rejects values the binaries cannot act on.
func (c *Config) Validate() error {
	switch c.Engine.Kind {
	case "minimax", "uci":
	default:
		return fmt.Errorf("invalid engine.kind %q", c.Engine.Kind)
	}
	switch c.Game.EngineSide {
	case "white", "black", "none":
	default:
		return fmt.Errorf("invalid game.engine_side %q", c.Game.EngineSide)
	}
	switch c.Game.ViewerSide {
	case "white", "black":
	default:
		return fmt.Errorf("invalid game.viewer_side %q", c.Game.ViewerSide)
	}
	if c.Engine.Depth < 1 {
		return fmt.Errorf("invalid engine.depth %d", c.Engine.Depth)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
