// apps/go-server/internal/config/config.go
//
// Server configuration.
// Sources, lowest to highest precedence:
//   1. Built-in defaults.
//   2. Optional YAML file named by CONFIG_FILE.
//   3. Environment variables (a local .env file is loaded first if present).
//
// Environment variables:
//   PORT, LOG_LEVEL, CLIENT_ORIGIN, JWT_SECRET, SEAT_TOKEN_TTL,
//   TILE_SOURCE (embedded|sqlite|http), TILES_PER_GAME, SQLITE_PATH, SQLITE_SEED,
//   GENERATOR_URL, GENERATOR_TIMEOUT, NATS_URL, NATS_SUBJECT_PREFIX,
//   OPPONENT_THINK_DELAY, OPPONENT_STEP_DELAY

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// Tile source kinds.
const (
	SourceEmbedded = "embedded"
	SourceSQLite   = "sqlite"
	SourceHTTP     = "http"
)

type Config struct {
	Port         string        `mapstructure:"port"`
	LogLevel     string        `mapstructure:"log_level"`
	ClientOrigin string        `mapstructure:"client_origin"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	SeatTokenTTL time.Duration `mapstructure:"seat_token_ttl"`

	TileSource       string        `mapstructure:"tile_source"`
	TilesPerGame     int           `mapstructure:"tiles_per_game"`
	SQLitePath       string        `mapstructure:"sqlite_path"`
	SQLiteSeed       bool          `mapstructure:"sqlite_seed"`
	GeneratorURL     string        `mapstructure:"generator_url"`
	GeneratorTimeout time.Duration `mapstructure:"generator_timeout"`

	NATSURL           string `mapstructure:"nats_url"`
	NATSSubjectPrefix string `mapstructure:"nats_subject_prefix"`

	OpponentThinkDelay time.Duration `mapstructure:"opponent_think_delay"`
	OpponentStepDelay  time.Duration `mapstructure:"opponent_step_delay"`
}

var defaults = map[string]any{
	"port":                 "5175",
	"log_level":            "info",
	"client_origin":        "http://localhost:5173",
	"jwt_secret":           "dev_secret_change_me",
	"seat_token_ttl":       "12h",
	"tile_source":          SourceEmbedded,
	"tiles_per_game":       44,
	"sqlite_path":          "./data/problems.db",
	"sqlite_seed":          true,
	"generator_url":        "",
	"generator_timeout":    "15s",
	"nats_url":             "",
	"nats_subject_prefix":  "dominoes.game",
	"opponent_think_delay": "2s",
	"opponent_step_delay":  "1s",
	"config_file":          "",
}

// Load reads .env, the optional CONFIG_FILE and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.TileSource = strings.ToLower(strings.TrimSpace(cfg.TileSource))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.TileSource {
	case SourceEmbedded, SourceSQLite:
	case SourceHTTP:
		if c.GeneratorURL == "" {
			return fmt.Errorf("tile source %q requires GENERATOR_URL", c.TileSource)
		}
	default:
		return fmt.Errorf("unknown tile source %q", c.TileSource)
	}
	if c.TilesPerGame < game.MinTiles {
		return fmt.Errorf("tiles per game must be at least %d, got %d", game.MinTiles, c.TilesPerGame)
	}
	if c.OpponentThinkDelay < 0 || c.OpponentStepDelay < 0 {
		return fmt.Errorf("opponent delays must not be negative")
	}
	return nil
}
