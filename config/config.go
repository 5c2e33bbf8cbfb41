// Package config reads settings from an optional file and PENTAGO_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"pentago/book"
	"pentago/meta"
	"pentago/searcher"

	"github.com/spf13/viper"
)

type Config struct {
	Game            string        `mapstructure:"game"`
	Engine          string        `mapstructure:"engine"`
	FirstTurnBudget time.Duration `mapstructure:"first_turn_budget"`
	TurnBudget      time.Duration `mapstructure:"turn_budget"`
	Exploration     float64       `mapstructure:"exploration"`
	Policy          string        `mapstructure:"policy"`
	Credit          string        `mapstructure:"credit"`
	Depth           int           `mapstructure:"depth"`
	MaxNodes        int           `mapstructure:"max_nodes"`
	Seed            uint64        `mapstructure:"seed"`
	LogLevel        string        `mapstructure:"log_level"`
	Listen          string        `mapstructure:"listen"`
	Book            book.Config   `mapstructure:"book"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game", "pentago")
	v.SetDefault("engine", "uct")
	v.SetDefault("first_turn_budget", meta.FIRST_TURN_BUDGET)
	v.SetDefault("turn_budget", meta.TURN_BUDGET)
	v.SetDefault("exploration", meta.EXPLORATION)
	v.SetDefault("policy", "random")
	v.SetDefault("credit", "mover")
	v.SetDefault("depth", meta.DEPTH)
	v.SetDefault("max_nodes", meta.MAX_NODES)
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("listen", meta.LISTEN)
	v.SetDefault("book.backend", "file")
	v.SetDefault("book.key", meta.BOOK_KEY)
	v.SetDefault("book.dir", "books")
	v.SetDefault("book.redis.addr", "localhost:6379")
	v.SetDefault("book.redis.password", "")
	v.SetDefault("book.redis.db", 0)
	v.SetDefault("book.redis.prefix", "pentago:book:")
	v.SetDefault("book.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("book.mongo.database", "pentago")
}

// Load reads cfgPath if it is not empty. Environment variables override the file, with dots
// in keys replaced by underscores (PENTAGO_BOOK_REDIS_ADDR).
func Load(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PENTAGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Game {
	case "pentago", "tictactoe":
	default:
		return fmt.Errorf("unknown game %q", c.Game)
	}
	switch c.Engine {
	case "uct", "alphabeta":
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	if _, ok := searcher.ParsePolicy(c.Policy); !ok {
		return fmt.Errorf("unknown rollout policy %q", c.Policy)
	}
	if _, ok := searcher.ParseCredit(c.Credit); !ok {
		return fmt.Errorf("unknown credit convention %q", c.Credit)
	}
	if c.TurnBudget <= 0 || c.FirstTurnBudget <= 0 {
		return fmt.Errorf("turn budgets must be positive")
	}
	if c.Exploration < 0 {
		return fmt.Errorf("exploration must not be negative")
	}
	if c.Depth < 0 {
		return fmt.Errorf("depth must not be negative")
	}
	if c.MaxNodes <= 0 {
		return fmt.Errorf("max_nodes must be positive")
	}
	return nil
}
