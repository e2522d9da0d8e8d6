/*
Package config loads the configuration of Geography processes.

Configuration is read from a YAML file, by default "geography.yaml" in the
working directory or in $HOME/.config/geography. Every setting may be
overridden by an environment variable, e.g.

	GEOGRAPHY_PLAYER_STARTCITY=paris
	GEOGRAPHY_READ_TIMEOUT=5s

A typical configuration for player one looks like this:

	player:
	  startcity: Paris
	  playerindex: 1
	  prefix: Player1
	  ctrlprefix: CTRLPlayer1
	  gamedirectory: /tmp/geography
	  datafile: world-cities.csv
	read:
	  timeout: 3s
	tracing:
	  adapter: go
	tracelevel:
	  root: Info
	  geography: Debug

Type Config implements schuko.Configuration, which is used to set up tracing.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/npillmayer/schuko"
	"github.com/spf13/viper"
)

// Config holds all configuration of a Geography process.
type Config struct {
	Player     PlayerConfig     `mapstructure:"player"`
	Controller ControllerConfig `mapstructure:"controller"`
	Read       ReadConfig       `mapstructure:"read"`
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Exchange   ExchangeConfig   `mapstructure:"exchange"`
	Tracing    TracingConfig    `mapstructure:"tracing"`

	v *viper.Viper
}

// PlayerConfig configures a player process.
type PlayerConfig struct {
	StartCity     string `mapstructure:"startcity"`
	PlayerIndex   int    `mapstructure:"playerindex"`
	Prefix        string `mapstructure:"prefix"`
	CTRLPrefix    string `mapstructure:"ctrlprefix"`
	GameDirectory string `mapstructure:"gamedirectory"`
	DataFile      string `mapstructure:"datafile"`
}

// ControllerConfig configures a referee process.
type ControllerConfig struct {
	GameDirectory string `mapstructure:"gamedirectory"`
	DataFile      string `mapstructure:"datafile"`
}

// ReadConfig configures waiting for moves.
type ReadConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Interval time.Duration `mapstructure:"interval"`
}

// DatasetConfig selects the source of cities.
type DatasetConfig struct {
	Source   string `mapstructure:"source"`   // csv or mysql
	Encoding string `mapstructure:"encoding"` // utf-8 or latin1, for csv
	DSN      string `mapstructure:"dsn"`      // for mysql
	Query    string `mapstructure:"query"`    // for mysql
}

// ExchangeConfig selects how moves are exchanged.
type ExchangeConfig struct {
	Kind  string      `mapstructure:"kind"` // file or redis
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis exchange.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	DB        int           `mapstructure:"db"`
	Namespace string        `mapstructure:"namespace"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// TracingConfig configures tracing. Trace levels are set in section
// "tracelevel", keyed by tracer name.
type TracingConfig struct {
	Adapter     string `mapstructure:"adapter"`     // go or logrus
	Destination string `mapstructure:"destination"` // Stdout, Stderr or a file URI
}

// Load loads the configuration from file path. If path is empty, a file
// named "geography.yaml" is searched; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("GEOGRAPHY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("geography")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", "geography"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("player.startcity", "")
	v.SetDefault("player.playerindex", 1)
	v.SetDefault("player.prefix", "Player1")
	v.SetDefault("player.ctrlprefix", "CTRLPlayer1")
	v.SetDefault("player.gamedirectory", ".")
	v.SetDefault("player.datafile", "world-cities.csv")

	v.SetDefault("controller.gamedirectory", ".")
	v.SetDefault("controller.datafile", "world-cities.csv")

	v.SetDefault("read.timeout", "3s")
	v.SetDefault("read.interval", "100ms")

	v.SetDefault("dataset.source", "csv")
	v.SetDefault("dataset.encoding", "utf-8")
	v.SetDefault("dataset.dsn", "")
	v.SetDefault("dataset.query", "")

	v.SetDefault("exchange.kind", "file")
	v.SetDefault("exchange.redis.addr", "127.0.0.1:6379")
	v.SetDefault("exchange.redis.db", 0)
	v.SetDefault("exchange.redis.namespace", "geography")
	v.SetDefault("exchange.redis.ttl", "1h")

	v.SetDefault("tracing.adapter", "go")
	v.SetDefault("tracing.destination", "")
	v.SetDefault("tracelevel.root", "Error")
	v.SetDefault("tracelevel.geography", "Info")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case "csv":
		switch strings.ToLower(c.Dataset.Encoding) {
		case "utf-8", "utf8", "latin1", "iso-8859-1":
		default:
			return fmt.Errorf("unsupported dataset encoding: %q", c.Dataset.Encoding)
		}
	case "mysql":
		if c.Dataset.DSN == "" {
			return fmt.Errorf("dataset dsn is required for source mysql")
		}
	default:
		return fmt.Errorf("unsupported dataset source: %q", c.Dataset.Source)
	}
	switch c.Exchange.Kind {
	case "file":
	case "redis":
		if c.Exchange.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for exchange kind redis")
		}
	default:
		return fmt.Errorf("unsupported exchange kind: %q", c.Exchange.Kind)
	}
	if c.Read.Timeout < 0 {
		return fmt.Errorf("invalid read timeout: %v", c.Read.Timeout)
	}
	if c.Read.Interval <= 0 {
		return fmt.Errorf("invalid read interval: %v", c.Read.Interval)
	}
	if c.Player.PlayerIndex <= 0 {
		return fmt.Errorf("invalid player index: %d", c.Player.PlayerIndex)
	}
	return nil
}

// Latin1 is true if the CSV dataset is encoded in ISO 8859-1.
func (c *Config) Latin1() bool {
	switch strings.ToLower(c.Dataset.Encoding) {
	case "latin1", "iso-8859-1":
		return true
	}
	return false
}

// PlayDirectory is the directory moves are exchanged in, for a game
// directory.
func PlayDirectory(gameDirectory string) string {
	return filepath.Join(gameDirectory, "play")
}

// --- schuko.Configuration --------------------------------------------------

var _ schuko.Configuration = (*Config)(nil)

// InitDefaults is part of interface schuko.Configuration.
func (c *Config) InitDefaults() {
	setDefaults(c.viper())
}

// IsSet is part of interface schuko.Configuration.
func (c *Config) IsSet(key string) bool {
	return c.viper().IsSet(key)
}

// GetString is part of interface schuko.Configuration.
func (c *Config) GetString(key string) string {
	return c.viper().GetString(key)
}

// GetInt is part of interface schuko.Configuration.
func (c *Config) GetInt(key string) int {
	return c.viper().GetInt(key)
}

// GetBool is part of interface schuko.Configuration.
func (c *Config) GetBool(key string) bool {
	return c.viper().GetBool(key)
}

// IsInteractive is part of interface schuko.Configuration. Geography
// processes are never interactive.
func (c *Config) IsInteractive() bool {
	return false
}

func (c *Config) viper() *viper.Viper {
	if c.v == nil {
		c.v = viper.New()
		setDefaults(c.v)
	}
	return c.v
}
