package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	redis_wrapper "github.com/joripage/lob-engine/pkg/infra/redis"
	kafkawrapper "github.com/joripage/lob-engine/pkg/kafka_wrapper"
)

// EnvPrefix namespaces the environment variables that override the file.
const EnvPrefix = "LOB_"

type AppConfig struct {
	ServiceName string       `yaml:"service_name" env:"SERVICE_NAME"`
	Symbol      string       `yaml:"symbol" env:"SYMBOL"`
	LogLevel    string       `yaml:"log_level" env:"LOG_LEVEL"`
	Engine      EngineConfig `yaml:"engine"`
	Feed        FeedConfig   `yaml:"feed"`
	Sinks       SinksConfig  `yaml:"sinks"`
}

type EngineConfig struct {
	// MaxLevels is how many opposing levels one order may consume; 0 walks
	// the book. Unset means 1.
	MaxLevels    *int   `yaml:"max_levels"`
	StartOrderID uint64 `yaml:"start_order_id" env:"START_ORDER_ID"`
}

type FeedConfig struct {
	Enabled      bool          `yaml:"enabled" env:"FEED_ENABLED"`
	TickInterval time.Duration `yaml:"tick_interval" env:"FEED_TICK_INTERVAL"`
	MidPrice     float64       `yaml:"mid_price"`
	TickSize     float64       `yaml:"tick_size"`
	MaxQty       int64         `yaml:"max_qty"`
	Seed         int64         `yaml:"seed" env:"FEED_SEED"`
}

type SinksConfig struct {
	Log          bool                         `yaml:"log"`
	BufferSize   int                          `yaml:"buffer_size"`
	MaxRetries   uint64                       `yaml:"max_retries"`
	Redis        *redis_wrapper.RedisConfig   `yaml:"redis"`
	RedisChannel string                       `yaml:"redis_channel"`
	Kafka        *kafkawrapper.ProducerConfig `yaml:"kafka"`
	KafkaTopic   string                       `yaml:"kafka_topic"`
}

// Load load config from file and environment variables. A .env file in the
// working directory is loaded first when present.
func Load(filePath string) (*AppConfig, error) {
	_ = godotenv.Load()

	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}

	return Parse(configBytes)
}

// Parse expands environment variables in raw, decodes it, applies LOB_*
// overrides and fills defaults.
func Parse(raw []byte) (*AppConfig, error) {
	raw = []byte(os.ExpandEnv(string(raw)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		zap.S().Error("Failed to parse config file")
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	cfg.setDefaults()

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}

func (c *AppConfig) setDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "lob-engine"
	}
	if c.Symbol == "" {
		c.Symbol = "DEFAULT"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Engine.MaxLevels == nil {
		one := 1
		c.Engine.MaxLevels = &one
	}
	if c.Feed.TickInterval <= 0 {
		c.Feed.TickInterval = 10 * time.Millisecond
	}
	if c.Feed.MidPrice <= 0 {
		c.Feed.MidPrice = 100
	}
	if c.Feed.TickSize <= 0 {
		c.Feed.TickSize = 0.01
	}
	if c.Feed.MaxQty <= 0 {
		c.Feed.MaxQty = 100
	}
	if c.Sinks.BufferSize <= 0 {
		c.Sinks.BufferSize = 4096
	}
	if c.Sinks.RedisChannel == "" {
		c.Sinks.RedisChannel = "fills." + c.Symbol
	}
	if c.Sinks.KafkaTopic == "" {
		c.Sinks.KafkaTopic = "fills"
	}
}
