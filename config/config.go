package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	postgres_wrapper "github.com/joripage/stockmarket-dev/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/stockmarket-dev/pkg/infra/redis"
)

type StockConfig struct {
	Symbol string  `yaml:"symbol"`
	Name   string  `yaml:"name"`
	Price  float64 `yaml:"price"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	PriceTopic string   `yaml:"price_topic"`
}

type NatsConfig struct {
	URL     string `yaml:"url"`
	Stream  string `yaml:"stream"`
	Subject string `yaml:"subject"`
	Durable string `yaml:"durable"`
}

type FixConfig struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

type AppConfig struct {
	ServiceName     string                           `yaml:"service_name"`
	CycleIntervalMS int64                            `yaml:"cycle_interval_ms"`
	Stocks          []StockConfig                    `yaml:"stocks"`
	MarketDB        *postgres_wrapper.PostgresConfig `yaml:"market_db"`
	Redis           *redis_wrapper.RedisConfig       `yaml:"redis"`
	Kafka           *KafkaConfig                     `yaml:"kafka"`
	Nats            *NatsConfig                      `yaml:"nats"`
	Fix             *FixConfig                       `yaml:"fix"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
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
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
