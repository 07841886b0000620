// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the garage process configuration.
type Config struct {
	LogMode string `env:"GARAGE_LOG_MODE" envDefault:"dev"`
	DBPath  string `env:"GARAGE_DB_PATH" envDefault:"garage.db"`

	// Kafka is optional. Without brokers, level changes are only logged.
	KafkaBrokers []string `env:"GARAGE_KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"GARAGE_KAFKA_TOPIC" envDefault:"garage.level-changed"`
	KafkaGroupID string   `env:"GARAGE_KAFKA_GROUP_ID" envDefault:"garage"`
}

// KafkaEnabled reports whether level changes should be published to Kafka.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
