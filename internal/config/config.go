package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Ranking     RankingConfig
	Marketplace MarketplaceConfig
	Logging     LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig holds Kafka specific configuration. An empty broker list
// disables event publishing.
type KafkaConfig struct {
	Brokers []string
	Topics  map[string]string
}

// RedisConfig holds Redis connection settings for the list cache
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// CacheConfig holds settings for the per-owner model list cache
type CacheConfig struct {
	ListTTL time.Duration
}

// RankingConfig holds settings for the ranking engine
type RankingConfig struct {
	TopSize int
}

// MarketplaceConfig holds settlement settings
type MarketplaceConfig struct {
	CommissionRate float64
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")

	// Kafka topic defaults
	v.SetDefault("kafka.topics.modelEvents", "model-events")
	v.SetDefault("kafka.topics.marketplaceEvents", "marketplace-events")

	// Redis defaults
	v.SetDefault("redis.url", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.listTTL", "30s")

	// Ranking defaults
	v.SetDefault("ranking.topSize", 20)

	// Marketplace defaults
	v.SetDefault("marketplace.commissionRate", 0.20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
