package config

import "time"

// Config is the application configuration.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Dataset        DatasetConfig        `mapstructure:"dataset"`
	Classifier     ClassifierConfig     `mapstructure:"classifier"`
	Provider       ProviderConfig       `mapstructure:"provider"`
	InteractionLog InteractionLogConfig `mapstructure:"interaction_log"`
	Session        SessionConfig        `mapstructure:"session"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Postgres       PostgresConfig       `mapstructure:"postgres"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

type ServerConfig struct {
	Port          string `mapstructure:"port"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
	GinMode       string `mapstructure:"gin_mode"`
}

type DatasetConfig struct {
	Path        string `mapstructure:"path"`
	SearchLimit int    `mapstructure:"search_limit"`
}

type ClassifierConfig struct {
	Path string `mapstructure:"path"`
}

// ProviderConfig picks the reply source: "composer" answers from the dataset
// and classifier, "mock" echoes the query.
type ProviderConfig struct {
	Kind string `mapstructure:"kind"`
}

type InteractionLogConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig selects where transcripts live: "memory" or "redis".
type SessionConfig struct {
	Backend    string        `mapstructure:"backend"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig enables the database interaction log when DSN is set.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
