package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"

	ProviderComposer = "composer"
	ProviderMock     = "mock"
)

// Load reads .env (if present), an optional configs/config.yaml and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFromFile reads configuration from an explicit YAML path.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read base config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// PORT is what most platforms inject.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_PORT") == "" {
		cfg.Server.Port = port
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origin", "http://localhost:5173")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("dataset.path", "enhanced_motor_vehicle_repair_towing_dataset.csv")
	v.SetDefault("dataset.search_limit", 3)
	v.SetDefault("classifier.path", "diagnostic_model.db")
	v.SetDefault("provider.kind", ProviderComposer)
	v.SetDefault("interaction_log.path", "carcarebot_training_data.csv")
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_name", "carcare_session")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func validate(cfg *Config) error {
	switch cfg.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the redis session backend")
		}
	default:
		return fmt.Errorf("session.backend must be %q or %q, got %q",
			SessionBackendMemory, SessionBackendRedis, cfg.Session.Backend)
	}
	switch cfg.Provider.Kind {
	case ProviderComposer, ProviderMock:
	default:
		return fmt.Errorf("provider.kind must be %q or %q, got %q",
			ProviderComposer, ProviderMock, cfg.Provider.Kind)
	}
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if cfg.Classifier.Path == "" {
		return fmt.Errorf("classifier.path is required")
	}
	if cfg.InteractionLog.Path == "" {
		return fmt.Errorf("interaction_log.path is required")
	}
	if cfg.Dataset.SearchLimit <= 0 {
		cfg.Dataset.SearchLimit = 3
	}
	return nil
}
