package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	URL      string
	MaxConns int
}

type RedisConfig struct {
	URL string
	// MaxReconnects bounds the reconnect budget before the cache goes into
	// permanent degraded mode.
	MaxReconnects int
	OpTimeout     time.Duration
}

type RabbitMQConfig struct {
	URL string
}

type RESTConfig struct {
	Port string
}

type CacheConfig struct {
	SearchResultsTTL   time.Duration
	PropertyDetailsTTL time.Duration
	HistoryTTL         time.Duration
	PopularityWindow   time.Duration
}

type SweepConfig struct {
	Interval      time.Duration
	RenewalWindow time.Duration
	RenewFor      time.Duration
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig is the full application configuration.
type AppConfig struct {
	AppName      string
	Postgres     PostgresConfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTConfig
	Cache        CacheConfig
	Sweep        SweepConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
}

// LoadConfig reads configuration from the environment, with an optional .env
// file. A missing .env file is not an error; missing required variables are.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: could not load .env file (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "property-service")

	cfg.Postgres.URL = os.Getenv("DATABASE_URL")
	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Postgres.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	if cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}
	cfg.Redis.MaxReconnects = getEnvAsInt("REDIS_MAX_RECONNECTS", 5)
	cfg.Redis.OpTimeout = getEnvAsDuration("REDIS_OP_TIMEOUT", 250*time.Millisecond)

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Rest.Port = getEnvAsString("PORT", "8083")

	cfg.Cache.SearchResultsTTL = getEnvAsDuration("CACHE_SEARCH_TTL", 5*time.Minute)
	cfg.Cache.PropertyDetailsTTL = getEnvAsDuration("CACHE_DETAILS_TTL", 10*time.Minute)
	cfg.Cache.HistoryTTL = getEnvAsDuration("SEARCH_HISTORY_TTL", 30*24*time.Hour)
	cfg.Cache.PopularityWindow = getEnvAsDuration("POPULAR_TERMS_WINDOW", 24*time.Hour)

	cfg.Sweep.Interval = getEnvAsDuration("SWEEP_INTERVAL", time.Hour)
	cfg.Sweep.RenewalWindow = getEnvAsDuration("SWEEP_RENEWAL_WINDOW", 24*time.Hour)
	cfg.Sweep.RenewFor = getEnvAsDuration("SWEEP_RENEW_FOR", 30*24*time.Hour)

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("WARNING: invalid integer for %s: %q, using default %d\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("WARNING: invalid boolean for %s: %q, using default %t\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("WARNING: invalid duration for %s: %q, using default %s\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
