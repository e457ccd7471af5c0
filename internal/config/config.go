package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		Port:         getEnv("PORT"),
		StoreBackend: getEnvDefault("STORE_BACKEND", BackendSQLite),
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN"),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET"),
		},
		APIToken:       getEnv("API_TOKEN"),
		ProjectID:      getEnvDefault("GCP_PROJECT", ""),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		CatalogCache:   getInt("CATALOG_CACHE_SIZE", 128),
	}

	// Pushes only arrive when notifications are queued through Pub/Sub.
	if cfg.ProjectID != "" {
		cfg.Push = PushConfig{
			Audience:       getEnv("PUBSUB_PUSH_AUDIENCE"),
			ServiceAccount: getEnvDefault("PUBSUB_PUSH_SERVICE_ACCOUNT", ""),
		}
	}

	switch cfg.StoreBackend {
	case BackendSQLite:
		cfg.DBName = getEnv("DB_NAME")
		cfg.Turso = TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		}
	case BackendMongo:
		cfg.Mongo = MongoConfig{
			URI:      getEnv("MONGO_URI"),
			Database: getEnvDefault("MONGO_DATABASE", "cardswap"),
		}
	default:
		log.Fatalf("Error: STORE_BACKEND must be %q or %q, got %q.", BackendSQLite, BackendMongo, cfg.StoreBackend)
	}
	return cfg
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn("Invalid duration, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Warn("Invalid number, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return n
}
