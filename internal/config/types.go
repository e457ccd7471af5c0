package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Port           string
	StoreBackend   string
	DBName         string
	Turso          TursoConfig
	Mongo          MongoConfig
	Slack          SlackConfig
	APIToken       string
	ProjectID      string
	Push           PushConfig
	RequestTimeout time.Duration
	CatalogCache   int
}
type SlackConfig struct {
	Token         string
	SigningSecret string
}

// PushConfig describes the OIDC token Pub/Sub attaches to push deliveries.
type PushConfig struct {
	Audience       string
	ServiceAccount string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type MongoConfig struct {
	URI      string
	Database string
}

const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)
