package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_SQLiteDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("API_TOKEN", "api-secret")
	t.Setenv("DB_NAME", "cards.db")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("GCP_PROJECT", "")
	t.Setenv("REQUEST_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "cards.db", cfg.DBName)
	assert.Empty(t, cfg.ProjectID)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 128, cfg.CatalogCache)
	assert.Equal(t, "api-secret", cfg.APIToken)
	assert.Empty(t, cfg.Push.Audience, "no push settings without a project")
}

func TestLoad_PushSettingsWithProject(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("API_TOKEN", "api-secret")
	t.Setenv("DB_NAME", "cards.db")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("GCP_PROJECT", "card-swap")
	t.Setenv("PUBSUB_PUSH_AUDIENCE", "https://cardswap.example.com/pubsub/notify-match")
	t.Setenv("PUBSUB_PUSH_SERVICE_ACCOUNT", "push@card-swap.iam.gserviceaccount.com")

	cfg := Load()

	assert.Equal(t, "card-swap", cfg.ProjectID)
	assert.Equal(t, "https://cardswap.example.com/pubsub/notify-match", cfg.Push.Audience)
	assert.Equal(t, "push@card-swap.iam.gserviceaccount.com", cfg.Push.ServiceAccount)
}

func TestLoad_Mongo(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("API_TOKEN", "api-secret")
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("GCP_PROJECT", "")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg := Load()

	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, "cardswap", cfg.Mongo.Database)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestGetDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getDuration("REQUEST_TIMEOUT", time.Second))
}
