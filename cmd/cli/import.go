package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/card-swap/internal/catalog"
	"github.com/mauv0809/card-swap/internal/config"
	"github.com/mauv0809/card-swap/internal/database"
	"github.com/mauv0809/card-swap/internal/store/mongodb"
	"github.com/mauv0809/card-swap/internal/store/sqlite"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/spf13/cobra"
)

var importOpts struct {
	repo       string
	sets       []string
	backend    string
	dbName     string
	tursoURL   string
	tursoToken string
	mongoURI   string
	mongoDB    string
	refresh    bool
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importOpts.repo, "repo", "", "Path to a checkout of the card catalog")
	f.StringSliceVar(&importOpts.sets, "set", nil, "Set directories to import (default genetic_apex,mythical_island)")
	f.StringVar(&importOpts.backend, "backend", "", "Store backend, sqlite or mongo (default $STORE_BACKEND or sqlite)")
	f.StringVar(&importOpts.dbName, "db", "", "SQLite database file (default $DB_NAME)")
	f.StringVar(&importOpts.tursoURL, "turso-url", "", "Turso primary URL (default $TURSO_PRIMARY_URL)")
	f.StringVar(&importOpts.tursoToken, "turso-token", "", "Turso auth token (default $TURSO_AUTH_TOKEN)")
	f.StringVar(&importOpts.mongoURI, "mongo-uri", "", "MongoDB URI (default $MONGO_URI)")
	f.StringVar(&importOpts.mongoDB, "mongo-db", "", "MongoDB database (default $MONGO_DATABASE or cardswap)")
	f.BoolVar(&importOpts.refresh, "refresh", true, "Ask the server at --host to drop its cached reference data afterwards")
	importCmd.MarkFlagRequired("repo")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import-cards",
	Short: "Import card sets and definitions from a catalog checkout into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Warn("No .env file found, reading from environment variables")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()

		store, err := openImportStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := catalog.NewImporter(store).Import(ctx, importOpts.repo, importOpts.sets)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))

		if importOpts.refresh {
			if err := performRequest(http.MethodPost, "/api/catalog/refresh"); err != nil {
				log.Warn("Could not refresh the server catalog cache", "error", err)
			}
		}
		return nil
	},
}

func orEnv(value, key, fallback string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(key); env != "" {
		return env
	}
	return fallback
}

func openImportStore(ctx context.Context) (trade.Store, error) {
	backend := orEnv(importOpts.backend, "STORE_BACKEND", config.BackendSQLite)
	switch backend {
	case config.BackendMongo:
		uri := orEnv(importOpts.mongoURI, "MONGO_URI", "")
		if uri == "" {
			return nil, fmt.Errorf("--mongo-uri or MONGO_URI is required for the mongo backend")
		}
		return mongodb.Connect(ctx, uri, orEnv(importOpts.mongoDB, "MONGO_DATABASE", "cardswap"))
	case config.BackendSQLite:
		dbName := orEnv(importOpts.dbName, "DB_NAME", "")
		tursoURL := orEnv(importOpts.tursoURL, "TURSO_PRIMARY_URL", "")
		if dbName == "" && tursoURL == "" {
			return nil, fmt.Errorf("--db, DB_NAME or TURSO_PRIMARY_URL is required for the sqlite backend")
		}
		db, err := database.InitDB(dbName, tursoURL, orEnv(importOpts.tursoToken, "TURSO_AUTH_TOKEN", ""))
		if err != nil {
			return nil, err
		}
		return sqlite.New(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
