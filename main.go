package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/zlnvch/markwiki/api"
	"github.com/zlnvch/markwiki/filestore"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/pages"
	"github.com/zlnvch/markwiki/store"
	"github.com/zlnvch/markwiki/store/dynamo"
	"github.com/zlnvch/markwiki/store/jsonfile"
)

const DynamoDBTable = "Markwiki"

func envOrDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Optional .env file for local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	ctx := context.Background()
	devMode := os.Getenv("DEV_MODE") == "true"

	var userStore store.UserStore
	var err error
	switch backend := envOrDefault("STORE_BACKEND", "jsonfile"); backend {
	case "jsonfile":
		userStore, err = jsonfile.NewJSONFileUserStore(envOrDefault("USER_DIR", "data"))
		if err != nil {
			log.Fatalf("Failed to create json file store: %v", err)
		}
	case "dynamo":
		userStore, err = dynamo.NewDynamoUserStore(ctx, devMode, os.Getenv("DYNAMODB_ENDPOINT"), DynamoDBTable)
		if err != nil {
			log.Fatalf("Failed to create dynamodb store: %v", err)
		}
	default:
		log.Fatalf("Unknown store backend: %s", backend)
	}

	pageRepo, err := pages.NewRepository(envOrDefault("CONTENT_DIR", "content"))
	if err != nil {
		log.Fatalf("Failed to create page repository: %v", err)
	}

	fileManager, err := filestore.NewManager(envOrDefault("FILE_STORAGE_DIR", "file_storage"))
	if err != nil {
		log.Fatalf("Failed to create file storage: %v", err)
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("Failed to decode base64 jwtSecret: %v", err)
	}
	if len(jwtSecret) == 0 {
		log.Fatalf("JWT_SECRET must be set")
	}

	defaultAuthMethod := models.AuthMethod(envOrDefault("DEFAULT_AUTH_METHOD", string(models.AuthMethodHash)))

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	wikiApi, err := api.NewMarkwikiAPI(userStore, pageRepo, fileManager, jwtSecret, defaultAuthMethod, shutdownCtx)
	if err != nil {
		log.Fatalf("Failed to create markwiki api: %v", err)
	}

	mux := http.NewServeMux()
	wikiApi.RegisterRoutes(mux, os.Getenv("ALLOWED_ORIGIN"))

	hostPort := envOrDefault("HOST_PORT", "8080")
	log.Printf("Starting server on host port: %s\n", hostPort)
	log.Fatal(http.ListenAndServe(":"+hostPort, mux))
}
