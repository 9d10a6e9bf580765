// Package config reads service configuration from the environment,
// with .env.local as a development convenience.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirror the original deployment's port assignments.
const (
	DefaultAuthAddr    = ":5554"
	DefaultLedgerAddr  = ":5556"
	DefaultCatalogAddr = ":5557"
	DefaultHistoryAddr = ":5558"

	DefaultAuthURL    = "http://localhost:5554/rpc"
	DefaultLedgerURL  = "http://localhost:5556/rpc"
	DefaultCatalogURL = "http://localhost:5557/rpc"
	DefaultHistoryURL = "http://localhost:5558/rpc"

	DefaultRPCTimeout = 5 * time.Second
)

// Load reads .env.local if present; real environment variables win.
func Load() {
	_ = godotenv.Load(".env.local")
}

func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func MustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}

func GetDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}
