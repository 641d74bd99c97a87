package main

import (
	"os"

	"booksphere/internal/config"
)

const defaultMigrationsDir = "db/migrations"

// loadEnvFiles reads .env files without touching variables the runtime already set.
func loadEnvFiles() {
	config.LoadEnvFiles()
}

// migrationsDir resolves the goose directory: --dir, then MIGRATIONS_DIR, then the default.
func migrationsDir(flagDir string) string {
	if flagDir != "" {
		return flagDir
	}
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return defaultMigrationsDir
}
