package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status|reset]

import (
	"context"
	"log"
	"os"

	"planner-backend/internal/shared/config"
	"planner-backend/internal/shared/storage/db"
)

func main() {
	command := db.MigrateUp
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		log.Printf("migrate %s: %v", command, err)
		os.Exit(1)
	}
	log.Printf("migrate %s: done", command)
}
