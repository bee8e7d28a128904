package main

import (
	"database/sql"
	"flag"
	"log"

	"ledgerbook/internal/config"
	"ledgerbook/internal/database"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Standalone migration runner for deploy pipelines where the API process
// must not own schema changes (AUTO_MIGRATE stays off there).
func main() {
	statusOnly := flag.Bool("status", false, "print the current migration version and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	runner := database.NewMigrationRunner(db)

	if err := runner.WaitForDatabase(); err != nil {
		log.Fatalf("Database not reachable: %v", err)
	}

	if *statusOnly {
		version, dirty, err := runner.GetMigrationStatus()
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		log.Printf("Migration version: %d (dirty: %v)", version, dirty)
		return
	}

	if err := runner.RunMigrations(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		log.Printf("Warning: seed data loading failed: %v", err)
	}

	log.Println("Migrations applied successfully")
}
