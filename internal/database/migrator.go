package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	defaultMigrationsPath = "db/migrations"
	defaultSeedsPath      = "db/seeds"
)

// Overridable so tests don't wait out the full minute
var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies the ledger schema and optional seed data over a
// plain database/sql connection, independent of the gorm layer the API uses.
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
}

// NewMigrationRunner creates a runner using the default db/ layout
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		migrationsPath: defaultMigrationsPath,
		seedsPath:      defaultSeedsPath,
	}
}

// WaitForDatabase pings until the database answers or the retry budget runs
// out. In compose setups the database container usually races the app.
func (mr *MigrationRunner) WaitForDatabase() error {
	log.Println("waiting for database")

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if lastErr = mr.db.Ping(); lastErr == nil {
			log.Println("database is ready")
			return nil
		}

		log.Printf("database not ready (attempt %d/%d): %v", attempt, maxRetries, lastErr)
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts: %w", maxRetries, lastErr)
}

// RunMigrations applies all pending migrations. A missing migrations
// directory is not an error; containers built without the db/ tree skip
// schema management entirely.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		log.Printf("no migrations directory at %s, skipping", mr.migrationsPath)
		return nil
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	if err := mr.clearDirtyState(m); err != nil {
		return err
	}

	switch err := m.Up(); err {
	case nil:
		version, _, verr := m.Version()
		if verr != nil {
			return fmt.Errorf("failed to read migration version: %w", verr)
		}
		log.Printf("migrations applied, schema at version %d", version)
	case migrate.ErrNoChange:
		log.Println("schema already up to date")
	default:
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// GetMigrationStatus reports the current schema version and dirty flag
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return 0, false, fmt.Errorf("migrations directory not found")
	}

	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}

	return m.Version()
}

// LoadSeeds executes every db/seeds/*.sql file when SEED_DATABASE=true.
// A failing seed file is logged and skipped; seeds are dev convenience, not
// schema.
func (mr *MigrationRunner) LoadSeeds() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		log.Printf("no seeds directory at %s, skipping", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			log.Printf("seed file %s failed, continuing: %v", filepath.Base(file), err)
			continue
		}

		log.Printf("executed seed file %s", filepath.Base(file))
	}

	return nil
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// clearDirtyState forces the recorded version when a previous run died
// mid-migration, so Up() can proceed instead of refusing forever.
func (mr *MigrationRunner) clearDirtyState(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	if !dirty {
		return nil
	}

	log.Printf("schema dirty at version %d, forcing", version)
	if err := m.Force(int(version)); err != nil {
		return fmt.Errorf("failed to force version: %w", err)
	}

	return nil
}

// RunMigrationsIfEnabled is the server-startup entrypoint: it does nothing
// unless AUTO_MIGRATE=true, so production schema changes stay an explicit
// deploy step via cmd/migrate.
func RunMigrationsIfEnabled(db *sql.DB) error {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		log.Println("auto-migration disabled (AUTO_MIGRATE != true)")
		return nil
	}

	runner := NewMigrationRunner(db)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		log.Printf("seed data loading failed: %v", err)
	}

	return nil
}
