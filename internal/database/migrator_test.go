package database

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRunner(t *testing.T) (*MigrationRunner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewMigrationRunner(db), mock
}

func TestWaitForDatabase_Ready(t *testing.T) {
	runner, mock := newMockRunner(t)
	mock.ExpectPing()

	assert.NoError(t, runner.WaitForDatabase())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_RetriesThenGivesUp(t *testing.T) {
	origRetries, origInterval := maxRetries, retryInterval
	maxRetries, retryInterval = 2, time.Millisecond
	defer func() { maxRetries, retryInterval = origRetries, origInterval }()

	runner, mock := newMockRunner(t)
	mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))
	mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))

	err := runner.WaitForDatabase()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not ready after 2 attempts")
}

func TestRunMigrations_SkipsWhenDirectoryMissing(t *testing.T) {
	runner, _ := newMockRunner(t)
	runner.migrationsPath = filepath.Join(t.TempDir(), "does-not-exist")

	assert.NoError(t, runner.RunMigrations())
}

func TestGetMigrationStatus_MissingDirectory(t *testing.T) {
	runner, _ := newMockRunner(t)
	runner.migrationsPath = filepath.Join(t.TempDir(), "does-not-exist")

	_, _, err := runner.GetMigrationStatus()
	assert.Error(t, err)
}

func TestLoadSeeds_DisabledByDefault(t *testing.T) {
	t.Setenv("SEED_DATABASE", "")
	runner, mock := newMockRunner(t)

	// No Exec expectations: the database must not be touched
	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ExecutesSeedFiles(t *testing.T) {
	t.Setenv("SEED_DATABASE", "true")

	seedsDir := t.TempDir()
	seedSQL := "INSERT INTO users (email) VALUES ('seed@example.com');"
	require.NoError(t, os.WriteFile(filepath.Join(seedsDir, "001_users.sql"), []byte(seedSQL), 0o644))

	runner, mock := newMockRunner(t)
	runner.seedsPath = seedsDir

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ContinuesPastFailingFile(t *testing.T) {
	t.Setenv("SEED_DATABASE", "true")

	seedsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(seedsDir, "001_bad.sql"), []byte("INSERT INTO missing VALUES (1);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(seedsDir, "002_good.sql"), []byte("INSERT INTO users (email) VALUES ('x');"), 0o644))

	runner, mock := newMockRunner(t)
	runner.seedsPath = seedsDir

	mock.ExpectExec("INSERT INTO missing").WillReturnError(fmt.Errorf("relation does not exist"))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}
