package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*MigrationRunner, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMigrationRunner(db), mock
}

// shortRetries shrinks the ping retry budget for the duration of a test.
func shortRetries(t *testing.T, retries int, interval time.Duration) {
	origRetries, origInterval := maxRetries, retryInterval
	maxRetries, retryInterval = retries, interval
	t.Cleanup(func() {
		maxRetries, retryInterval = origRetries, origInterval
	})
}

func seedEnv(t *testing.T, enabled string) {
	orig := os.Getenv("SEED_DATABASE")
	os.Setenv("SEED_DATABASE", enabled)
	t.Cleanup(func() { os.Setenv("SEED_DATABASE", orig) })
}

func TestNewMigrationRunner(t *testing.T) {
	runner, _ := newMockDB(t)

	assert.Equal(t, migrationsPath, runner.migrationsPath)
	assert.Equal(t, seedsPath, runner.seedsPath)
}

func TestWaitForDatabase_Success(t *testing.T) {
	runner, mock := newMockDB(t)
	mock.ExpectPing().WillReturnError(nil)

	assert.NoError(t, runner.WaitForDatabase())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_FailureThenSuccess(t *testing.T) {
	runner, mock := newMockDB(t)
	shortRetries(t, 2, 50*time.Millisecond)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(nil)

	assert.NoError(t, runner.WaitForDatabase())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_ExhaustsRetries(t *testing.T) {
	runner, mock := newMockDB(t)
	shortRetries(t, 2, 50*time.Millisecond)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err := runner.WaitForDatabase()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database not ready after")
}

func TestRunMigrations_MissingDirectoryIsSkipped(t *testing.T) {
	runner, _ := newMockDB(t)
	runner.migrationsPath = "/nonexistent/path/to/migrations"

	assert.NoError(t, runner.RunMigrations())
}

func TestLoadSeeds_DisabledByEnvironment(t *testing.T) {
	runner, _ := newMockDB(t)
	seedEnv(t, "false")

	assert.NoError(t, runner.LoadSeeds())
}

func TestLoadSeeds_MissingDirectoryIsSkipped(t *testing.T) {
	runner, _ := newMockDB(t)
	seedEnv(t, "true")
	runner.seedsPath = "/nonexistent/seeds/path"

	assert.NoError(t, runner.LoadSeeds())
}

func TestLoadSeeds_EmptyDirectory(t *testing.T) {
	runner, _ := newMockDB(t)
	seedEnv(t, "true")
	runner.seedsPath = t.TempDir()

	assert.NoError(t, runner.LoadSeeds())
}

func TestLoadSeeds_ExecutesFiles(t *testing.T) {
	runner, mock := newMockDB(t)
	seedEnv(t, "true")

	dir := t.TempDir()
	seed := `
INSERT INTO keyword_associations (id, keyword, category_id)
VALUES ('a0000000-0000-0000-0000-000000000001', 'milk', 'dairy')
ON CONFLICT (keyword, category_id) DO NOTHING;
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_keywords.sql"), []byte(seed), 0644))
	runner.seedsPath = dir

	mock.ExpectExec("INSERT INTO keyword_associations").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_FailedFileIsSkipped(t *testing.T) {
	runner, mock := newMockDB(t)
	seedEnv(t, "true")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_bad.sql"),
		[]byte("INSERT INTO nonexistent_table VALUES (1);"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_good.sql"),
		[]byte("INSERT INTO keyword_associations VALUES ('bread');"), 0644))
	runner.seedsPath = dir

	mock.ExpectExec("INSERT INTO nonexistent_table").WillReturnError(errors.New("table does not exist"))
	mock.ExpectExec("INSERT INTO keyword_associations").WillReturnResult(sqlmock.NewResult(0, 1))

	// One broken seed file must not block the rest
	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_UnreadableFileFails(t *testing.T) {
	runner, _ := newMockDB(t)
	seedEnv(t, "true")

	dir := t.TempDir()
	// A directory with a .sql suffix triggers the read error path
	require.NoError(t, os.Mkdir(filepath.Join(dir, "001_invalid.sql"), 0755))
	runner.seedsPath = dir

	err := runner.LoadSeeds()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestGetMigrationStatus_MissingDirectory(t *testing.T) {
	runner, _ := newMockDB(t)
	runner.migrationsPath = "/nonexistent/migrations"

	_, _, err := runner.GetMigrationStatus()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory not found")
}

func TestRunMigrationsIfEnabled_Disabled(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := os.Getenv("AUTO_MIGRATE")
	os.Setenv("AUTO_MIGRATE", "false")
	defer os.Setenv("AUTO_MIGRATE", orig)

	assert.NoError(t, RunMigrationsIfEnabled(db))
}

func TestRunMigrationsIfEnabled_DatabaseNotReady(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	orig := os.Getenv("AUTO_MIGRATE")
	os.Setenv("AUTO_MIGRATE", "true")
	defer os.Setenv("AUTO_MIGRATE", orig)

	shortRetries(t, 2, 50*time.Millisecond)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = RunMigrationsIfEnabled(db)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database readiness check failed")
}
