package db

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func TestRunMigrations_AppliesPendingInOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_seed.sql"), []byte("INSERT INTO t VALUES (1);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_schema.sql"), []byte("CREATE TABLE t (id INT);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o644))

	conn, mock := newMockDB(t)
	count := regexp.QuoteMeta(`SELECT COUNT(*) FROM public.expert_network_migrations WHERE name = $1`)
	mark := regexp.QuoteMeta(`INSERT INTO public.expert_network_migrations (name) VALUES ($1)`)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS public.expert_network_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(count).WithArgs("001_schema.sql").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(count).WithArgs("002_seed.sql").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO t VALUES (1);")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(mark).WithArgs("002_seed.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, RunMigrations(context.Background(), conn, dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_RollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_bad.sql"), []byte("CREATE TABLE broken("), 0o644))

	conn, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").WithArgs("001_bad.sql").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE broken(")).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := RunMigrations(context.Background(), conn, dir)
	assert.ErrorContains(t, err, "001_bad.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifySchema(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT to_regclass($1) IS NOT NULL`)

	conn, mock := newMockDB(t)
	mock.ExpectQuery(query).WithArgs("expert_network.projects").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	assert.NoError(t, VerifySchema(context.Background(), conn))

	mock.ExpectQuery(query).WithArgs("expert_network.projects").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	assert.ErrorContains(t, VerifySchema(context.Background(), conn), "expert_network.projects")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurePool(t *testing.T) {
	conn, _ := newMockDB(t)

	ConfigurePool(conn, PoolOptions{MaxOpenConns: 10, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})

	assert.Equal(t, 10, conn.Stats().MaxOpenConnections)
}
