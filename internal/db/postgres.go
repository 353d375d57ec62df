package db

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/ignatzorin/expertnet-backend/internal/logger"
)

// Schema схема, в которой живут все таблицы сервиса.
const Schema = "expert_network"

// PoolOptions параметры пула соединений.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewPostgres создаёт подключение к PostgreSQL с заданным DSN и настраивает пул.
func NewPostgres(ctx context.Context, dsn string, opts PoolOptions) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось подключиться: %w", err)
	}

	ConfigurePool(conn, opts)
	return conn, nil
}

// ConfigurePool применяет параметры пула; нулевые значения оставляют настройки драйвера.
func ConfigurePool(conn *sqlx.DB, opts PoolOptions) {
	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
}

// RunMigrations выполняет SQL файлы из каталога с миграциями в лексикографическом порядке.
// Каждая миграция применяется один раз и в своей транзакции.
func RunMigrations(ctx context.Context, conn *sqlx.DB, migrationsDir string) error {
	if err := initMigrationsTable(ctx, conn); err != nil {
		return fmt.Errorf("postgres: не удалось инициализировать таблицу миграций: %w", err)
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("postgres: не удалось прочитать каталог миграций: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	applied := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		migrationName := entry.Name()
		alreadyApplied, err := isMigrationApplied(ctx, conn, migrationName)
		if err != nil {
			return fmt.Errorf("postgres: не удалось проверить статус миграции %s: %w", migrationName, err)
		}
		if alreadyApplied {
			continue
		}

		if err := applyMigration(ctx, conn, migrationsDir, migrationName); err != nil {
			return err
		}
		applied++
		logger.Entry(nil).Infof("postgres: применена миграция %s", migrationName)
	}

	if applied == 0 {
		logger.Entry(nil).Debug("postgres: новых миграций нет")
	}
	return nil
}

// VerifySchema проверяет, что основные таблицы существуют. Без них сервис не стартует.
func VerifySchema(ctx context.Context, conn *sqlx.DB) error {
	var exists bool
	err := conn.GetContext(ctx, &exists, `SELECT to_regclass($1) IS NOT NULL`, Schema+".projects")
	if err != nil {
		return fmt.Errorf("postgres: не удалось проверить схему: %w", err)
	}
	if !exists {
		return fmt.Errorf("postgres: таблица %s.projects не найдена, выполните миграции", Schema)
	}
	return nil
}

func initMigrationsTable(ctx context.Context, conn *sqlx.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS public.expert_network_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := conn.ExecContext(ctx, query)
	return err
}

func isMigrationApplied(ctx context.Context, conn *sqlx.DB, migrationName string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM public.expert_network_migrations WHERE name = $1`
	if err := conn.GetContext(ctx, &count, query, migrationName); err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyMigration читает и выполняет конкретный SQL файл.
func applyMigration(ctx context.Context, conn *sqlx.DB, dir, migrationName string) error {
	sqlBytes, err := fs.ReadFile(os.DirFS(dir), migrationName)
	if err != nil {
		return fmt.Errorf("postgres: не удалось прочитать миграцию %s: %w", filepath.Join(dir, migrationName), err)
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: не удалось начать транзакцию для миграции %s: %w", migrationName, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("postgres: не удалось выполнить миграцию %s: %w", migrationName, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO public.expert_network_migrations (name) VALUES ($1)`, migrationName); err != nil {
		return fmt.Errorf("postgres: не удалось отметить миграцию %s как выполненную: %w", migrationName, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: не удалось зафиксировать транзакцию для миграции %s: %w", migrationName, err)
	}
	return nil
}
