// Package itf sets up throwaway Postgres databases for integration tests.
package itf

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/plantops/plantops/migrations"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/configuration"
)

// PostgreSQL identifiers are limited to 63 bytes.
const (
	maxDBNameLength  = 63
	hashSuffixLength = 9
)

// CanDialPostgres reports whether the configured database host accepts TCP
// connections. Integration tests skip when it does not.
func CanDialPostgres(tb testing.TB) bool {
	tb.Helper()

	cfg := configuration.Use()
	host := strings.TrimSpace(cfg.Database.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Database.Port)
	if port == "" {
		port = "5432"
	}

	dialer := &net.Dialer{Timeout: 250 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func NewPool(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 30 * time.Second
	return pgxpool.NewWithConfig(ctx, config)
}

// DatabaseManager owns a freshly created and migrated database.
type DatabaseManager struct {
	pool   *pgxpool.Pool
	dbName string
}

// NewDatabaseManager creates a database named after the test, applies the
// migrations and closes the pool on cleanup. The test is skipped when
// Postgres is unreachable.
func NewDatabaseManager(t *testing.T) *DatabaseManager {
	t.Helper()
	if !CanDialPostgres(t) {
		t.Skip("postgres is not reachable")
	}

	name := sanitizeDBName(t.Name())
	if err := CreateDB(name); err != nil {
		t.Fatalf("create database %s: %v", name, err)
	}
	logger, _ := test.NewNullLogger()
	if err := application.NewMigrationManager(migrations.FS, DbOpts(name), logger).Up(context.Background()); err != nil {
		t.Fatalf("migrate %s: %v", name, err)
	}
	pool, err := NewPool(DbOpts(name))
	if err != nil {
		t.Fatalf("connect %s: %v", name, err)
	}

	dm := &DatabaseManager{pool: pool, dbName: name}
	t.Cleanup(dm.Close)
	return dm
}

func (dm *DatabaseManager) Pool() *pgxpool.Pool {
	return dm.pool
}

// Context returns a background context carrying the pool.
func (dm *DatabaseManager) Context() context.Context {
	return composables.WithPool(context.Background(), dm.pool)
}

func (dm *DatabaseManager) Close() {
	if dm.pool != nil {
		dm.pool.Close()
		dm.pool = nil
	}
}

func CreateDB(name string) error {
	c := configuration.Use()
	adminConnStr := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=postgres password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
	)
	db, err := sql.Open("postgres", adminConnStr)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", name)); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", name))
	return err
}

func DbOpts(name string) string {
	c := configuration.Use()
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, name, c.Database.Password,
	)
}

// sanitizeDBName lowercases name, replaces anything that is not a letter,
// digit or underscore and shortens long names with a hash suffix.
func sanitizeDBName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := b.String()
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "test_db"
	}
	if sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "t_" + sanitized
	}
	if len(sanitized) <= maxDBNameLength {
		return sanitized
	}
	sum := sha256.Sum256([]byte(name))
	return fmt.Sprintf("%s_%x", sanitized[:maxDBNameLength-hashSuffixLength], sum[:4])
}
