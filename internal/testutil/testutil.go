package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/chatlens/chatlens/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetReportsSchema drops and recreates the reports table for tests.
func ResetReportsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return reapplyMigration(ctx, pool, "000001_reports")
}

func reapplyMigration(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for _, step := range []string{"down", "up"} {
		path := filepath.Join(root, "migrations", name+"."+step+".sql")
		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s migration %s: %w", step, name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s migration %s: %w", step, name, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// NewTestReport creates a small report that expires after ttl.
func NewTestReport(t testing.TB, ttl time.Duration) *model.Report {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Report{
		ID: UniqueID("report"),
		Metrics: &model.Metrics{
			TotalMessages:  3,
			Participants:   []string{"Ana", "Bob"},
			MessagesByUser: map[string]int{"Ana": 2, "Bob": 1},
		},
		Participants: []string{"Ana", "Bob"},
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
