// Package testdb holds database helpers for tests: a lazily connected shared
// client, per-test isolated databases, table cleanup and record factories.
package testdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"giftfinder/internal/database"
)

const sharedSQLiteDSN = "file:giftfinder_shared_test?mode=memory&cache=shared"

var (
	mu     sync.Mutex
	client *gorm.DB
)

func dsn() string {
	if v := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL")); v != "" {
		return v
	}
	return sharedSQLiteDSN
}

// Client returns the shared test client, connecting and migrating on the
// first call.
func Client() (*gorm.DB, error) {
	mu.Lock()
	defer mu.Unlock()
	return connectLocked()
}

// Connect is Client for callers that want the connect step spelled out.
func Connect() (*gorm.DB, error) {
	return Client()
}

func connectLocked() (*gorm.DB, error) {
	if client != nil {
		return client, nil
	}
	db, err := database.Connect(dsn(), database.Options{})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	client = db
	return client, nil
}

// Disconnect closes the shared client. A later Client call reconnects.
// Calling it without a live client is a no-op.
func Disconnect() error {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return nil
	}
	err := database.Close(client)
	client = nil
	return err
}

// Cleanup empties every application table. It is safe to run repeatedly.
func Cleanup(ctx context.Context, db *gorm.DB) error {
	tables, err := tableNames(db)
	if err != nil {
		return err
	}

	tx := db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		quoted := make([]string, 0, len(tables))
		for _, t := range tables {
			quoted = append(quoted, `"`+t+`"`)
		}
		return tx.Exec("TRUNCATE TABLE " + strings.Join(quoted, ", ") + " RESTART IDENTITY CASCADE").Error
	}

	return tx.Transaction(func(tx *gorm.DB) error {
		// reverse model order so children go before parents
		for i := len(tables) - 1; i >= 0; i-- {
			if err := tx.Exec(fmt.Sprintf(`DELETE FROM "%s"`, tables[i])).Error; err != nil {
				return fmt.Errorf("cleanup %s: %w", tables[i], err)
			}
		}
		if tx.Migrator().HasTable("sqlite_sequence") {
			return tx.Exec("DELETE FROM sqlite_sequence").Error
		}
		return nil
	})
}

func tableNames(db *gorm.DB) ([]string, error) {
	models := database.Models()
	names := make([]string, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}

// New opens an isolated in-memory database for one test, migrated and closed
// automatically when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := database.Connect(dsn, database.Options{})
	if err != nil {
		t.Fatalf("testdb: connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// Create inserts one record and returns it with generated fields filled in.
func Create[T any](ctx context.Context, db *gorm.DB, record *T) (*T, error) {
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("testdb: create %T: %w", record, err)
	}
	return record, nil
}

// CreateMany inserts records in one batch.
func CreateMany[T any](ctx context.Context, db *gorm.DB, records []T) ([]T, error) {
	if len(records) == 0 {
		return records, nil
	}
	if err := db.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, fmt.Errorf("testdb: create many %T: %w", records, err)
	}
	return records, nil
}

// MustCreate is Create for tests, failing the test on error.
func MustCreate[T any](t testing.TB, db *gorm.DB, record *T) *T {
	t.Helper()
	out, err := Create(context.Background(), db, record)
	if err != nil {
		t.Fatal(err)
	}
	return out
}
