package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"lookup-api/internal/database"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

var errCacheMiss = errors.New("cache miss")

// stubCache records cache traffic for assertions.
type stubCache struct {
	store   map[string]string
	sets    int
	deletes int
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string]string)}
}

func (c *stubCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := c.store[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = string(data)
	c.sets++
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	delete(c.store, key)
	c.deletes++
	return nil
}
