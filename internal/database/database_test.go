package database

import (
	"log/slog"
	"testing"
	"time"

	"lotusnews/internal/config"
	"lotusnews/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrate_CreatesTablesAndKeysetIndexes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig())
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Post{}, "idx_posts_new"))
	assert.True(t, db.Migrator().HasIndex(&models.Post{}, "idx_posts_top"))
	assert.True(t, db.Migrator().HasIndex(&models.Comment{}, "idx_comments_post_created"))

	// Running twice is a no-op.
	require.NoError(t, Migrate(db))
}

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestConnect_SQLiteDriver(t *testing.T) {
	cfg := &config.Config{
		Env:      "test",
		DBDriver: "sqlite",
		DBPath:   "file:" + t.Name() + "?mode=memory&cache=shared",
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.True(t, db.Migrator().HasTable(&models.Vote{}))
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	base := NewGormLogger(slog.Default())
	silent := base.LogMode(logger.Silent).(*CustomGormLogger)

	assert.Equal(t, logger.Warn, base.Config.LogLevel)
	assert.Equal(t, logger.Silent, silent.Config.LogLevel)
	assert.Equal(t, 200*time.Millisecond, silent.Config.SlowThreshold)
}
