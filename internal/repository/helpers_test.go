package repository

import (
	"testing"
	"time"

	"lotusnews/internal/database"
	"lotusnews/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// storeBackends runs a contract test against every repository implementation.
func storeBackends(t *testing.T, fn func(t *testing.T, store *Store)) {
	t.Run("gorm", func(t *testing.T) {
		fn(t, NewStore(setupSQLite(t)))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore().Store())
	})
}

var baseTime = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newPost(createdAt time.Time) *models.Post {
	body := "body text"
	return &models.Post{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Title:            "a post title",
		ShortDescription: "short",
		Body:             &body,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}
