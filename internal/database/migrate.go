package database

import (
	"fmt"

	"lotusnews/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Vote{},
		&models.Comment{},
	}
}

// keysetIndexes back the two listing orders. They are declared on the Post
// model as well; this list lets Migrate verify them after AutoMigrate.
var keysetIndexes = []string{"idx_posts_new", "idx_posts_top"}

// Migrate creates or updates the schema for every persistent model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, name := range keysetIndexes {
		if !db.Migrator().HasIndex(&models.Post{}, name) {
			return fmt.Errorf("failed to migrate database: missing index %s", name)
		}
	}
	return nil
}
