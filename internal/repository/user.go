package repository

import (
	"context"
	"strings"

	"lotusnews/internal/models"
	"lotusnews/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, logger: observability.NewRepoLogger("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]any{"user_id": user.ID.String()})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	login = strings.TrimSpace(login)
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) OR username = ?", login, login).
		Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
