package service

import (
	"context"
	"strings"
	"time"

	"lotusnews/internal/middleware"
	"lotusnews/internal/models"
	"lotusnews/internal/repository"
	"lotusnews/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	bcryptCost int
	now        func() time.Time
}

type SignupInput struct {
	Email    string
	Username string
	Password string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Signup creates an account and signs the new user in.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, models.NewConflictError("Email or username already taken")
		}
		return nil, storageError(err, "User", user.ID)
	}
	return s.issue(user)
}

// Login accepts either the email or the username as login.
func (s *UserService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmailOrUsername(ctx, strings.TrimSpace(login))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, storageError(err, "User", login)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.issue(user)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "User", id)
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := middleware.IssueToken(s.jwtSecret, user.ID, s.now())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
