package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"photojay_admin/internal/model"
	"photojay_admin/internal/repository"
)

// ErrUserNameTaken is returned when registering a user name that already exists.
var ErrUserNameTaken = errors.New("user name already taken")

// UserService handles business logic for user accounts
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates an account with a bcrypt-hashed password.
// An empty role defaults to USER.
func (s *UserService) Register(ctx context.Context, userName, password, role string) (*model.User, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("user name is required")
	}

	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("password is required")
	}

	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	// Check if user name already exists
	_, err := s.repo.GetByUserName(ctx, userName)
	if err == nil {
		return nil, ErrUserNameTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check user name: %w", err)
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		UserName:       userName,
		PasswordHashed: string(hashedPassword),
		Role:           role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}
