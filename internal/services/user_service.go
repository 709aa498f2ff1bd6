package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockdesk/internal/models"
	"stockdesk/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const userEntity = "user"

// UserService handles staff registration and maintenance.
type UserService struct {
	base
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, opts ...Option) *UserService {
	return &UserService{
		base: newBase(opts),
		repo: repo,
	}
}

// RegisterUser registers a new staff member and stores a bcrypt hash of
// their password. An empty role defaults to staff.
func (s *UserService) RegisterUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	user := &models.User{
		Name:  strings.TrimSpace(in.Name),
		Email: normalizeEmail(in.Email),
		Role:  strings.TrimSpace(in.Role),
	}
	if user.Role == "" {
		user.Role = models.RoleStaff
	}
	if err := ValidateUser(user); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	_, err := s.repo.GetByEmail(sctx, user.Email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, &StoreError{Op: "look up user", Err: err}
	}

	if user.Password, err = hashPassword(in.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(sctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, &StoreError{Op: "create user", Err: err}
	}

	s.invalidate(ctx, UsersCacheKey)
	s.emit(userEntity, models.EventCreated, user.ID, user.Name)
	return user, nil
}

// GetAllUsers retrieves all staff members, newest first.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := cachedList(ctx, &s.base, UsersCacheKey, s.repo.GetAll)
	if err != nil {
		return nil, &StoreError{Op: "list users", Err: err}
	}
	return users, nil
}

// UpdateUser replaces name, email and role. An empty role keeps the current
// one and an empty password keeps the current hash.
func (s *UserService) UpdateUser(ctx context.Context, id string, in models.UserInput) (*models.User, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.repo.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get user", Err: err}
	}

	user.Name = strings.TrimSpace(in.Name)
	user.Email = normalizeEmail(in.Email)
	if role := strings.TrimSpace(in.Role); role != "" {
		user.Role = role
	}
	if err := ValidateUser(user); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		if user.Password, err = hashPassword(in.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(sctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrDuplicateEmail
		}
		return nil, &StoreError{Op: "update user", Err: err}
	}

	s.invalidate(ctx, UsersCacheKey)
	s.emit(userEntity, models.EventUpdated, user.ID, user.Name)
	return user, nil
}

// DeleteUser removes a staff member.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repo.Delete(sctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete user", Err: err}
	}

	s.invalidate(ctx, UsersCacheKey)
	s.emit(userEntity, models.EventDeleted, id, "")
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
