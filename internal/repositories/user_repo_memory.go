package repositories

import (
	"context"
	"fmt"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	table *memoryTable[models.User]
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		table: newMemoryTable(map[string]func(models.User) string{
			"email": func(u models.User) string { return u.Email },
		}),
	}
}

// GetAll returns all users, newest first.
func (r *MemoryUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	return r.table.newestFirst(), nil
}

// GetByID returns a user by ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	row, ok := r.table.records[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	user := row.value
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	user, ok := r.table.find(func(u models.User) bool { return u.Email == email })
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	return &user, nil
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, dup := r.table.conflict(*user, ""); dup {
		return fmt.Errorf("email %q: %w", user.Email, ErrDuplicateKey)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.table.seq++
	r.table.records[user.ID] = memoryRow[models.User]{value: *user, seq: r.table.seq}
	return nil
}

// Update replaces an existing user, keeping its creation time.
func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	row, ok := r.table.records[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	if _, dup := r.table.conflict(*user, user.ID); dup {
		return fmt.Errorf("email %q: %w", user.Email, ErrDuplicateKey)
	}

	user.CreatedAt = row.value.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	row.value = *user
	r.table.records[user.ID] = row
	return nil
}

// Delete removes a user by ID.
func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if _, ok := r.table.records[id]; !ok {
		return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	delete(r.table.records, id)
	return nil
}
