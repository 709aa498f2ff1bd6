package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository stores staff users in a MongoDB collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a repository over db.users.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

// GetAll retrieves all staff users, newest first.
func (r *MongoUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := findAll[models.User](ctx, r.coll)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a single user by its ID.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := findOne[models.User](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves the user registered with email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := findOne[models.User](ctx, r.coll, bson.M{"email": email})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return user, nil
}

// Create inserts a new user. The email unique index rejects duplicates.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email %q: %w", user.Email, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update replaces every mutable field of an existing user.
func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	err := setByID(ctx, r.coll, user.ID, bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"password":  user.Password,
		"updatedAt": user.UpdatedAt,
	})
	switch {
	case errors.Is(err, ErrDuplicateKey):
		return fmt.Errorf("email %q: %w", user.Email, ErrDuplicateKey)
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	case err != nil:
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete hard-deletes a user by its ID.
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.coll, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
