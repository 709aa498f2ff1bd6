package models

import "time"

// Category represents a product category.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string    `json:"name" gorm:"uniqueIndex;type:varchar(100);not null" bson:"name" validate:"required,max=100"`
	Description string    `json:"description" bson:"description" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CategoryInput is the write payload for categories.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
