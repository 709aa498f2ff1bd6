package models

import "time"

// Staff roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents a staff member of the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" bson:"name" validate:"required,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" bson:"email" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" bson:"password"` // bcrypt hash, never serialized
	Role      string    `json:"role" gorm:"type:varchar(20);not null" bson:"role" validate:"required,oneof=admin staff"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserInput is the write payload for staff registration and edits.
// Password may be left empty on update to keep the current one.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
