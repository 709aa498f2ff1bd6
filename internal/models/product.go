package models

import "time"

// Product represents a barcoded item in the inventory catalog.
// Category holds a category name by convention; it is not a foreign key.
type Product struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	ProductName   string     `json:"productName" gorm:"type:varchar(200);not null" bson:"productName" validate:"required,max=200"`
	Barcode       string     `json:"barcode" gorm:"uniqueIndex;type:varchar(128);not null" bson:"barcode" validate:"required,max=128"`
	Price         float64    `json:"price" gorm:"not null" bson:"price" validate:"gt=0"`
	StockQuantity int        `json:"stockQuantity" gorm:"not null" bson:"stockQuantity" validate:"gte=0"`
	Category      string     `json:"category" gorm:"type:varchar(100);index" bson:"category" validate:"required,max=100"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	Brand         string     `json:"brand" gorm:"type:varchar(100)" bson:"brand" validate:"omitempty,max=100"`
	Description   string     `json:"description" bson:"description" validate:"omitempty,max=1000"`
	ReorderLevel  int        `json:"reorderLevel" gorm:"not null" bson:"reorderLevel" validate:"gte=0"`
	IsActive      bool       `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Default values applied when a create or update request omits the field.
const (
	DefaultStockQuantity = 0
	DefaultReorderLevel  = 5
	DefaultIsActive      = true
)

// ProductInput is the write payload for products. Numeric fields accept
// either JSON numbers or numeric strings since form inputs post strings.
type ProductInput struct {
	ProductName   string `json:"productName"`
	Barcode       string `json:"barcode"`
	Price         Number `json:"price"`
	StockQuantity Number `json:"stockQuantity"`
	Category      string `json:"category"`
	ExpiryDate    string `json:"expiryDate"`
	Brand         string `json:"brand"`
	Description   string `json:"description"`
	ReorderLevel  Number `json:"reorderLevel"`
	IsActive      *bool  `json:"isActive"`
}
