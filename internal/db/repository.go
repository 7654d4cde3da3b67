package db

import (
	"gorm.io/gorm"
)

// Repository provides shared database access for the entity stores
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}
