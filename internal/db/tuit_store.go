package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tuiter/tuiter/internal/models"
)

// TuitStore provides tuit-related database operations
type TuitStore struct {
	*Repository
}

// NewTuitStore creates a new tuit store
func NewTuitStore(repo *Repository) *TuitStore {
	return &TuitStore{Repository: repo}
}

// Get retrieves a tuit by ID. Returns nil when the tuit does not exist.
func (s *TuitStore) Get(ctx context.Context, id int64) (*models.Tuit, error) {
	var tuit models.Tuit
	if err := s.db.WithContext(ctx).First(&tuit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tuit, nil
}

// ListAll retrieves all tuits, newest first
func (s *TuitStore) ListAll(ctx context.Context) ([]*models.Tuit, error) {
	var tuits []*models.Tuit
	if err := s.db.WithContext(ctx).Order("posted_on DESC").Find(&tuits).Error; err != nil {
		return nil, err
	}
	return tuits, nil
}

// ListByAuthor retrieves all tuits posted by a user, newest first
func (s *TuitStore) ListByAuthor(ctx context.Context, userID int64) ([]*models.Tuit, error) {
	var tuits []*models.Tuit
	err := s.db.WithContext(ctx).
		Where("posted_by = ?", userID).
		Order("posted_on DESC").
		Find(&tuits).Error
	if err != nil {
		return nil, err
	}
	return tuits, nil
}

// ListWithMedia retrieves a user's tuits that carry an image or a
// youtube reference, newest first
func (s *TuitStore) ListWithMedia(ctx context.Context, userID int64) ([]*models.Tuit, error) {
	var tuits []*models.Tuit
	err := s.db.WithContext(ctx).
		Where("posted_by = ?", userID).
		Where("(image IS NOT NULL AND image NOT IN ('', '[]', 'null')) OR youtube <> ''").
		Order("posted_on DESC").
		Find(&tuits).Error
	if err != nil {
		return nil, err
	}
	return tuits, nil
}

// Create creates a new tuit
func (s *TuitStore) Create(ctx context.Context, tuit *models.Tuit) error {
	return s.db.WithContext(ctx).Create(tuit).Error
}

// Update updates a tuit's content
func (s *TuitStore) Update(ctx context.Context, tuit *models.Tuit) error {
	return s.db.WithContext(ctx).Save(tuit).Error
}

// Delete removes a tuit and reports whether one actually existed
func (s *TuitStore) Delete(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Tuit{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteAll removes every tuit
func (s *TuitStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Tuit{}).Error
}
