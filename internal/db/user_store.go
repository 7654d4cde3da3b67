package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tuiter/tuiter/internal/models"
)

// UserStore provides user-related database operations
type UserStore struct {
	*Repository
}

// NewUserStore creates a new user store
func NewUserStore(repo *Repository) *UserStore {
	return &UserStore{Repository: repo}
}

// Get retrieves a user by ID. Returns nil when the user does not exist.
func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List retrieves all users
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create creates a new user
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// Update writes a user's profile fields. The counter columns are
// omitted; UpdateCounts is their only write path.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).
		Omit("follower_count", "following_count").
		Save(user).Error
}

// Delete removes a user and reports whether one actually existed.
// Follow edges referencing the user are left to the orphan-skipping
// reads.
func (s *UserStore) Delete(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateCounts writes the cached follower/following counters for a user.
// Only the follow graph service calls this.
func (s *UserStore) UpdateCounts(ctx context.Context, id, followers, following int64) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"follower_count":  followers,
			"following_count": following,
		}).Error
}
