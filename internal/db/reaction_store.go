package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tuiter/tuiter/internal/models"
)

// ReactionStore provides like/dislike database operations
type ReactionStore struct {
	*Repository
}

// NewReactionStore creates a new reaction store
func NewReactionStore(repo *Repository) *ReactionStore {
	return &ReactionStore{Repository: repo}
}

func (s *ReactionStore) find(ctx context.Context, userID, tuitID int64, polarity int16) (*models.Reaction, error) {
	var reaction models.Reaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND tuit_id = ? AND polarity = ?", userID, tuitID, polarity).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

// FindLike retrieves the like a user holds on a tuit. Returns nil when
// the user has not liked the tuit.
func (s *ReactionStore) FindLike(ctx context.Context, userID, tuitID int64) (*models.Reaction, error) {
	return s.find(ctx, userID, tuitID, models.PolarityLike)
}

// FindDislike retrieves the dislike a user holds on a tuit. Returns nil
// when the user has not disliked the tuit.
func (s *ReactionStore) FindDislike(ctx context.Context, userID, tuitID int64) (*models.Reaction, error) {
	return s.find(ctx, userID, tuitID, models.PolarityDislike)
}
