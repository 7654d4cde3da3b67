package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/tuiter/tuiter/internal/models"
)

// FollowStore provides follow-edge database operations. It backs the
// graph service's EdgeStore contract; nothing else writes edges.
type FollowStore struct {
	*Repository
}

// NewFollowStore creates a new follow store
func NewFollowStore(repo *Repository) *FollowStore {
	return &FollowStore{Repository: repo}
}

// EdgeExists reports whether an edge (follower -> followed) exists
func (s *FollowStore) EdgeExists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower = ? AND followed = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertEdge inserts an edge if absent. Inserting an existing edge is a
// no-op, not an error.
func (s *FollowStore) InsertEdge(ctx context.Context, followerID, followedID int64) error {
	edge := &models.FollowEdge{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge).Error
}

// DeleteEdge removes an edge and reports whether one actually existed
func (s *FollowStore) DeleteEdge(ctx context.Context, followerID, followedID int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("follower = ? AND followed = ?", followerID, followedID).
		Delete(&models.FollowEdge{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountBySource counts edges where the user is the follower
func (s *FollowStore) CountBySource(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByTarget counts edges where the user is the followed
func (s *FollowStore) CountByTarget(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("followed = ?", userID).
		Count(&count).Error
	return count, err
}

// ListBySource retrieves all edges where the user is the follower
func (s *FollowStore) ListBySource(ctx context.Context, userID int64) ([]*models.FollowEdge, error) {
	var edges []*models.FollowEdge
	err := s.db.WithContext(ctx).
		Where("follower = ?", userID).
		Order("created_at").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// ListByTarget retrieves all edges where the user is the followed
func (s *FollowStore) ListByTarget(ctx context.Context, userID int64) ([]*models.FollowEdge, error) {
	var edges []*models.FollowEdge
	err := s.db.WithContext(ctx).
		Where("followed = ?", userID).
		Order("created_at").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// ListAll retrieves every edge
func (s *FollowStore) ListAll(ctx context.Context) ([]*models.FollowEdge, error) {
	var edges []*models.FollowEdge
	if err := s.db.WithContext(ctx).Order("created_at").Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}
