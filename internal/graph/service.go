package graph

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tuiter/tuiter/internal/cache"
	"github.com/tuiter/tuiter/internal/models"
	"github.com/tuiter/tuiter/pkg/logging"
	"github.com/tuiter/tuiter/pkg/telemetry"
)

// EdgeStore is the collaborator contract for follow-edge persistence
type EdgeStore interface {
	EdgeExists(ctx context.Context, followerID, followedID int64) (bool, error)
	InsertEdge(ctx context.Context, followerID, followedID int64) error
	DeleteEdge(ctx context.Context, followerID, followedID int64) (bool, error)
	CountBySource(ctx context.Context, userID int64) (int64, error)
	CountByTarget(ctx context.Context, userID int64) (int64, error)
	ListBySource(ctx context.Context, userID int64) ([]*models.FollowEdge, error)
	ListByTarget(ctx context.Context, userID int64) ([]*models.FollowEdge, error)
	ListAll(ctx context.Context) ([]*models.FollowEdge, error)
}

// UserStore is the collaborator contract for user reads and counter writes
type UserStore interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	UpdateCounts(ctx context.Context, id, followers, following int64) error
}

const defaultMaxConcurrency = 8

// Service is the single authoritative mutator of follow edges and of
// the cached follower/following counters on user records. No other
// component creates or deletes edges or writes those counters.
type Service struct {
	edges          EdgeStore
	users          UserStore
	cache          *cache.Cache
	locks          pairLocks
	maxConcurrency int
	logger         *zap.Logger
}

// NewService creates a new follow graph service. redisCache may be nil;
// follow-state lookups then always hit the edge store.
func NewService(edges EdgeStore, users UserStore, redisCache *cache.Cache, maxConcurrency int) *Service {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Service{
		edges:          edges,
		users:          users,
		cache:          redisCache,
		maxConcurrency: maxConcurrency,
		logger:         logging.GetLogger().With(zap.String("component", "follow-graph")),
	}
}

// Follow inserts an edge from source to target and refreshes both
// users' counters. Following an already-followed user is a no-op for
// the edge and leaves the counters where they were.
func (s *Service) Follow(ctx context.Context, sourceID, targetID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "graph.follow", telemetry.WithUserPair(sourceID, targetID))
	defer span.End()

	if sourceID == targetID {
		return &SelfFollowError{UserID: sourceID}
	}

	unlock := s.locks.Lock(sourceID, targetID)
	defer unlock()

	if err := s.ensureUsers(ctx, sourceID, targetID); err != nil {
		return err
	}
	if err := s.edges.InsertEdge(ctx, sourceID, targetID); err != nil {
		return &models.TransientStoreError{Op: "InsertEdge", Err: err}
	}
	s.invalidateFollowState(ctx, sourceID, targetID)

	s.logger.Debug("Edge created",
		zap.Int64("source", sourceID),
		zap.Int64("target", targetID))

	return s.refreshCounts(ctx, sourceID, targetID)
}

// Unfollow removes the edge from source to target if present. Removing
// an absent edge is a no-op, not an error, and the counters stay put.
func (s *Service) Unfollow(ctx context.Context, sourceID, targetID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "graph.unfollow", telemetry.WithUserPair(sourceID, targetID))
	defer span.End()

	unlock := s.locks.Lock(sourceID, targetID)
	defer unlock()

	return s.removeEdge(ctx, sourceID, targetID)
}

// RemoveFollower removes the edge from source to target, initiated from
// the target's side (a user dropping one of their followers). Same
// idempotence rule as Unfollow.
func (s *Service) RemoveFollower(ctx context.Context, targetID, sourceID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "graph.remove_follower", telemetry.WithUserPair(sourceID, targetID))
	defer span.End()

	unlock := s.locks.Lock(sourceID, targetID)
	defer unlock()

	return s.removeEdge(ctx, sourceID, targetID)
}

// removeEdge deletes the edge and refreshes counters only when an edge
// actually existed. Callers hold the pair lock.
func (s *Service) removeEdge(ctx context.Context, sourceID, targetID int64) error {
	if err := s.ensureUsers(ctx, sourceID, targetID); err != nil {
		return err
	}

	existed, err := s.edges.DeleteEdge(ctx, sourceID, targetID)
	if err != nil {
		return &models.TransientStoreError{Op: "DeleteEdge", Err: err}
	}
	if !existed {
		return nil
	}
	s.invalidateFollowState(ctx, sourceID, targetID)

	s.logger.Debug("Edge removed",
		zap.Int64("source", sourceID),
		zap.Int64("target", targetID))

	return s.refreshCounts(ctx, sourceID, targetID)
}

// ToggleFollow flips the follow state of the pair: unfollow when
// following, follow when not. The read-flip-recount sequence runs under
// the pair lock so concurrent toggles on the same pair serialize.
func (s *Service) ToggleFollow(ctx context.Context, sourceID, targetID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "graph.toggle_follow", telemetry.WithUserPair(sourceID, targetID))
	defer span.End()

	if sourceID == targetID {
		return &SelfFollowError{UserID: sourceID}
	}

	unlock := s.locks.Lock(sourceID, targetID)
	defer unlock()

	if err := s.ensureUsers(ctx, sourceID, targetID); err != nil {
		return err
	}

	following, err := s.edges.EdgeExists(ctx, sourceID, targetID)
	if err != nil {
		return &models.TransientStoreError{Op: "EdgeExists", Err: err}
	}

	if following {
		if _, err := s.edges.DeleteEdge(ctx, sourceID, targetID); err != nil {
			return &models.TransientStoreError{Op: "DeleteEdge", Err: err}
		}
	} else {
		if err := s.edges.InsertEdge(ctx, sourceID, targetID); err != nil {
			return &models.TransientStoreError{Op: "InsertEdge", Err: err}
		}
	}
	s.invalidateFollowState(ctx, sourceID, targetID)

	s.logger.Debug("Follow state toggled",
		zap.Int64("source", sourceID),
		zap.Int64("target", targetID),
		zap.Bool("now_following", !following))

	return s.refreshCounts(ctx, sourceID, targetID)
}

// IsFollowing reports whether source follows target
func (s *Service) IsFollowing(ctx context.Context, sourceID, targetID int64) (bool, error) {
	key := followStateKey(sourceID, targetID)
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		return cached == "1", nil
	}
	if err != cache.ErrCacheMiss && err != cache.ErrCacheDisabled {
		s.logger.Debug("Follow state cache read failed", zap.Error(err))
	}

	exists, err := s.edges.EdgeExists(ctx, sourceID, targetID)
	if err != nil {
		return false, &models.TransientStoreError{Op: "EdgeExists", Err: err}
	}

	value := "0"
	if exists {
		value = "1"
	}
	if err := s.cache.Set(ctx, key, value); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Debug("Follow state cache write failed", zap.Error(err))
	}
	return exists, nil
}

// FollowingIDs returns the ids of every user the given user follows
func (s *Service) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	edges, err := s.edges.ListBySource(ctx, userID)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListBySource", Err: err}
	}
	ids := make([]int64, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.FollowedID)
	}
	return ids, nil
}

// FindFollowersOf returns the users following the given user. Edges
// whose follower no longer resolves are skipped, not surfaced as
// errors.
func (s *Service) FindFollowersOf(ctx context.Context, userID int64) ([]*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "graph.find_followers")
	defer span.End()

	edges, err := s.edges.ListByTarget(ctx, userID)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListByTarget", Err: err}
	}
	ids := make([]int64, len(edges))
	for i, edge := range edges {
		ids[i] = edge.FollowerID
	}
	return s.resolveUsers(ctx, ids)
}

// FindFollowingOf returns the users the given user follows, skipping
// orphaned edges the same way as FindFollowersOf.
func (s *Service) FindFollowingOf(ctx context.Context, userID int64) ([]*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "graph.find_following")
	defer span.End()

	edges, err := s.edges.ListBySource(ctx, userID)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListBySource", Err: err}
	}
	ids := make([]int64, len(edges))
	for i, edge := range edges {
		ids[i] = edge.FollowedID
	}
	return s.resolveUsers(ctx, ids)
}

// CheckConsistency compares a user's cached counters against the edge
// counts and reports the first divergence as an
// InvariantViolationError.
func (s *Service) CheckConsistency(ctx context.Context, userID int64) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return &models.TransientStoreError{Op: "GetUser", Err: err}
	}
	if user == nil {
		return &models.NotFoundError{Kind: "user", ID: userID}
	}

	followers, err := s.edges.CountByTarget(ctx, userID)
	if err != nil {
		return &models.TransientStoreError{Op: "CountByTarget", Err: err}
	}
	if user.FollowerCount != followers {
		return &InvariantViolationError{
			UserID:  userID,
			Counter: "follower",
			Cached:  user.FollowerCount,
			Actual:  followers,
		}
	}

	following, err := s.edges.CountBySource(ctx, userID)
	if err != nil {
		return &models.TransientStoreError{Op: "CountBySource", Err: err}
	}
	if user.FollowingCount != following {
		return &InvariantViolationError{
			UserID:  userID,
			Counter: "following",
			Cached:  user.FollowingCount,
			Actual:  following,
		}
	}
	return nil
}

// AllEdges returns every follow edge
func (s *Service) AllEdges(ctx context.Context) ([]*models.FollowEdge, error) {
	edges, err := s.edges.ListAll(ctx)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListAll", Err: err}
	}
	return edges, nil
}

// CheckAllConsistency sweeps every user touched by an edge and verifies
// their counters against the edge counts. The first divergence found is
// returned.
func (s *Service) CheckAllConsistency(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "graph.check_all_consistency")
	defer span.End()

	edges, err := s.edges.ListAll(ctx)
	if err != nil {
		return &models.TransientStoreError{Op: "ListAll", Err: err}
	}

	seen := make(map[int64]struct{})
	for _, edge := range edges {
		for _, id := range []int64{edge.FollowerID, edge.FollowedID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if err := s.CheckConsistency(ctx, id); err != nil {
				// Users behind orphaned edges have no counters to check
				if errors.Is(err, models.ErrNotFound) {
					continue
				}
				return err
			}
		}
	}
	return nil
}

// resolveUsers fans out user lookups for the given ids, preserving
// order and dropping ids that no longer resolve.
func (s *Service) resolveUsers(ctx context.Context, ids []int64) ([]*models.User, error) {
	resolved := make([]*models.User, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			user, err := s.users.Get(ctx, id)
			if err != nil {
				return &models.TransientStoreError{Op: "GetUser", Err: err}
			}
			resolved[i] = user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(resolved))
	for _, user := range resolved {
		if user == nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// ensureUsers verifies both ends of a mutation resolve
func (s *Service) ensureUsers(ctx context.Context, sourceID, targetID int64) error {
	for _, id := range []int64{sourceID, targetID} {
		user, err := s.users.Get(ctx, id)
		if err != nil {
			return &models.TransientStoreError{Op: "GetUser", Err: err}
		}
		if user == nil {
			return &models.NotFoundError{Kind: "user", ID: id}
		}
	}
	return nil
}

// refreshCounts re-reads the edge counts for both users and persists
// them, so the cached counters converge to edge truth after every
// mutation even if they had drifted.
func (s *Service) refreshCounts(ctx context.Context, sourceID, targetID int64) error {
	for _, id := range []int64{sourceID, targetID} {
		followers, err := s.edges.CountByTarget(ctx, id)
		if err != nil {
			return &models.TransientStoreError{Op: "CountByTarget", Err: err}
		}
		following, err := s.edges.CountBySource(ctx, id)
		if err != nil {
			return &models.TransientStoreError{Op: "CountBySource", Err: err}
		}
		if err := s.users.UpdateCounts(ctx, id, followers, following); err != nil {
			return &models.TransientStoreError{Op: "UpdateCounts", Err: err}
		}
	}
	return nil
}

// invalidateFollowState drops the cached follow state for the pair
func (s *Service) invalidateFollowState(ctx context.Context, sourceID, targetID int64) {
	err := s.cache.Delete(ctx, followStateKey(sourceID, targetID))
	if err != nil && err != cache.ErrCacheDisabled {
		s.logger.Debug("Follow state cache invalidation failed", zap.Error(err))
	}
}

func followStateKey(sourceID, targetID int64) string {
	return "follow:" + strconv.FormatInt(sourceID, 10) + ":" + strconv.FormatInt(targetID, 10)
}
