package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuiter/tuiter/internal/feed"
	"github.com/tuiter/tuiter/internal/graph"
	"github.com/tuiter/tuiter/pkg/logging"
)

// FollowAPI exposes the follow graph operations over JSON-RPC. It is a
// pass-through: parameters in, service call, plain data out.
type FollowAPI struct {
	graph      *graph.Service
	aggregator *feed.Aggregator
	users      feed.UserStore
	logger     *zap.Logger
}

// NewFollowAPI creates a new follow API
func NewFollowAPI(graphService *graph.Service, aggregator *feed.Aggregator, users feed.UserStore) *FollowAPI {
	return &FollowAPI{
		graph:      graphService,
		aggregator: aggregator,
		users:      users,
		logger:     logging.GetLogger().With(zap.String("component", "api-follow")),
	}
}

// Follow handles tuiter.follow [viewer_id, target_id]
func (f *FollowAPI) Follow(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	targetID, err := paramInt64(p, 1, "target_id")
	if err != nil {
		return nil, err
	}
	if err := f.graph.Follow(c.Request.Context(), viewerID, targetID); err != nil {
		return nil, err
	}
	return gin.H{"status": "ok"}, nil
}

// Unfollow handles tuiter.unfollow [viewer_id, target_id]
func (f *FollowAPI) Unfollow(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	targetID, err := paramInt64(p, 1, "target_id")
	if err != nil {
		return nil, err
	}
	if err := f.graph.Unfollow(c.Request.Context(), viewerID, targetID); err != nil {
		return nil, err
	}
	return gin.H{"status": "ok"}, nil
}

// RemoveFollower handles tuiter.remove_follower [viewer_id, follower_id]
func (f *FollowAPI) RemoveFollower(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	followerID, err := paramInt64(p, 1, "follower_id")
	if err != nil {
		return nil, err
	}
	if err := f.graph.RemoveFollower(c.Request.Context(), viewerID, followerID); err != nil {
		return nil, err
	}
	return gin.H{"status": "ok"}, nil
}

// ToggleFollow handles tuiter.toggle_follow [viewer_id, target_id]
func (f *FollowAPI) ToggleFollow(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	targetID, err := paramInt64(p, 1, "target_id")
	if err != nil {
		return nil, err
	}
	if err := f.graph.ToggleFollow(c.Request.Context(), viewerID, targetID); err != nil {
		return nil, err
	}
	return gin.H{"status": "ok"}, nil
}

// IsFollowing handles tuiter.is_following [source_id, target_id]
func (f *FollowAPI) IsFollowing(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	sourceID, err := paramInt64(p, 0, "source_id")
	if err != nil {
		return nil, err
	}
	targetID, err := paramInt64(p, 1, "target_id")
	if err != nil {
		return nil, err
	}
	following, err := f.graph.IsFollowing(c.Request.Context(), sourceID, targetID)
	if err != nil {
		return nil, err
	}
	return gin.H{"following": following}, nil
}

// GetFollowers handles tuiter.get_followers [viewer_id, user]
// where user is an id or a username
func (f *FollowAPI) GetFollowers(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	user, err := resolveUserParam(c.Request.Context(), f.users, p, 1, "user")
	if err != nil {
		return nil, err
	}
	return f.aggregator.Followers(c.Request.Context(), viewerID, user.ID)
}

// GetFollowing handles tuiter.get_following [viewer_id, user]
func (f *FollowAPI) GetFollowing(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	user, err := resolveUserParam(c.Request.Context(), f.users, p, 1, "user")
	if err != nil {
		return nil, err
	}
	return f.aggregator.Following(c.Request.Context(), viewerID, user.ID)
}

// GetSuggestions handles tuiter.get_suggestions [viewer_id]
func (f *FollowAPI) GetSuggestions(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	return f.aggregator.Suggestions(c.Request.Context(), viewerID)
}

// GetFollowCount handles tuiter.get_follow_count [user]
func (f *FollowAPI) GetFollowCount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	user, err := resolveUserParam(c.Request.Context(), f.users, p, 0, "user")
	if err != nil {
		return nil, err
	}
	return gin.H{
		"user_id":         user.ID,
		"follower_count":  user.FollowerCount,
		"following_count": user.FollowingCount,
	}, nil
}

// GetFollows handles tuiter.get_follows []: every follow edge
func (f *FollowAPI) GetFollows(c *gin.Context, params json.RawMessage) (interface{}, error) {
	return f.graph.AllEdges(c.Request.Context())
}

// CheckConsistency handles tuiter.check_consistency [user_id?]. Without
// a user id it sweeps every user the edge set touches.
func (f *FollowAPI) CheckConsistency(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		if err := f.graph.CheckAllConsistency(c.Request.Context()); err != nil {
			return nil, err
		}
		return gin.H{"consistent": true}, nil
	}
	userID, err := paramInt64(p, 0, "user_id")
	if err != nil {
		return nil, err
	}
	if err := f.graph.CheckConsistency(c.Request.Context(), userID); err != nil {
		return nil, err
	}
	return gin.H{"consistent": true}, nil
}
