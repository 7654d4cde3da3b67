package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuiter/tuiter/internal/feed"
	"github.com/tuiter/tuiter/internal/models"
	"github.com/tuiter/tuiter/pkg/logging"
)

// UserStore is the full user persistence surface the boundary consumes:
// the read side the feed layer uses plus the user CRUD write side. The
// counter columns stay out of reach of this surface.
type UserStore interface {
	feed.UserStore
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserAPI exposes user listing and CRUD over JSON-RPC
type UserAPI struct {
	users  UserStore
	logger *zap.Logger
}

// NewUserAPI creates a new user API
func NewUserAPI(users UserStore) *UserAPI {
	return &UserAPI{
		users:  users,
		logger: logging.GetLogger().With(zap.String("component", "api-users")),
	}
}

// GetUsers handles tuiter.get_users []
func (u *UserAPI) GetUsers(c *gin.Context, params json.RawMessage) (interface{}, error) {
	return u.users.List(c.Request.Context())
}

// GetUser handles tuiter.get_user [user] where user is an id or a
// username
func (u *UserAPI) GetUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	return resolveUserParam(c.Request.Context(), u.users, p, 0, "user")
}

// CreateUser handles tuiter.create_user [username]
func (u *UserAPI) CreateUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	username, err := paramString(p, 0, "username")
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		JoinedAt: time.Now().UTC(),
	}
	if err := u.users.Create(c.Request.Context(), user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser handles tuiter.update_user [user_id, profile_photo, header_image]
func (u *UserAPI) UpdateUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	userID, err := paramInt64(p, 0, "user_id")
	if err != nil {
		return nil, err
	}

	user, err := u.users.Get(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &models.NotFoundError{Kind: "user", ID: userID}
	}

	if photo, err := paramString(p, 1, "profile_photo"); err == nil {
		user.ProfilePhoto = photo
	}
	if header, err := paramString(p, 2, "header_image"); err == nil {
		user.HeaderImage = header
	}
	if err := u.users.Update(c.Request.Context(), user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser handles tuiter.delete_user [user_id]
func (u *UserAPI) DeleteUser(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	userID, err := paramInt64(p, 0, "user_id")
	if err != nil {
		return nil, err
	}
	existed, err := u.users.Delete(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	return gin.H{"deleted": existed}, nil
}
