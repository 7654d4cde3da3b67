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

// TuitStore is the full tuit persistence surface the boundary consumes:
// the read side the aggregator uses plus the tuit CRUD write side.
type TuitStore interface {
	feed.TuitStore
	Create(ctx context.Context, tuit *models.Tuit) error
	Update(ctx context.Context, tuit *models.Tuit) error
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
}

// TuitAPI exposes tuit listing and CRUD over JSON-RPC
type TuitAPI struct {
	tuits      TuitStore
	users      feed.UserStore
	aggregator *feed.Aggregator
	logger     *zap.Logger
}

// NewTuitAPI creates a new tuit API
func NewTuitAPI(tuits TuitStore, users feed.UserStore, aggregator *feed.Aggregator) *TuitAPI {
	return &TuitAPI{
		tuits:      tuits,
		users:      users,
		aggregator: aggregator,
		logger:     logging.GetLogger().With(zap.String("component", "api-tuits")),
	}
}

// GetFeed handles tuiter.get_feed [viewer_id]: the viewer's own tuits
// plus tuits from people they follow
func (t *TuitAPI) GetFeed(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	return t.aggregator.HomeFeed(c.Request.Context(), viewerID)
}

// GetTuits handles tuiter.get_tuits [viewer_id]: every tuit, annotated
// for the viewer
func (t *TuitAPI) GetTuits(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	return t.aggregator.AllTuits(c.Request.Context(), viewerID)
}

// GetUserTuits handles tuiter.get_user_tuits [viewer_id, author]
// where author is an id or a username
func (t *TuitAPI) GetUserTuits(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	author, err := resolveUserParam(c.Request.Context(), t.users, p, 1, "author")
	if err != nil {
		return nil, err
	}
	return t.aggregator.UserTuits(c.Request.Context(), viewerID, author.ID)
}

// GetMediaTuits handles tuiter.get_media_tuits [viewer_id, author]
func (t *TuitAPI) GetMediaTuits(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	author, err := resolveUserParam(c.Request.Context(), t.users, p, 1, "author")
	if err != nil {
		return nil, err
	}
	return t.aggregator.MediaTuits(c.Request.Context(), viewerID, author.ID)
}

// GetTuit handles tuiter.get_tuit [tuit_id]
func (t *TuitAPI) GetTuit(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	tuitID, err := paramInt64(p, 0, "tuit_id")
	if err != nil {
		return nil, err
	}
	tuit, err := t.tuits.Get(c.Request.Context(), tuitID)
	if err != nil {
		return nil, err
	}
	if tuit == nil {
		return nil, &models.NotFoundError{Kind: "tuit", ID: tuitID}
	}
	return tuit, nil
}

// CreateTuit handles tuiter.create_tuit [viewer_id, content]
func (t *TuitAPI) CreateTuit(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	viewerID, err := paramInt64(p, 0, "viewer_id")
	if err != nil {
		return nil, err
	}
	content, err := paramString(p, 1, "content")
	if err != nil {
		return nil, err
	}

	author, err := t.users.Get(c.Request.Context(), viewerID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, &models.NotFoundError{Kind: "viewer", ID: viewerID}
	}

	tuit := &models.Tuit{
		Content:    content,
		PostedByID: viewerID,
		PostedOn:   time.Now().UTC(),
	}
	if err := t.tuits.Create(c.Request.Context(), tuit); err != nil {
		return nil, err
	}
	return tuit, nil
}

// UpdateTuit handles tuiter.update_tuit [tuit_id, content]
func (t *TuitAPI) UpdateTuit(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	tuitID, err := paramInt64(p, 0, "tuit_id")
	if err != nil {
		return nil, err
	}
	content, err := paramString(p, 1, "content")
	if err != nil {
		return nil, err
	}

	tuit, err := t.tuits.Get(c.Request.Context(), tuitID)
	if err != nil {
		return nil, err
	}
	if tuit == nil {
		return nil, &models.NotFoundError{Kind: "tuit", ID: tuitID}
	}

	tuit.Content = content
	if err := t.tuits.Update(c.Request.Context(), tuit); err != nil {
		return nil, err
	}
	return tuit, nil
}

// DeleteTuit handles tuiter.delete_tuit [tuit_id]
func (t *TuitAPI) DeleteTuit(c *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	tuitID, err := paramInt64(p, 0, "tuit_id")
	if err != nil {
		return nil, err
	}
	existed, err := t.tuits.Delete(c.Request.Context(), tuitID)
	if err != nil {
		return nil, err
	}
	return gin.H{"deleted": existed}, nil
}

// DeleteAllTuits handles tuiter.delete_all_tuits []
func (t *TuitAPI) DeleteAllTuits(c *gin.Context, params json.RawMessage) (interface{}, error) {
	if err := t.tuits.DeleteAll(c.Request.Context()); err != nil {
		return nil, err
	}
	return gin.H{"status": "ok"}, nil
}
