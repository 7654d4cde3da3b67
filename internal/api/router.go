package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuiter/tuiter/internal/cache"
	"github.com/tuiter/tuiter/internal/db"
	"github.com/tuiter/tuiter/internal/feed"
	"github.com/tuiter/tuiter/internal/graph"
	"github.com/tuiter/tuiter/pkg/logging"
)

// Router wires the JSON-RPC methods onto the gin engine
type Router struct {
	handler *JSONRPCHandler
	db      *db.DB
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewRouter creates a new API router over the assembled services
func NewRouter(database *db.DB, redisCache *cache.Cache, graphService *graph.Service, aggregator *feed.Aggregator, tuits TuitStore, users UserStore, requestTimeout time.Duration) *Router {
	handler := NewJSONRPCHandler(requestTimeout)
	router := &Router{
		handler: handler,
		db:      database,
		cache:   redisCache,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}

	followAPI := NewFollowAPI(graphService, aggregator, users)
	tuitAPI := NewTuitAPI(tuits, users, aggregator)
	userAPI := NewUserAPI(users)

	handler.RegisterMethod("tuiter.follow", followAPI.Follow)
	handler.RegisterMethod("tuiter.unfollow", followAPI.Unfollow)
	handler.RegisterMethod("tuiter.remove_follower", followAPI.RemoveFollower)
	handler.RegisterMethod("tuiter.toggle_follow", followAPI.ToggleFollow)
	handler.RegisterMethod("tuiter.is_following", followAPI.IsFollowing)
	handler.RegisterMethod("tuiter.get_followers", followAPI.GetFollowers)
	handler.RegisterMethod("tuiter.get_following", followAPI.GetFollowing)
	handler.RegisterMethod("tuiter.get_suggestions", followAPI.GetSuggestions)
	handler.RegisterMethod("tuiter.get_follows", followAPI.GetFollows)
	handler.RegisterMethod("tuiter.get_follow_count", followAPI.GetFollowCount)
	handler.RegisterMethod("tuiter.check_consistency", followAPI.CheckConsistency)

	handler.RegisterMethod("tuiter.get_feed", tuitAPI.GetFeed)
	handler.RegisterMethod("tuiter.get_tuits", tuitAPI.GetTuits)
	handler.RegisterMethod("tuiter.get_user_tuits", tuitAPI.GetUserTuits)
	handler.RegisterMethod("tuiter.get_media_tuits", tuitAPI.GetMediaTuits)
	handler.RegisterMethod("tuiter.get_tuit", tuitAPI.GetTuit)
	handler.RegisterMethod("tuiter.create_tuit", tuitAPI.CreateTuit)
	handler.RegisterMethod("tuiter.update_tuit", tuitAPI.UpdateTuit)
	handler.RegisterMethod("tuiter.delete_tuit", tuitAPI.DeleteTuit)
	handler.RegisterMethod("tuiter.delete_all_tuits", tuitAPI.DeleteAllTuits)

	handler.RegisterMethod("tuiter.get_users", userAPI.GetUsers)
	handler.RegisterMethod("tuiter.get_user", userAPI.GetUser)
	handler.RegisterMethod("tuiter.create_user", userAPI.CreateUser)
	handler.RegisterMethod("tuiter.update_user", userAPI.UpdateUser)
	handler.RegisterMethod("tuiter.delete_user", userAPI.DeleteUser)

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	engine.POST("/", r.handler.Handle)
}

// healthHandler reports database and cache health
func (r *Router) healthHandler(c *gin.Context) {
	status := "OK"
	code := http.StatusOK

	if err := r.db.Health(c.Request.Context()); err != nil {
		status = "database unavailable"
		code = http.StatusServiceUnavailable
	} else if err := r.cache.Health(c.Request.Context()); err != nil && err != cache.ErrCacheDisabled {
		status = "cache unavailable"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "tuiter-api",
	})
}
