package feed

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tuiter/tuiter/internal/models"
	"github.com/tuiter/tuiter/pkg/logging"
	"github.com/tuiter/tuiter/pkg/telemetry"
)

// ReactionStore is the collaborator contract for like/dislike lookups
type ReactionStore interface {
	FindLike(ctx context.Context, userID, tuitID int64) (*models.Reaction, error)
	FindDislike(ctx context.Context, userID, tuitID int64) (*models.Reaction, error)
}

// UserStore is the collaborator contract for user reads
type UserStore interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// FollowGraph is the follow-state surface the annotator consumes,
// satisfied by the graph service.
type FollowGraph interface {
	IsFollowing(ctx context.Context, sourceID, targetID int64) (bool, error)
	FollowingIDs(ctx context.Context, userID int64) ([]int64, error)
}

const defaultMaxConcurrency = 8

// Annotator produces viewer-relative views of tuit and user
// collections. It is read-only and holds no state across calls; all
// per-entity lookups within one call fan out concurrently and join
// before any result is returned.
type Annotator struct {
	reactions      ReactionStore
	users          UserStore
	graph          FollowGraph
	maxConcurrency int
	logger         *zap.Logger
}

// NewAnnotator creates a new feed annotator
func NewAnnotator(reactions ReactionStore, users UserStore, followGraph FollowGraph, maxConcurrency int) *Annotator {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Annotator{
		reactions:      reactions,
		users:          users,
		graph:          followGraph,
		maxConcurrency: maxConcurrency,
		logger:         logging.GetLogger().With(zap.String("component", "feed-annotator")),
	}
}

// AnnotateReactions marks each tuit with likedByMe, dislikedByMe and
// postedByMe relative to the viewer, and resolves the author. Like and
// dislike are looked up independently; both can be true at once. A
// single tuit failing to annotate (dangling author, failed reaction
// lookup) keeps its flags at false rather than failing the batch.
func (a *Annotator) AnnotateReactions(ctx context.Context, viewerID int64, tuits []*models.Tuit) ([]*models.AnnotatedTuit, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.annotate_reactions", telemetry.WithViewer(viewerID))
	defer span.End()

	likes := make([]*models.Reaction, len(tuits))
	dislikes := make([]*models.Reaction, len(tuits))
	authors := make([]*models.User, len(tuits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)
	for i, tuit := range tuits {
		i, tuit := i, tuit
		g.Go(func() error {
			like, err := a.reactions.FindLike(gctx, viewerID, tuit.ID)
			if err != nil {
				a.logger.Debug("Like lookup failed", zap.Int64("tuit", tuit.ID), zap.Error(err))
				return nil
			}
			likes[i] = like
			return nil
		})
		g.Go(func() error {
			dislike, err := a.reactions.FindDislike(gctx, viewerID, tuit.ID)
			if err != nil {
				a.logger.Debug("Dislike lookup failed", zap.Int64("tuit", tuit.ID), zap.Error(err))
				return nil
			}
			dislikes[i] = dislike
			return nil
		})
		g.Go(func() error {
			author, err := a.users.Get(gctx, tuit.PostedByID)
			if err != nil {
				a.logger.Debug("Author lookup failed", zap.Int64("tuit", tuit.ID), zap.Error(err))
				return nil
			}
			authors[i] = author
			return nil
		})
	}
	g.Wait()

	annotated := make([]*models.AnnotatedTuit, len(tuits))
	for i, tuit := range tuits {
		annotated[i] = &models.AnnotatedTuit{
			Tuit:         tuit,
			PostedBy:     authors[i],
			LikedByMe:    likes[i] != nil,
			DislikedByMe: dislikes[i] != nil,
			PostedByMe:   authors[i] != nil && tuit.PostedByID == viewerID,
		}
	}
	return annotated, nil
}

// AnnotateFollowState marks each user with followedByMe relative to the
// viewer. Per-user lookup failures default to false.
func (a *Annotator) AnnotateFollowState(ctx context.Context, viewerID int64, users []*models.User) ([]*models.AnnotatedUser, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.annotate_follow_state", telemetry.WithViewer(viewerID))
	defer span.End()

	followed := make([]bool, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			isFollowing, err := a.graph.IsFollowing(gctx, viewerID, user.ID)
			if err != nil {
				a.logger.Debug("Follow state lookup failed", zap.Int64("user", user.ID), zap.Error(err))
				return nil
			}
			followed[i] = isFollowing
			return nil
		})
	}
	g.Wait()

	annotated := make([]*models.AnnotatedUser, len(users))
	for i, user := range users {
		annotated[i] = &models.AnnotatedUser{
			User:         user,
			FollowedByMe: followed[i],
		}
	}
	return annotated, nil
}

// FilterByFollowReachability keeps the tuits authored by the viewer or
// by someone the viewer follows, marks them canShow, and drops the
// rest. Relative order is preserved. Failing to load the viewer's
// following set fails the whole call; there is no partial fallback
// here.
func (a *Annotator) FilterByFollowReachability(ctx context.Context, viewerID int64, tuits []*models.AnnotatedTuit) ([]*models.AnnotatedTuit, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.filter_reachability", telemetry.WithViewer(viewerID))
	defer span.End()

	followingIDs, err := a.graph.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	following := make(map[int64]struct{}, len(followingIDs))
	for _, id := range followingIDs {
		following[id] = struct{}{}
	}

	reachable := make([]*models.AnnotatedTuit, 0, len(tuits))
	for _, tuit := range tuits {
		if _, ok := following[tuit.PostedByID]; !ok && tuit.PostedByID != viewerID {
			continue
		}
		tuit.CanShow = true
		reachable = append(reachable, tuit)
	}
	return reachable, nil
}

// FindFollowSuggestions returns the candidates the viewer does not
// already follow and who are not the viewer, annotated with their
// (necessarily false) follow state.
func (a *Annotator) FindFollowSuggestions(ctx context.Context, viewerID int64, candidates []*models.User) ([]*models.AnnotatedUser, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.find_suggestions", telemetry.WithViewer(viewerID))
	defer span.End()

	annotated, err := a.AnnotateFollowState(ctx, viewerID, candidates)
	if err != nil {
		return nil, err
	}

	suggestions := make([]*models.AnnotatedUser, 0, len(annotated))
	for _, user := range annotated {
		if user.FollowedByMe || user.ID == viewerID {
			continue
		}
		suggestions = append(suggestions, user)
	}
	return suggestions, nil
}
