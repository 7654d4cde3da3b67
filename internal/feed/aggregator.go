package feed

import (
	"context"

	"github.com/tuiter/tuiter/internal/models"
	"github.com/tuiter/tuiter/pkg/telemetry"
)

// TuitStore is the collaborator contract for tuit reads
type TuitStore interface {
	Get(ctx context.Context, id int64) (*models.Tuit, error)
	ListAll(ctx context.Context) ([]*models.Tuit, error)
	ListByAuthor(ctx context.Context, userID int64) ([]*models.Tuit, error)
	ListWithMedia(ctx context.Context, userID int64) ([]*models.Tuit, error)
}

// FollowLister is the listing surface of the follow graph the
// aggregator consumes, satisfied by the graph service.
type FollowLister interface {
	FindFollowersOf(ctx context.Context, userID int64) ([]*models.User, error)
	FindFollowingOf(ctx context.Context, userID int64) ([]*models.User, error)
}

// Aggregator composes store reads with the annotator into the
// viewer-relative collections the boundary layer serves. Each operation
// takes an explicit viewer id; the viewer must resolve or the whole
// operation fails.
type Aggregator struct {
	tuits     TuitStore
	users     UserStore
	graph     FollowLister
	annotator *Annotator
}

// NewAggregator creates a new aggregator
func NewAggregator(tuits TuitStore, users UserStore, followGraph FollowLister, annotator *Annotator) *Aggregator {
	return &Aggregator{
		tuits:     tuits,
		users:     users,
		graph:     followGraph,
		annotator: annotator,
	}
}

// ensureViewer verifies the viewer id resolves
func (ag *Aggregator) ensureViewer(ctx context.Context, viewerID int64) error {
	viewer, err := ag.users.Get(ctx, viewerID)
	if err != nil {
		return &models.TransientStoreError{Op: "GetUser", Err: err}
	}
	if viewer == nil {
		return &models.NotFoundError{Kind: "viewer", ID: viewerID}
	}
	return nil
}

// HomeFeed returns the viewer's feed: their own tuits and tuits from
// people they follow, reaction-annotated, newest first.
func (ag *Aggregator) HomeFeed(ctx context.Context, viewerID int64) ([]*models.AnnotatedTuit, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.home", telemetry.WithViewer(viewerID))
	defer span.End()

	if err := ag.ensureViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	tuits, err := ag.tuits.ListAll(ctx)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListAll", Err: err}
	}
	annotated, err := ag.annotator.AnnotateReactions(ctx, viewerID, tuits)
	if err != nil {
		return nil, err
	}
	return ag.annotator.FilterByFollowReachability(ctx, viewerID, annotated)
}

// AllTuits returns every tuit, reaction-annotated for the viewer
func (ag *Aggregator) AllTuits(ctx context.Context, viewerID int64) ([]*models.AnnotatedTuit, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.all_tuits", telemetry.WithViewer(viewerID))
	defer span.End()

	if err := ag.ensureViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	tuits, err := ag.tuits.ListAll(ctx)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListAll", Err: err}
	}
	return ag.annotator.AnnotateReactions(ctx, viewerID, tuits)
}

// UserTuits returns one author's tuits, reaction-annotated for the viewer
func (ag *Aggregator) UserTuits(ctx context.Context, viewerID, authorID int64) ([]*models.AnnotatedTuit, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.user_tuits", telemetry.WithViewer(viewerID))
	defer span.End()

	if err := ag.ensureViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	tuits, err := ag.tuits.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListByAuthor", Err: err}
	}
	return ag.annotator.AnnotateReactions(ctx, viewerID, tuits)
}

// MediaTuits returns one author's media-carrying tuits,
// reaction-annotated for the viewer
func (ag *Aggregator) MediaTuits(ctx context.Context, viewerID, authorID int64) ([]*models.AnnotatedTuit, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.media_tuits", telemetry.WithViewer(viewerID))
	defer span.End()

	if err := ag.ensureViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	tuits, err := ag.tuits.ListWithMedia(ctx, authorID)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListWithMedia", Err: err}
	}
	return ag.annotator.AnnotateReactions(ctx, viewerID, tuits)
}

// Followers returns the users following userID, annotated with the
// viewer's follow state toward each of them
func (ag *Aggregator) Followers(ctx context.Context, viewerID, userID int64) ([]*models.AnnotatedUser, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.followers", telemetry.WithViewer(viewerID))
	defer span.End()

	if err := ag.ensureViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	followers, err := ag.graph.FindFollowersOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ag.annotator.AnnotateFollowState(ctx, viewerID, followers)
}

// Following returns the users userID follows, annotated with the
// viewer's follow state toward each of them
func (ag *Aggregator) Following(ctx context.Context, viewerID, userID int64) ([]*models.AnnotatedUser, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.following", telemetry.WithViewer(viewerID))
	defer span.End()

	if err := ag.ensureViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	following, err := ag.graph.FindFollowingOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ag.annotator.AnnotateFollowState(ctx, viewerID, following)
}

// Suggestions returns users the viewer might want to follow: everyone
// they do not already follow, excluding themselves
func (ag *Aggregator) Suggestions(ctx context.Context, viewerID int64) ([]*models.AnnotatedUser, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.suggestions", telemetry.WithViewer(viewerID))
	defer span.End()

	if err := ag.ensureViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	candidates, err := ag.users.List(ctx)
	if err != nil {
		return nil, &models.TransientStoreError{Op: "ListUsers", Err: err}
	}
	return ag.annotator.FindFollowSuggestions(ctx, viewerID, candidates)
}
