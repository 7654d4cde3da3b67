package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/tuiter/tuiter/internal/models"
)

// fakeTuitStore is an in-memory TuitStore preserving insertion order
type fakeTuitStore struct {
	tuits []*models.Tuit
}

func (s *fakeTuitStore) Get(ctx context.Context, id int64) (*models.Tuit, error) {
	for _, t := range s.tuits {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (s *fakeTuitStore) ListAll(ctx context.Context) ([]*models.Tuit, error) {
	return s.tuits, nil
}

func (s *fakeTuitStore) ListByAuthor(ctx context.Context, userID int64) ([]*models.Tuit, error) {
	var out []*models.Tuit
	for _, t := range s.tuits {
		if t.PostedByID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTuitStore) ListWithMedia(ctx context.Context, userID int64) ([]*models.Tuit, error) {
	var out []*models.Tuit
	for _, t := range s.tuits {
		if t.PostedByID == userID && t.HasMedia() {
			out = append(out, t)
		}
	}
	return out, nil
}

func newTestAggregator(users *fakeUserStore, g *fakeFollowGraph, tuits *fakeTuitStore) *Aggregator {
	annotator := NewAnnotator(&fakeReactionStore{}, users, g, 4)
	return NewAggregator(tuits, users, g, annotator)
}

func TestHomeFeed(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(2), user(viewerID)}}
	g := &fakeFollowGraph{
		users:   users,
		follows: map[followPair]bool{{viewerID, 1}: true},
	}
	tuits := &fakeTuitStore{tuits: []*models.Tuit{
		tuit(100, 1),
		tuit(101, 2),
		tuit(102, viewerID),
	}}
	ag := newTestAggregator(users, g, tuits)

	feed, err := ag.HomeFeed(ctx, viewerID)
	if err != nil {
		t.Fatalf("HomeFeed() error: %v", err)
	}
	want := []int64{100, 102}
	if len(feed) != len(want) {
		t.Fatalf("expected %d feed tuits, got %d", len(want), len(feed))
	}
	for i, tuitID := range want {
		if feed[i].ID != tuitID {
			t.Errorf("feed[%d].ID = %d, want %d", i, feed[i].ID, tuitID)
		}
	}
}

func TestHomeFeed_UnknownViewer(t *testing.T) {
	ctx := context.Background()

	users := &fakeUserStore{}
	g := &fakeFollowGraph{users: users}
	ag := newTestAggregator(users, g, &fakeTuitStore{})

	_, err := ag.HomeFeed(ctx, 404)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("HomeFeed() with unknown viewer = %v, want ErrNotFound", err)
	}
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) || notFound.Kind != "viewer" {
		t.Errorf("expected viewer NotFoundError, got %v", err)
	}
}

func TestUserTuits(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(2), user(viewerID)}}
	g := &fakeFollowGraph{users: users}
	tuits := &fakeTuitStore{tuits: []*models.Tuit{
		tuit(100, 1),
		tuit(101, 2),
		tuit(102, 1),
	}}
	ag := newTestAggregator(users, g, tuits)

	got, err := ag.UserTuits(ctx, viewerID, 1)
	if err != nil {
		t.Fatalf("UserTuits() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 100 || got[1].ID != 102 {
		t.Errorf("UserTuits(1) returned unexpected set: %+v", got)
	}
}

func TestMediaTuits(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	withImage := tuit(100, 1)
	withImage.Image = []string{"https://example.com/pic.png"}
	withYoutube := tuit(101, 1)
	withYoutube.Youtube = "dQw4w9WgXcQ"

	users := &fakeUserStore{users: []*models.User{user(1), user(viewerID)}}
	g := &fakeFollowGraph{users: users}
	tuits := &fakeTuitStore{tuits: []*models.Tuit{withImage, withYoutube, tuit(102, 1)}}
	ag := newTestAggregator(users, g, tuits)

	got, err := ag.MediaTuits(ctx, viewerID, 1)
	if err != nil {
		t.Fatalf("MediaTuits() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 media tuits, got %d", len(got))
	}
	if got[0].ID != 100 || got[1].ID != 101 {
		t.Errorf("media tuits = [%d %d], want [100 101]", got[0].ID, got[1].ID)
	}
}

func TestFollowers_AnnotatedForViewer(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(2), user(viewerID)}}
	g := &fakeFollowGraph{
		users: users,
		follows: map[followPair]bool{
			{1, 2}:        true, // user 1 follows user 2
			{viewerID, 2}: true,
			{viewerID, 1}: true, // viewer follows 1 but not vice versa
		},
	}
	ag := newTestAggregator(users, g, &fakeTuitStore{})

	followers, err := ag.Followers(ctx, viewerID, 2)
	if err != nil {
		t.Fatalf("Followers() error: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers of user 2, got %d", len(followers))
	}
	if followers[0].ID != 1 || !followers[0].FollowedByMe {
		t.Errorf("follower 1 = %+v, want followedByMe=true", followers[0])
	}
	if followers[1].ID != viewerID || followers[1].FollowedByMe {
		t.Errorf("viewer in follower list must not be followedByMe")
	}
}

func TestFollowing_AnnotatedForViewer(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(2), user(viewerID)}}
	g := &fakeFollowGraph{
		users: users,
		follows: map[followPair]bool{
			{1, 2}:        true,
			{viewerID, 2}: true,
		},
	}
	ag := newTestAggregator(users, g, &fakeTuitStore{})

	following, err := ag.Following(ctx, viewerID, 1)
	if err != nil {
		t.Fatalf("Following() error: %v", err)
	}
	if len(following) != 1 || following[0].ID != 2 {
		t.Fatalf("Following(1) = %+v, want [user 2]", following)
	}
	if !following[0].FollowedByMe {
		t.Error("viewer also follows user 2; followedByMe must be true")
	}
}

func TestSuggestions(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(2), user(3), user(viewerID)}}
	g := &fakeFollowGraph{
		users:   users,
		follows: map[followPair]bool{{viewerID, 1}: true},
	}
	ag := newTestAggregator(users, g, &fakeTuitStore{})

	suggestions, err := ag.Suggestions(ctx, viewerID)
	if err != nil {
		t.Fatalf("Suggestions() error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].ID != 2 || suggestions[1].ID != 3 {
		t.Errorf("suggestions = [%d %d], want [2 3]", suggestions[0].ID, suggestions[1].ID)
	}
}
