package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tuiter/tuiter/internal/models"
)

type reactionKey struct {
	userID int64
	tuitID int64
}

// fakeReactionStore is an in-memory ReactionStore
type fakeReactionStore struct {
	likes    map[reactionKey]bool
	dislikes map[reactionKey]bool
	failing  bool
}

func (s *fakeReactionStore) FindLike(ctx context.Context, userID, tuitID int64) (*models.Reaction, error) {
	if s.failing {
		return nil, fmt.Errorf("simulated reaction store failure")
	}
	if s.likes[reactionKey{userID, tuitID}] {
		return &models.Reaction{UserID: userID, TuitID: tuitID, Polarity: models.PolarityLike}, nil
	}
	return nil, nil
}

func (s *fakeReactionStore) FindDislike(ctx context.Context, userID, tuitID int64) (*models.Reaction, error) {
	if s.failing {
		return nil, fmt.Errorf("simulated reaction store failure")
	}
	if s.dislikes[reactionKey{userID, tuitID}] {
		return &models.Reaction{UserID: userID, TuitID: tuitID, Polarity: models.PolarityDislike}, nil
	}
	return nil, nil
}

// fakeUserStore is an in-memory UserStore preserving listing order
type fakeUserStore struct {
	users []*models.User
}

func (s *fakeUserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) List(ctx context.Context) ([]*models.User, error) {
	return s.users, nil
}

type followPair struct {
	sourceID int64
	targetID int64
}

// fakeFollowGraph satisfies FollowGraph and FollowLister
type fakeFollowGraph struct {
	follows map[followPair]bool
	users   *fakeUserStore
}

func (g *fakeFollowGraph) IsFollowing(ctx context.Context, sourceID, targetID int64) (bool, error) {
	return g.follows[followPair{sourceID, targetID}], nil
}

func (g *fakeFollowGraph) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for pair := range g.follows {
		if pair.sourceID == userID && g.follows[pair] {
			ids = append(ids, pair.targetID)
		}
	}
	return ids, nil
}

func (g *fakeFollowGraph) FindFollowersOf(ctx context.Context, userID int64) ([]*models.User, error) {
	var followers []*models.User
	for _, u := range g.users.users {
		if g.follows[followPair{u.ID, userID}] {
			followers = append(followers, u)
		}
	}
	return followers, nil
}

func (g *fakeFollowGraph) FindFollowingOf(ctx context.Context, userID int64) ([]*models.User, error) {
	var following []*models.User
	for _, u := range g.users.users {
		if g.follows[followPair{userID, u.ID}] {
			following = append(following, u)
		}
	}
	return following, nil
}

func user(id int64) *models.User {
	return &models.User{ID: id, Username: fmt.Sprintf("user%d", id)}
}

func tuit(id, authorID int64) *models.Tuit {
	return &models.Tuit{
		ID:         id,
		Content:    fmt.Sprintf("tuit %d", id),
		PostedByID: authorID,
		PostedOn:   time.Now(),
	}
}

func TestAnnotateReactions(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(viewerID)}}
	reactions := &fakeReactionStore{
		likes:    map[reactionKey]bool{{viewerID, 100}: true},
		dislikes: map[reactionKey]bool{{viewerID, 100}: true},
	}
	a := NewAnnotator(reactions, users, &fakeFollowGraph{users: users}, 4)

	tuits := []*models.Tuit{
		tuit(100, 1),        // liked AND disliked by viewer
		tuit(101, viewerID), // viewer's own
		tuit(102, 1),        // no reactions
	}

	annotated, err := a.AnnotateReactions(ctx, viewerID, tuits)
	if err != nil {
		t.Fatalf("AnnotateReactions() error: %v", err)
	}
	if len(annotated) != 3 {
		t.Fatalf("expected 3 annotated tuits, got %d", len(annotated))
	}

	// Like and dislike are independent polarities; both can be true
	if !annotated[0].LikedByMe || !annotated[0].DislikedByMe {
		t.Errorf("tuit 100: likedByMe=%v dislikedByMe=%v, want both true",
			annotated[0].LikedByMe, annotated[0].DislikedByMe)
	}
	if annotated[0].PostedByMe {
		t.Error("tuit 100 marked postedByMe for a different author")
	}

	if !annotated[1].PostedByMe {
		t.Error("tuit 101 not marked postedByMe for the viewer")
	}
	if annotated[1].PostedBy == nil || annotated[1].PostedBy.ID != viewerID {
		t.Error("tuit 101 author not resolved")
	}

	if annotated[2].LikedByMe || annotated[2].DislikedByMe {
		t.Error("tuit 102 annotated with reactions the viewer never made")
	}
}

func TestAnnotateReactions_DanglingAuthor(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(viewerID)}}
	reactions := &fakeReactionStore{
		likes: map[reactionKey]bool{{viewerID, 100}: true},
	}
	a := NewAnnotator(reactions, users, &fakeFollowGraph{users: users}, 4)

	// Author 99 does not resolve; the tuit must still be annotated
	annotated, err := a.AnnotateReactions(ctx, viewerID, []*models.Tuit{tuit(100, 99)})
	if err != nil {
		t.Fatalf("AnnotateReactions() error: %v", err)
	}
	if annotated[0].PostedBy != nil {
		t.Error("dangling author resolved unexpectedly")
	}
	if annotated[0].PostedByMe {
		t.Error("postedByMe true for unresolvable author")
	}
	if !annotated[0].LikedByMe {
		t.Error("reaction annotation lost for tuit with dangling author")
	}
}

func TestAnnotateReactions_StoreFailureAbsorbed(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(viewerID)}}
	a := NewAnnotator(&fakeReactionStore{failing: true}, users, &fakeFollowGraph{users: users}, 4)

	annotated, err := a.AnnotateReactions(ctx, viewerID, []*models.Tuit{tuit(100, 1)})
	if err != nil {
		t.Fatalf("AnnotateReactions() with failing store error: %v", err)
	}
	if annotated[0].LikedByMe || annotated[0].DislikedByMe {
		t.Error("failed reaction lookups should default to false")
	}
}

func TestAnnotateFollowState(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(2), user(viewerID)}}
	g := &fakeFollowGraph{
		users:   users,
		follows: map[followPair]bool{{viewerID, 1}: true},
	}
	a := NewAnnotator(&fakeReactionStore{}, users, g, 4)

	annotated, err := a.AnnotateFollowState(ctx, viewerID, users.users)
	if err != nil {
		t.Fatalf("AnnotateFollowState() error: %v", err)
	}
	if !annotated[0].FollowedByMe {
		t.Error("user 1 not marked followedByMe")
	}
	if annotated[1].FollowedByMe {
		t.Error("user 2 marked followedByMe without an edge")
	}
	if annotated[2].FollowedByMe {
		t.Error("viewer marked followedByMe")
	}
}

func TestFilterByFollowReachability(t *testing.T) {
	ctx := context.Background()
	const (
		viewerID = 10
		userA    = 1
		userB    = 2
		userC    = 3
	)

	users := &fakeUserStore{users: []*models.User{user(userA), user(userB), user(userC), user(viewerID)}}
	g := &fakeFollowGraph{
		users: users,
		follows: map[followPair]bool{
			{viewerID, userA}: true,
			{viewerID, userC}: true,
		},
	}
	a := NewAnnotator(&fakeReactionStore{}, users, g, 4)

	tuits := []*models.Tuit{
		tuit(100, userA),
		tuit(101, userB),
		tuit(102, userC),
		tuit(103, viewerID),
	}
	annotated, err := a.AnnotateReactions(ctx, viewerID, tuits)
	if err != nil {
		t.Fatalf("AnnotateReactions() error: %v", err)
	}

	reachable, err := a.FilterByFollowReachability(ctx, viewerID, annotated)
	if err != nil {
		t.Fatalf("FilterByFollowReachability() error: %v", err)
	}

	// B is not followed: its tuit is dropped, not kept with a false flag
	want := []int64{100, 102, 103}
	if len(reachable) != len(want) {
		t.Fatalf("expected %d reachable tuits, got %d", len(want), len(reachable))
	}
	for i, tuitID := range want {
		if reachable[i].ID != tuitID {
			t.Errorf("reachable[%d].ID = %d, want %d (order must be preserved)", i, reachable[i].ID, tuitID)
		}
		if !reachable[i].CanShow {
			t.Errorf("reachable tuit %d not marked canShow", tuitID)
		}
	}
}

func TestFindFollowSuggestions(t *testing.T) {
	ctx := context.Background()
	const viewerID = 10

	users := &fakeUserStore{users: []*models.User{user(1), user(2), user(viewerID)}}
	g := &fakeFollowGraph{
		users:   users,
		follows: map[followPair]bool{{viewerID, 1}: true},
	}
	a := NewAnnotator(&fakeReactionStore{}, users, g, 4)

	suggestions, err := a.FindFollowSuggestions(ctx, viewerID, users.users)
	if err != nil {
		t.Fatalf("FindFollowSuggestions() error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	if suggestions[0].ID != 2 {
		t.Errorf("suggestion = user %d, want user 2", suggestions[0].ID)
	}
}
