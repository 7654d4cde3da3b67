package models

// AnnotatedTuit is a read-only, request-scoped view of a tuit enriched
// with viewer-relative flags. Never persisted.
type AnnotatedTuit struct {
	*Tuit

	PostedBy     *User `json:"postedBy,omitempty"`
	LikedByMe    bool  `json:"likedByMe"`
	DislikedByMe bool  `json:"dislikedByMe"`
	PostedByMe   bool  `json:"postedByMe"`
	CanShow      bool  `json:"canShow"`
}

// AnnotatedUser is a read-only, request-scoped view of a user enriched
// with viewer-relative follow state. Never persisted.
type AnnotatedUser struct {
	*User

	FollowedByMe bool `json:"followedByMe"`
}
