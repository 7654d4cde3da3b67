package models

import (
	"time"
)

// FollowEdge represents a directed follow relationship: the follower
// user follows the followed user. At most one edge exists per ordered
// pair.
type FollowEdge struct {
	FollowerID int64     `gorm:"primaryKey;column:follower" json:"userFollowing"`
	FollowedID int64     `gorm:"primaryKey;column:followed" json:"userFollowed"`
	CreatedAt  time.Time `gorm:"not null;column:created_at" json:"createdAt"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID" json:"-"`
	Followed *User `gorm:"foreignKey:FollowedID;references:ID" json:"-"`
}

// TableName specifies the table name for FollowEdge
func (FollowEdge) TableName() string {
	return "tuiter_follows"
}
