package models

import (
	"database/sql"
	"time"
)

// User represents a Tuiter user
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username string `gorm:"type:varchar(32);not null;uniqueIndex:tuiter_users_ux1;column:username" json:"username"`
	JoinedAt time.Time `gorm:"not null;column:joined_at" json:"joined"`

	// Profile fields
	DisplayName  sql.NullString `gorm:"type:varchar(50);column:display_name" json:"-"`
	Bio          sql.NullString `gorm:"type:varchar(160);column:bio" json:"-"`
	ProfilePhoto string         `gorm:"type:varchar(1024);not null;default:'';column:profile_photo" json:"profilePhoto"`
	HeaderImage  string         `gorm:"type:varchar(1024);not null;default:'';column:header_image" json:"headerImage"`

	// Cached projections of follow-edge counts. Written only by the
	// follow graph service; never a source of truth on their own.
	FollowerCount  int64 `gorm:"not null;default:0;column:follower_count" json:"followers"`
	FollowingCount int64 `gorm:"not null;default:0;column:following_count" json:"followings"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "tuiter_users"
}
