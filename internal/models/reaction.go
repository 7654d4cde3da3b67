package models

import (
	"time"
)

// Reaction polarity constants
const (
	PolarityLike    int16 = 1
	PolarityDislike int16 = 2
)

// Reaction represents a like or dislike relationship between a user and
// a tuit. At most one reaction of each polarity exists per (user, tuit)
// pair. A user may hold a like and a dislike on the same tuit at once;
// the polarities are independent, not mutually exclusive.
type Reaction struct {
	UserID    int64     `gorm:"primaryKey;column:user_id" json:"likedBy"`
	TuitID    int64     `gorm:"primaryKey;column:tuit_id" json:"tuit"`
	Polarity  int16     `gorm:"primaryKey;type:smallint;not null;column:polarity" json:"-"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"createdAt"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Tuit *Tuit `gorm:"foreignKey:TuitID;references:ID" json:"-"`
}

// TableName specifies the table name for Reaction
func (Reaction) TableName() string {
	return "tuiter_reactions"
}
