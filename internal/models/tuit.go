package models

import (
	"time"
)

// Stats holds the denormalized engagement counts embedded in a tuit.
// Updated by reaction components outside this core.
type Stats struct {
	Replies  int64 `gorm:"not null;default:0;column:stats_replies" json:"replies"`
	Retuits  int64 `gorm:"not null;default:0;column:stats_retuits" json:"retuits"`
	Likes    int64 `gorm:"not null;default:0;column:stats_likes" json:"likes"`
	Dislikes int64 `gorm:"not null;default:0;column:stats_dislikes" json:"dislikes"`
}

// Tuit represents a tuit posted on Tuiter
type Tuit struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Content    string    `gorm:"type:text;not null;column:content" json:"tuit"`
	PostedByID int64     `gorm:"not null;index;column:posted_by" json:"-"`
	PostedOn   time.Time `gorm:"not null;column:posted_on" json:"postedOn"`

	Stats Stats `gorm:"embedded" json:"stats"`

	// Optional media references
	Image   []string `gorm:"serializer:json;type:text;column:image" json:"image,omitempty"`
	Youtube string   `gorm:"type:varchar(1024);not null;default:'';column:youtube" json:"youtube,omitempty"`

	// Relationships
	Author *User `gorm:"foreignKey:PostedByID;references:ID" json:"-"`
}

// TableName specifies the table name for Tuit
func (Tuit) TableName() string {
	return "tuiter_tuits"
}

// HasMedia reports whether the tuit carries any media reference.
func (t *Tuit) HasMedia() bool {
	return len(t.Image) > 0 || t.Youtube != ""
}
