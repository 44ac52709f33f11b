package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile represents a user's public identity. Rows are created by the
// account flows outside this service; the feed only reads them.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`

	// Credential material lives here only so the seeded dev environment can
	// mint tokens; session issuance is not this service's concern.
	Email        string  `gorm:"uniqueIndex" json:"-"`
	PasswordHash *string `gorm:"type:text" json:"-"`
}

// BeforeCreate assigns a UUID when the database does not
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Post is a short text entry. Owned exclusively by AuthorID; content and
// updated_at are the only mutable fields.
type Post struct {
	ID       string  `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID string  `gorm:"not null;index:idx_posts_author_created,priority:1" json:"author_id"`
	Author   Profile `gorm:"foreignKey:AuthorID" json:"-"`

	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"index:idx_posts_author_created,priority:2;index:idx_posts_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the database does not
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Like is a join row: its existence is the entire payload. The composite
// unique index enforces at most one like per (post, user) pair.
type Like struct {
	PostID    string    `gorm:"primaryKey;uniqueIndex:idx_likes_post_user,priority:1" json:"post_id"`
	UserID    string    `gorm:"primaryKey;uniqueIndex:idx_likes_post_user,priority:2" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is the denormalized shape handed to clients: the post joined with
// its author's profile and the like aggregate for the requesting identity.
// It is assembled fresh per request and never persisted or cached beyond the
// current page's in-memory list.
type PostView struct {
	Post
	Profile   Profile `json:"profile"`
	LikeCount int     `json:"like_count"`
	IsLiked   bool    `json:"is_liked"`

	// Pending marks a locally synthesized placeholder that has not been
	// confirmed by the server yet. Never set on server responses.
	Pending bool `json:"pending,omitempty"`
}
