// Package domain defines the persistence models for users, posts, and likes.
// These types are mapped with GORM and form the core data layer of the
// application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. The username is unique across all
// users and the password is stored only as a one-way bcrypt hash.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: unique handle, 2..64 characters, NFC-normalized on creation.
//   - PasswordHash: bcrypt digest; never serialized to JSON.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID           string         `json:"id"       gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	PasswordHash string         `json:"-"        gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"        gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Post represents a piece of content authored by a user. The author is always
// the authenticated caller at creation time; it is never taken from the
// request body.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - AuthorID: identifier of the post author; indexed for listing by author.
//   - Title / Content: required text fields (min length 1).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Post struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	AuthorID  string         `json:"author_id" gorm:"type:char(36);not null;index:idx_posts_author"`
	Title     string         `json:"title"     gorm:"type:varchar(255);not null"`
	Content   string         `json:"content"   gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Like records that a user liked a post. There is intentionally no uniqueness
// over (post_id, user_id): repeated likes produce separate rows, matching the
// upstream data model.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - PostID: liked post; indexed for deletion by post.
//   - UserID: acting user, always the authenticated caller.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Like struct {
	ID        string         `json:"id"      gorm:"type:char(36);primaryKey"`
	PostID    string         `json:"post_id" gorm:"type:char(36);not null;index:idx_likes_post"`
	UserID    string         `json:"user_id" gorm:"type:char(36);not null;index:idx_likes_user"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"       gorm:"index"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string { return "likes" }
