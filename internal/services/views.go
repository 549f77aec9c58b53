// Package services – outward-facing representations.
//
// Entity services never return raw persistence rows to the transport layer:
// read paths go through the view types below, which carry the populated
// cross-entity references. Population only ever writes into these views; the
// underlying persisted records are never mutated by a read.
package services

import (
	"time"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// UserRef is the projection of a user attached to populated fields
// (post.author, like.user) and returned by user read paths.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PostRef is the projection of a post attached to populated fields
// (like.post).
type PostRef struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AuthUser is the representation returned by registration and login: the
// public user fields plus a freshly issued bearer token.
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// PostView is a post with its author populated. Author is nil when the
// authoring user no longer resolves; the row is still returned.
type PostView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    *UserRef  `json:"author,omitempty"`
}

// LikeView is a like with its user and post populated. Either reference is
// nil when the remote record no longer resolves.
type LikeView struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserRef  `json:"user,omitempty"`
	Post      *PostRef  `json:"post,omitempty"`
}

// userRef projects a domain user.
func userRef(u *domain.User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Username: u.Username}
}

// postRef projects a domain post.
func postRef(p *domain.Post) *PostRef {
	if p == nil {
		return nil
	}
	return &PostRef{ID: p.ID, Title: p.Title, Content: p.Content}
}
