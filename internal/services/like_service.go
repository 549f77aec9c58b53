// Package services – LikeService
//
// This file implements the LikeService. Likes are created on behalf of the
// authenticated caller and read back with both the liking user and the liked
// post populated. Deletion filters on post_id only by default, which lets any
// authenticated user remove any like on a post; that matches the original
// behavior and is switchable via ScopeDeleteToOwner until the product
// decision on cross-user deletion lands.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// LikeRepo defines the repository contract required by LikeService.
type LikeRepo interface {
	// CreateLike inserts a like by userID on postID.
	CreateLike(ctx context.Context, db *gorm.DB, userID, postID string) (*domain.Like, error)

	// DeleteLikesByPost removes every like on postID, returning the count.
	DeleteLikesByPost(ctx context.Context, db *gorm.DB, postID string) (int64, error)

	// DeleteLikesByPostAndUser removes userID's likes on postID, returning
	// the count.
	DeleteLikesByPostAndUser(ctx context.Context, db *gorm.DB, postID, userID string) (int64, error)

	// CountLikes returns the total number of likes for pagination.
	CountLikes(ctx context.Context, db *gorm.DB) (int64, error)

	// ListLikesPage returns a page of likes.
	ListLikesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Like, error)
}

// LikeService provides like-level operations.
type LikeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the like repository used by this service.
	Repo LikeRepo
	// Users resolves user references during population.
	Users UserDirectory
	// Posts resolves post references during population.
	Posts PostDirectory

	// ScopeDeleteToOwner restricts Delete to the acting user's own likes.
	ScopeDeleteToOwner bool
}

// NewLikeService constructs a LikeService with the default (unscoped) delete
// behavior.
func NewLikeService(db *gorm.DB, r LikeRepo, users UserDirectory, posts PostDirectory) *LikeService {
	return &LikeService{DB: db, Repo: r, Users: users, Posts: posts}
}

// Create records a like by userID on postID and returns its populated view.
// The acting user is always the authenticated caller; a user field supplied
// by the client is never consulted. postID must be non-empty.
func (s *LikeService) Create(ctx context.Context, userID, postID string) (*LikeView, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, minLengthError("postId", 1)
	}

	like, err := s.Repo.CreateLike(ctx, s.DB, userID, postID)
	if err != nil {
		return nil, err
	}

	views, err := s.populate(ctx, []domain.Like{*like})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes likes on postID and reports whether at least one row was
// removed. With ScopeDeleteToOwner unset (the default) the filter matches on
// post_id alone, so likes created by other users are removed too.
func (s *LikeService) Delete(ctx context.Context, userID, postID string) (bool, error) {
	if strings.TrimSpace(postID) == "" {
		return false, minLengthError("postId", 1)
	}

	var (
		n   int64
		err error
	)
	if s.ScopeDeleteToOwner {
		n, err = s.Repo.DeleteLikesByPostAndUser(ctx, s.DB, postID, userID)
	} else {
		n, err = s.Repo.DeleteLikesByPost(ctx, s.DB, postID)
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListPage returns a page of populated like views and the total count.
func (s *LikeService) ListPage(ctx context.Context, page, pageSize int) ([]LikeView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountLikes(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []LikeView{}, 0, nil
	}

	likes, err := s.Repo.ListLikesPage(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.populate(ctx, likes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// populate joins users and posts onto likes, one batched lookup per rule.
// References that no longer resolve stay nil.
func (s *LikeService) populate(ctx context.Context, likes []domain.Like) ([]LikeView, error) {
	userKeys := make([]string, 0, len(likes))
	postKeys := make([]string, 0, len(likes))
	for i := range likes {
		userKeys = append(userKeys, likes[i].UserID)
		postKeys = append(postKeys, likes[i].PostID)
	}

	users, err := lookupUsers(ctx, s.DB, s.Users, userKeys)
	if err != nil {
		return nil, err
	}
	posts, err := lookupPosts(ctx, s.DB, s.Posts, postKeys)
	if err != nil {
		return nil, err
	}

	views := make([]LikeView, 0, len(likes))
	for i := range likes {
		l := &likes[i]
		views = append(views, LikeView{
			ID:        l.ID,
			PostID:    l.PostID,
			UserID:    l.UserID,
			CreatedAt: l.CreatedAt,
			User:      users[l.UserID],
			Post:      posts[l.PostID],
		})
	}
	return views, nil
}
