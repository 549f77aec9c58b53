// Package services – PostService
//
// This file implements the PostService, which owns post creation and read
// paths. Creation derives the author exclusively from the authenticated
// identity; read paths return views with the author populated in one batched
// user lookup per request.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// PostRepo defines the repository contract required by PostService.
type PostRepo interface {
	// CreatePost inserts a new post row authored by authorID.
	CreatePost(ctx context.Context, db *gorm.DB, authorID, title, content string) (*domain.Post, error)

	// GetPost fetches a post by ID.
	GetPost(ctx context.Context, db *gorm.DB, id string) (*domain.Post, error)

	// CountPosts returns the total number of posts for pagination.
	CountPosts(ctx context.Context, db *gorm.DB) (int64, error)

	// ListPostsPage returns a page of posts.
	ListPostsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Post, error)
}

// PostService provides post-level operations. The author of a created post is
// always the authenticated caller; an author field supplied by the client is
// never consulted.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the post repository used by this service.
	Repo PostRepo
	// Users resolves author references during population.
	Users UserDirectory
}

// NewPostService constructs a PostService.
func NewPostService(db *gorm.DB, r PostRepo, users UserDirectory) *PostService {
	return &PostService{DB: db, Repo: r, Users: users}
}

// Create persists a post authored by authorID and returns its populated view.
// Title and content must be non-empty after trimming; otherwise a
// ValidationError naming the field is returned.
func (s *PostService) Create(ctx context.Context, authorID, title, content string) (*PostView, error) {
	if strings.TrimSpace(title) == "" {
		return nil, minLengthError("title", 1)
	}
	if strings.TrimSpace(content) == "" {
		return nil, minLengthError("content", 1)
	}

	post, err := s.Repo.CreatePost(ctx, s.DB, authorID, title, content)
	if err != nil {
		return nil, err
	}

	views, err := s.populate(ctx, []domain.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Get returns the populated view of a single post, or ErrPostNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*PostView, error) {
	post, err := s.Repo.GetPost(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	views, err := s.populate(ctx, []domain.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListPage returns a page of populated post views and the total count.
// It applies defaults for invalid page/pageSize.
func (s *PostService) ListPage(ctx context.Context, page, pageSize int) ([]PostView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountPosts(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []PostView{}, 0, nil
	}

	posts, err := s.Repo.ListPostsPage(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.populate(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// populate joins authors onto posts with a single batched user lookup. Posts
// whose author no longer resolves keep a nil Author.
func (s *PostService) populate(ctx context.Context, posts []domain.Post) ([]PostView, error) {
	keys := make([]string, 0, len(posts))
	for i := range posts {
		keys = append(keys, posts[i].AuthorID)
	}
	authors, err := lookupUsers(ctx, s.DB, s.Users, keys)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		views = append(views, PostView{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
			Author:    authors[p.AuthorID],
		})
	}
	return views, nil
}
