// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Post model.
//
// Error semantics mirror user_repo.go: missing rows surface as ErrNotFound,
// other DB errors propagate raw.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// CreatePost inserts a new post authored by authorID. The post ID is a
// randomly generated UUID and CreatedAt is set to UTC.
func CreatePost(ctx context.Context, db *gorm.DB, authorID, title, content string) (*domain.Post, error) {
	p := &domain.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost fetches a single post by ID, or ErrNotFound if missing.
func GetPost(ctx context.Context, db *gorm.DB, id string) (*domain.Post, error) {
	var p domain.Post
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPostsByIDs returns the posts whose IDs appear in ids. IDs with no
// matching row are absent from the result. An empty ids slice yields an empty
// result without touching the database.
func ListPostsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Post, error) {
	if len(ids) == 0 {
		return []domain.Post{}, nil
	}
	var out []domain.Post
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

// CountPosts returns the total number of posts.
func CountPosts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Post{}).
		Count(&total).Error
	return total, err
}

// ListPostsPage returns a page of posts ordered by creation time descending.
// Use CountPosts to obtain the total for pagination metadata.
func ListPostsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
