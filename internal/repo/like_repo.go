// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Like model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// CreateLike inserts a like by userID on postID. The like ID is a randomly
// generated UUID and CreatedAt is set to UTC.
func CreateLike(ctx context.Context, db *gorm.DB, userID, postID string) (*domain.Like, error) {
	l := &domain.Like{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteLikesByPost soft-deletes every like on postID regardless of who
// created it, returning the number of rows removed.
func DeleteLikesByPost(ctx context.Context, db *gorm.DB, postID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&domain.Like{})
	return res.RowsAffected, res.Error
}

// DeleteLikesByPostAndUser soft-deletes likes on postID created by userID,
// returning the number of rows removed.
func DeleteLikesByPostAndUser(ctx context.Context, db *gorm.DB, postID, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&domain.Like{})
	return res.RowsAffected, res.Error
}

// CountLikes returns the total number of likes.
func CountLikes(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Like{}).
		Count(&total).Error
	return total, err
}

// ListLikesPage returns a page of likes ordered by creation time descending.
func ListLikesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Like, error) {
	var out []domain.Like
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
