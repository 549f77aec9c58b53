// Package services – population mechanism.
//
// Population is the read-time join of related entities: after the primary
// fetch, exactly one batched lookup is issued per populated field (one call
// for all rows, never one per row), and results are joined back by matching
// the row's local key to the remote record's id. Rows whose key finds no
// remote record keep a nil reference instead of failing the response.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// UserDirectory is the remote-lookup contract for populating user references
// (the in-process stand-in for a users.get batch call).
type UserDirectory interface {
	ListUsersByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.User, error)
}

// PostDirectory is the remote-lookup contract for populating post references.
type PostDirectory interface {
	ListPostsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Post, error)
}

// distinct returns the unique non-empty values of keys, preserving first-seen
// order so batched lookups stay deterministic.
func distinct(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// lookupUsers fetches the users for keys in one batch and indexes them by id.
func lookupUsers(ctx context.Context, db *gorm.DB, dir UserDirectory, keys []string) (map[string]*UserRef, error) {
	ids := distinct(keys)
	if len(ids) == 0 {
		return map[string]*UserRef{}, nil
	}
	users, err := dir.ListUsersByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*UserRef, len(users))
	for i := range users {
		byID[users[i].ID] = userRef(&users[i])
	}
	return byID, nil
}

// lookupPosts fetches the posts for keys in one batch and indexes them by id.
func lookupPosts(ctx context.Context, db *gorm.DB, dir PostDirectory, keys []string) (map[string]*PostRef, error) {
	ids := distinct(keys)
	if len(ids) == 0 {
		return map[string]*PostRef{}, nil
	}
	posts, err := dir.ListPostsByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*PostRef, len(posts))
	for i := range posts {
		byID[posts[i].ID] = postRef(&posts[i])
	}
	return byID, nil
}
