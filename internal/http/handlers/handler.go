// Package handlers – handler wiring.
//
// This file declares the service contracts the HTTP layer consumes, the
// Handlers aggregate that binds them, and the small helpers shared by all
// endpoint files (identity extraction, pagination clamping).
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. The authenticated identity is
// attached upstream by the auth middleware; handlers never read owner fields
// from request bodies.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/http/middleware"
	"github.com/tbourn/go-social-backend/internal/services"
	"github.com/tbourn/go-social-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// UserService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates an account and returns it with a fresh token.
	Register(ctx context.Context, username, password string) (*services.AuthUser, error)
	// Login verifies credentials and returns the user with a fresh token.
	Login(ctx context.Context, username, password string) (*services.AuthUser, error)
	// Get returns the public projection of one user.
	Get(ctx context.Context, id string) (*services.UserRef, error)
	// ListPage returns a page of users and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]services.UserRef, int64, error)
}

// PostService defines post operations consumed by HTTP handlers.
type PostService interface {
	// Create persists a post authored by the authenticated user.
	Create(ctx context.Context, authorID, title, content string) (*services.PostView, error)
	// Get returns one populated post.
	Get(ctx context.Context, id string) (*services.PostView, error)
	// ListPage returns a page of populated posts and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]services.PostView, int64, error)
}

// LikeService defines like operations consumed by HTTP handlers.
type LikeService interface {
	// Create records a like by the authenticated user.
	Create(ctx context.Context, userID, postID string) (*services.LikeView, error)
	// Delete removes likes on a post; reports whether any row was removed.
	Delete(ctx context.Context, userID, postID string) (bool, error)
	// ListPage returns a page of populated likes and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]services.LikeView, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for users, posts, and likes. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	userSvc UserService
	postSvc PostService
	likeSvc LikeService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(userSvc UserService, postSvc PostService, likeSvc LikeService) *Handlers {
	return &Handlers{userSvc: userSvc, postSvc: postSvc, likeSvc: likeSvc}
}

// identity returns the authenticated identity attached by the auth
// middleware, or nil on public routes reached anonymously.
func identity(c *gin.Context) *middleware.Identity {
	return middleware.IdentityFrom(c)
}

//
// Shared DTO pieces
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination computes the metadata for a page of total rows.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
