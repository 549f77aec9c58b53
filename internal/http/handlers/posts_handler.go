// Post HTTP handlers.
//
// This file exposes REST endpoints for post resources:
//   - POST   /posts       (create; authenticated)
//   - GET    /posts       (list, paginated; public)
//   - GET    /posts/{id}  (get; public)
//
// The post author is always the authenticated caller: any author field a
// client includes in the body is ignored (and rejected by the strict DTO
// below carrying no such field).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/services"
)

//
// DTOs
//

// CreatePostRequest is the JSON payload for creating a post.
type CreatePostRequest struct {
	// Title is the post title (min 1 char).
	Title string `json:"title" binding:"required" example:"Hello"`
	// Content is the post body (min 1 char).
	Content string `json:"content" binding:"required" example:"World"`
}

// ListPostsResponse wraps a page of populated posts and pagination information.
type ListPostsResponse struct {
	Posts      []services.PostView `json:"posts"`
	Pagination Pagination          `json:"pagination"`
}

//
// Handlers
//

// CreatePost godoc
// @ID          createPost
// @Summary     Create a new post
// @Description Persists a post authored by the authenticated user and returns it with the author populated.
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreatePostRequest  true  "Create post payload"
//
// @Success     201  {object}  services.PostView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id := identity(c)
	if id == nil {
		// RequireAuth guards this route; reaching here anonymously is a
		// wiring bug, not a client error.
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	post, err := h.postSvc.Create(c.Request.Context(), id.User.ID, req.Title, req.Content)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, post)
}

// ListPosts godoc
// @ID          listPosts
// @Summary     List posts (paginated, public)
// @Description Returns a page of posts with authors populated. No authentication required.
// @Tags        Posts
// @Produce     json
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListPostsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	page, pageSize := clampPagination(c)

	posts, total, err := h.postSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListPostsResponse{
		Posts:      posts,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetPost godoc
// @ID          getPost
// @Summary     Get a post by id (public)
// @Tags        Posts
// @Produce     json
//
// @Param       id  path  string  true  "Post ID"
//
// @Success     200  {object}  services.PostView
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts/{id} [get]
func (h *Handlers) GetPost(c *gin.Context) {
	post, err := h.postSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, post)
}
