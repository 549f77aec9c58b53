// Like HTTP handlers.
//
// This file exposes REST endpoints for like resources:
//   - POST   /likes  (create; authenticated)
//   - DELETE /likes  (delete by post; authenticated)
//   - GET    /likes  (list, paginated; authenticated)
//
// The liking user is always the authenticated caller; a user field supplied
// by the client is never consulted.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/services"
)

//
// DTOs
//

// LikeRequest is the JSON payload for creating or deleting likes on a post.
type LikeRequest struct {
	// PostID identifies the liked post.
	PostID string `json:"postId" binding:"required" example:"42"`
}

// DeleteLikesResponse reports whether any like was removed.
type DeleteLikesResponse struct {
	Deleted bool `json:"deleted"`
}

// ListLikesResponse wraps a page of populated likes and pagination information.
type ListLikesResponse struct {
	Likes      []services.LikeView `json:"likes"`
	Pagination Pagination          `json:"pagination"`
}

//
// Handlers
//

// CreateLike godoc
// @ID          createLike
// @Summary     Like a post
// @Description Records a like by the authenticated user and returns it with user and post populated.
// @Tags        Likes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.LikeRequest  true  "Like payload"
//
// @Success     201  {object}  services.LikeView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /likes [post]
func (h *Handlers) CreateLike(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id := identity(c)
	if id == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	like, err := h.likeSvc.Create(c.Request.Context(), id.User.ID, req.PostID)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, like)
}

// DeleteLikes godoc
// @ID          deleteLikes
// @Summary     Delete likes on a post
// @Description Removes likes matching the given post and reports whether any row was removed.
// @Tags        Likes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.LikeRequest  true  "Delete payload"
//
// @Success     200  {object}  handlers.DeleteLikesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /likes [delete]
func (h *Handlers) DeleteLikes(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id := identity(c)
	if id == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	deleted, err := h.likeSvc.Delete(c.Request.Context(), id.User.ID, req.PostID)
	if err != nil {
		failService(c, err, ErrCodeDeleteFailed)
		return
	}
	ok(c, http.StatusOK, DeleteLikesResponse{Deleted: deleted})
}

// ListLikes godoc
// @ID          listLikes
// @Summary     List likes (paginated)
// @Tags        Likes
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListLikesResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /likes [get]
func (h *Handlers) ListLikes(c *gin.Context) {
	page, pageSize := clampPagination(c)

	likes, total, err := h.likeSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListLikesResponse{
		Likes:      likes,
		Pagination: newPagination(page, pageSize, total),
	})
}
