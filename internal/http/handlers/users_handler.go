// User HTTP handlers.
//
// This file exposes REST endpoints for user accounts:
//   - POST   /users          (register; public)
//   - POST   /users/login    (login; public)
//   - GET    /users          (list, paginated; authenticated)
//   - GET    /users/{id}     (get; authenticated)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/services"
)

//
// DTOs
//

// CredentialsRequest is the JSON payload for registration and login.
type CredentialsRequest struct {
	// Username is the unique account handle (min 2 chars).
	Username string `json:"username" binding:"required" example:"alice"`
	// Password is the plaintext password (min 6 chars); only its hash is stored.
	Password string `json:"password" binding:"required" example:"secret1"`
}

// ListUsersResponse wraps a page of users and pagination information.
type ListUsersResponse struct {
	Users      []services.UserRef `json:"users"`
	Pagination Pagination         `json:"pagination"`
}

//
// Handlers
//

// Register godoc
// @ID          registerUser
// @Summary     Register a new user
// @Description Creates an account and returns the user with a freshly issued bearer token.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CredentialsRequest  true  "Registration payload"
//
// @Success     201  {object}  services.AuthUser
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Username taken"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [post]
func (h *Handlers) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, user)
}

// Login godoc
// @ID          loginUser
// @Summary     Log in
// @Description Verifies credentials and returns the user with a freshly issued bearer token.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CredentialsRequest  true  "Login payload"
//
// @Success     200  {object}  services.AuthUser
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Wrong password"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown username"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	user, err := h.userSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failService(c, err, ErrCodeLoginFailed)
		return
	}
	ok(c, http.StatusOK, user)
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users (paginated)
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListUsersResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	page, pageSize := clampPagination(c)

	users, total, err := h.userSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListUsersResponse{
		Users:      users,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user by id
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "User ID"
//
// @Success     200  {object}  services.UserRef
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, user)
}
