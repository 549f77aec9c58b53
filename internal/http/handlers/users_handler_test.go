package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/services"
)

// ---------- flexible service stubs ----------

type stubUserSvc struct {
	register func(context.Context, string, string) (*services.AuthUser, error)
	login    func(context.Context, string, string) (*services.AuthUser, error)
	get      func(context.Context, string) (*services.UserRef, error)
	listPage func(context.Context, int, int) ([]services.UserRef, int64, error)
}

func (s stubUserSvc) Register(ctx context.Context, u, p string) (*services.AuthUser, error) {
	if s.register != nil {
		return s.register(ctx, u, p)
	}
	return &services.AuthUser{ID: "u1", Username: u, Token: "tok"}, nil
}

func (s stubUserSvc) Login(ctx context.Context, u, p string) (*services.AuthUser, error) {
	if s.login != nil {
		return s.login(ctx, u, p)
	}
	return &services.AuthUser{ID: "u1", Username: u, Token: "tok"}, nil
}

func (s stubUserSvc) Get(ctx context.Context, id string) (*services.UserRef, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &services.UserRef{ID: id, Username: "alice"}, nil
}

func (s stubUserSvc) ListPage(ctx context.Context, page, pageSize int) ([]services.UserRef, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, page, pageSize)
	}
	return nil, 0, nil
}

type stubPostSvc struct {
	create   func(context.Context, string, string, string) (*services.PostView, error)
	get      func(context.Context, string) (*services.PostView, error)
	listPage func(context.Context, int, int) ([]services.PostView, int64, error)
}

func (s stubPostSvc) Create(ctx context.Context, authorID, title, content string) (*services.PostView, error) {
	if s.create != nil {
		return s.create(ctx, authorID, title, content)
	}
	return &services.PostView{ID: "p1", Title: title, Content: content}, nil
}

func (s stubPostSvc) Get(ctx context.Context, id string) (*services.PostView, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &services.PostView{ID: id}, nil
}

func (s stubPostSvc) ListPage(ctx context.Context, page, pageSize int) ([]services.PostView, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, page, pageSize)
	}
	return nil, 0, nil
}

type stubLikeSvc struct {
	create   func(context.Context, string, string) (*services.LikeView, error)
	del      func(context.Context, string, string) (bool, error)
	listPage func(context.Context, int, int) ([]services.LikeView, int64, error)
}

func (s stubLikeSvc) Create(ctx context.Context, userID, postID string) (*services.LikeView, error) {
	if s.create != nil {
		return s.create(ctx, userID, postID)
	}
	return &services.LikeView{ID: "l1", UserID: userID, PostID: postID}, nil
}

func (s stubLikeSvc) Delete(ctx context.Context, userID, postID string) (bool, error) {
	if s.del != nil {
		return s.del(ctx, userID, postID)
	}
	return false, nil
}

func (s stubLikeSvc) ListPage(ctx context.Context, page, pageSize int) ([]services.LikeView, int64, error) {
	if s.listPage != nil {
		return s.listPage(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func newHandlers(u UserService, p PostService, l LikeService) *Handlers {
	if u == nil {
		u = stubUserSvc{}
	}
	if p == nil {
		p = stubPostSvc{}
	}
	if l == nil {
		l = stubLikeSvc{}
	}
	return New(u, p, l)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("error envelope json: %v body=%s", err, w.Body.String())
	}
	return out
}

// ---------- helpers-only tests ----------

func Test_clampPagination_and_newPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-5&page_size=9999", nil)
	p, ps := clampPagination(c)
	if p != 1 || ps != 100 {
		t.Fatalf("clamp bounds got p=%d ps=%d", p, ps)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=&page_size=0", nil)
	p, ps = clampPagination(c)
	if p != 1 || ps != 1 {
		t.Fatalf("clamp min got p=%d ps=%d", p, ps)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	p, ps = clampPagination(c)
	if p != 1 || ps != 20 {
		t.Fatalf("clamp defaults got p=%d ps=%d", p, ps)
	}

	pg := newPagination(1, 10, 25)
	if pg.TotalPages != 3 || !pg.HasNext {
		t.Fatalf("newPagination(1,10,25) = %#v", pg)
	}
	pg = newPagination(3, 10, 25)
	if pg.HasNext {
		t.Fatalf("last page should not have next: %#v", pg)
	}
	pg = newPagination(1, 10, 0)
	if pg.TotalPages != 0 || pg.HasNext {
		t.Fatalf("empty pagination = %#v", pg)
	}
}

// ---------- Register ----------

func TestRegister_BadJSON_Success_Conflict_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Bad JSON -> 400
	{
		h := newHandlers(nil, nil, nil)
		r := gin.New()
		r.POST("/users", h.Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{bad"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad json -> %d", w.Code)
		}
		if decodeError(t, w).Code != ErrCodeBadRequest {
			t.Fatalf("unexpected code: %s", w.Body.String())
		}
	}

	// Success -> 201 with token
	{
		var gotUser, gotPass string
		svc := stubUserSvc{register: func(ctx context.Context, u, p string) (*services.AuthUser, error) {
			gotUser, gotPass = u, p
			return &services.AuthUser{ID: "u-9", Username: u, Token: "jwt-abc"}, nil
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.POST("/users", h.Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"username":"alice","password":"secret1"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("register -> %d body=%s", w.Code, w.Body.String())
		}
		if gotUser != "alice" || gotPass != "secret1" {
			t.Fatalf("service args: %q %q", gotUser, gotPass)
		}
		var out services.AuthUser
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.ID != "u-9" || out.Token != "jwt-abc" {
			t.Fatalf("unexpected body: %#v", out)
		}
	}

	// Duplicate username -> 409 conflict
	{
		svc := stubUserSvc{register: func(context.Context, string, string) (*services.AuthUser, error) {
			return nil, services.ErrDuplicateUsername
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.POST("/users", h.Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"username":"alice","password":"secret1"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusConflict {
			t.Fatalf("conflict -> %d", w.Code)
		}
		if decodeError(t, w).Code != ErrCodeConflict {
			t.Fatalf("unexpected code: %s", w.Body.String())
		}
	}

	// Validation error -> 422
	{
		svc := stubUserSvc{register: func(context.Context, string, string) (*services.AuthUser, error) {
			return nil, &services.ValidationError{Field: "password", Constraint: "must be at least 6 characters"}
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.POST("/users", h.Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"username":"alice","password":"x"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("validation -> %d", w.Code)
		}
		if decodeError(t, w).Code != ErrCodeValidation {
			t.Fatalf("unexpected code: %s", w.Body.String())
		}
	}

	// Unknown error -> 500 with fallback code
	{
		svc := stubUserSvc{register: func(context.Context, string, string) (*services.AuthUser, error) {
			return nil, errors.New("disk on fire")
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.POST("/users", h.Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"username":"alice","password":"secret1"}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("internal -> %d", w.Code)
		}
		if decodeError(t, w).Code != ErrCodeCreateFailed {
			t.Fatalf("unexpected code: %s", w.Body.String())
		}
	}
}

// ---------- Login ----------

func TestLogin_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(svc stubUserSvc, body string) *httptest.ResponseRecorder {
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.POST("/users/login", h.Login)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewBufferString(body))
		r.ServeHTTP(w, req)
		return w
	}

	// Success -> 200
	w := run(stubUserSvc{}, `{"username":"alice","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login ok -> %d", w.Code)
	}

	// Unknown username -> 404, not 401
	w = run(stubUserSvc{login: func(context.Context, string, string) (*services.AuthUser, error) {
		return nil, services.ErrUserNotFound
	}}, `{"username":"ghost","password":"secret1"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown username -> %d", w.Code)
	}
	if decodeError(t, w).Code != ErrCodeNotFound {
		t.Fatalf("unexpected code: %s", w.Body.String())
	}

	// Wrong password -> 401
	w = run(stubUserSvc{login: func(context.Context, string, string) (*services.AuthUser, error) {
		return nil, services.ErrWrongPassword
	}}, `{"username":"alice","password":"nope"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password -> %d", w.Code)
	}

	// Missing field fails binding -> 400
	w = run(stubUserSvc{}, `{"username":"alice"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing password -> %d", w.Code)
	}
}

// ---------- GetUser / ListUsers ----------

func TestGetUser_Success_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	{
		var gotID string
		svc := stubUserSvc{get: func(ctx context.Context, id string) (*services.UserRef, error) {
			gotID = id
			return &services.UserRef{ID: id, Username: "bob"}, nil
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.GET("/users/:id", h.GetUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/u-42", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("get -> %d", w.Code)
		}
		if gotID != "u-42" {
			t.Fatalf("param not passed: %q", gotID)
		}
		var out services.UserRef
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.Username != "bob" {
			t.Fatalf("unexpected body: %#v", out)
		}
	}

	{
		svc := stubUserSvc{get: func(context.Context, string) (*services.UserRef, error) {
			return nil, services.ErrUserNotFound
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.GET("/users/:id", h.GetUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("not found -> %d", w.Code)
		}
	}
}

func TestListUsers_PageAndError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	{
		svc := stubUserSvc{listPage: func(ctx context.Context, page, pageSize int) ([]services.UserRef, int64, error) {
			if page != 2 || pageSize != 5 {
				t.Fatalf("clamped args: page=%d size=%d", page, pageSize)
			}
			return []services.UserRef{{ID: "a"}, {ID: "b"}}, 12, nil
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.GET("/users", h.ListUsers)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users?page=2&page_size=5", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
		}
		var out ListUsersResponse
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if len(out.Users) != 2 || out.Pagination.Total != 12 || out.Pagination.TotalPages != 3 || !out.Pagination.HasNext {
			t.Fatalf("unexpected response: %#v", out)
		}
	}

	{
		svc := stubUserSvc{listPage: func(context.Context, int, int) ([]services.UserRef, int64, error) {
			return nil, 0, errors.New("boom")
		}}
		h := newHandlers(svc, nil, nil)
		r := gin.New()
		r.GET("/users", h.ListUsers)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("list error -> %d", w.Code)
		}
		if decodeError(t, w).Code != ErrCodeListFailed {
			t.Fatalf("unexpected code: %s", w.Body.String())
		}
	}
}
