// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// authentication, CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Authentication resolves identity for everyone; authorization is
//     enforced per route group
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-social-backend/docs"
	"github.com/tbourn/go-social-backend/internal/auth"
	"github.com/tbourn/go-social-backend/internal/config"
	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/http/handlers"
	"github.com/tbourn/go-social-backend/internal/http/middleware"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/services"
)

// userRepoShim adapts the repository free functions to the services.UserRepo
// and services.UserDirectory interfaces. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type userRepoShim struct{}

// CreateUser proxies repo.CreateUser.
func (userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, username, passwordHash)
}

// FindUserByUsername proxies repo.FindUserByUsername.
func (userRepoShim) FindUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	return repo.FindUserByUsername(ctx, db, username)
}

// FindUserByID proxies repo.FindUserByID.
func (userRepoShim) FindUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.FindUserByID(ctx, db, id)
}

// ListUsersByIDs proxies repo.ListUsersByIDs (population support).
func (userRepoShim) ListUsersByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.User, error) {
	return repo.ListUsersByIDs(ctx, db, ids)
}

// CountUsers proxies repo.CountUsers (pagination support).
func (userRepoShim) CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountUsers(ctx, db)
}

// ListUsersPage proxies repo.ListUsersPage (pagination support).
func (userRepoShim) ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	return repo.ListUsersPage(ctx, db, offset, limit)
}

// postRepoShim adapts the repository free functions to the services.PostRepo
// and services.PostDirectory interfaces.
type postRepoShim struct{}

// CreatePost proxies repo.CreatePost.
func (postRepoShim) CreatePost(ctx context.Context, db *gorm.DB, authorID, title, content string) (*domain.Post, error) {
	return repo.CreatePost(ctx, db, authorID, title, content)
}

// GetPost proxies repo.GetPost.
func (postRepoShim) GetPost(ctx context.Context, db *gorm.DB, id string) (*domain.Post, error) {
	return repo.GetPost(ctx, db, id)
}

// ListPostsByIDs proxies repo.ListPostsByIDs (population support).
func (postRepoShim) ListPostsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Post, error) {
	return repo.ListPostsByIDs(ctx, db, ids)
}

// CountPosts proxies repo.CountPosts (pagination support).
func (postRepoShim) CountPosts(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountPosts(ctx, db)
}

// ListPostsPage proxies repo.ListPostsPage (pagination support).
func (postRepoShim) ListPostsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Post, error) {
	return repo.ListPostsPage(ctx, db, offset, limit)
}

// likeRepoShim adapts the repository free functions to the services.LikeRepo
// interface.
type likeRepoShim struct{}

// CreateLike proxies repo.CreateLike.
func (likeRepoShim) CreateLike(ctx context.Context, db *gorm.DB, userID, postID string) (*domain.Like, error) {
	return repo.CreateLike(ctx, db, userID, postID)
}

// DeleteLikesByPost proxies repo.DeleteLikesByPost.
func (likeRepoShim) DeleteLikesByPost(ctx context.Context, db *gorm.DB, postID string) (int64, error) {
	return repo.DeleteLikesByPost(ctx, db, postID)
}

// DeleteLikesByPostAndUser proxies repo.DeleteLikesByPostAndUser.
func (likeRepoShim) DeleteLikesByPostAndUser(ctx context.Context, db *gorm.DB, postID, userID string) (int64, error) {
	return repo.DeleteLikesByPostAndUser(ctx, db, postID, userID)
}

// CountLikes proxies repo.CountLikes (pagination support).
func (likeRepoShim) CountLikes(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountLikes(ctx, db)
}

// ListLikesPage proxies repo.ListLikesPage (pagination support).
func (likeRepoShim) ListLikesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Like, error) {
	return repo.ListLikesPage(ctx, db, offset, limit)
}

// credentialStore adapts the user repository to the auth.CredentialStore
// contract, binding the *gorm.DB handle the free functions need.
type credentialStore struct {
	db *gorm.DB
}

// FindByID resolves a verified token subject to the live user row.
func (s credentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return repo.FindUserByID(ctx, s.db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), token
// authentication, rate limiting, CORS and security headers, health and
// metrics endpoints, and then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip response compression
//  7. Metrics
//  8. Authenticate: resolve bearer tokens to an identity (never rejects)
//  9. Rate limiter (keyed per user once authenticated, per IP otherwise)
//  10. CORS and Security headers
//
// Authorization is deferred to RequireAuth on the private route group, so
// public endpoints stay anonymous-friendly while the gateway still attaches
// identity to every request that carries a valid token.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses for clients that accept it
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Token verification with a bounded cache. Redis when configured,
	// in-process otherwise.
	var verifyCache auth.Cache
	if cfg.Auth.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Auth.RedisAddr})
		verifyCache = auth.NewRedisCache(rdb)
	}
	tokens := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		cfg.Auth.VerifyCacheTTL,
		credentialStore{db: db},
		verifyCache,
	)

	// 8) Resolve identity from bearer tokens; anonymous requests pass through
	r.Use(middleware.Authenticate(tokens))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in; off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	userSvc := services.NewUserService(db, userRepoShim{}, tokens)
	userSvc.BcryptCost = cfg.Auth.BcryptCost
	postSvc := services.NewPostService(db, postRepoShim{}, userRepoShim{})
	likeSvc := services.NewLikeService(db, likeRepoShim{}, userRepoShim{}, postRepoShim{})
	likeSvc.ScopeDeleteToOwner = cfg.ScopedLikeDelete

	h := handlers.New(userSvc, postSvc, likeSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Anyone may register, log in, and read posts.
		api.POST("/users", h.Register)
		api.POST("/users/login", h.Login)
		api.GET("/posts", h.ListPosts)
		api.GET("/posts/:id", h.GetPost)

		// Everything else requires a verified identity.
		private := api.Group("", middleware.RequireAuth())
		{
			private.GET("/users", h.ListUsers)
			private.GET("/users/:id", h.GetUser)

			private.POST("/posts", h.CreatePost)

			private.POST("/likes", h.CreateLike)
			private.DELETE("/likes", h.DeleteLikes)
			private.GET("/likes", h.ListLikes)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
