// Package services – UserService
//
// This file implements the UserService, which owns registration, login, and
// user read paths. It validates and normalizes usernames, hashes passwords
// with bcrypt (never stored or compared in plaintext), coordinates the
// credential store, and issues tokens through the token service.
//
// Service-level errors (e.g., ErrDuplicateUsername, ErrUserNotFound) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/repo"
)

const (
	minUsernameLen = 2
	minPasswordLen = 6
	maxUsernameLen = 64
)

// UserRepo defines the repository contract required by UserService.
// Implementations are responsible for persistence of user records.
type UserRepo interface {
	// CreateUser inserts a new user row; repo.ErrDuplicate when the
	// username is taken.
	CreateUser(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.User, error)

	// FindUserByUsername fetches a user by exact username.
	FindUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error)

	// FindUserByID fetches a user by primary key.
	FindUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)

	// CountUsers returns the total number of users for pagination.
	CountUsers(ctx context.Context, db *gorm.DB) (int64, error)

	// ListUsersPage returns a page of users.
	ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error)
}

// TokenIssuer mints a signed token for a user. Satisfied by
// *auth.TokenService.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// UserService provides registration, login, and user read operations.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo
	// Tokens issues bearer tokens on successful registration and login.
	Tokens TokenIssuer

	// BcryptCost is the adaptive hash cost factor applied at registration.
	BcryptCost int

	// OnUserCreated is the user.created notification hook, invoked in a
	// goroutine after a successful registration. Best-effort; the default
	// subscriber only logs.
	OnUserCreated func(user *domain.User)
}

// NewUserService constructs a UserService with the default bcrypt cost and
// the logging user.created subscriber.
func NewUserService(db *gorm.DB, r UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{
		DB:         db,
		Repo:       r,
		Tokens:     tokens,
		BcryptCost: bcrypt.DefaultCost,
		OnUserCreated: func(u *domain.User) {
			log.Info().Str("user_id", u.ID).Msg("new user created")
		},
	}
}

// Register creates a new account and returns it with a freshly issued token.
//
// Validation:
//   - username: trimmed, NFC-normalized, 2..64 runes; otherwise ValidationError.
//   - password: at least 6 runes; otherwise ValidationError.
//
// A taken username yields ErrDuplicateUsername. The duplicate check runs
// immediately before the insert and is not transactionally guarded;
// concurrent identical registrations race and the loser gets
// ErrDuplicateUsername from the unique index instead.
func (s *UserService) Register(ctx context.Context, username, password string) (*AuthUser, error) {
	username = normalizeUsername(username)
	if utf8.RuneCountInString(username) < minUsernameLen {
		return nil, minLengthError("username", minUsernameLen)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, &ValidationError{Field: "username", Constraint: "must be at most 64 characters long"}
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, minLengthError("password", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.CreateUser(ctx, s.DB, username, string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	if s.OnUserCreated != nil {
		// Fire-and-forget user.created event; no subscriber is required.
		go s.OnUserCreated(user)
	}

	return &AuthUser{ID: user.ID, Username: user.Username, Token: token}, nil
}

// Login verifies credentials and returns the user with a freshly issued
// token. An unknown username yields ErrUserNotFound; a hash mismatch yields
// ErrWrongPassword. The comparison uses bcrypt's constant-time primitive.
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthUser, error) {
	username = normalizeUsername(username)

	user, err := s.Repo.FindUserByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthUser{ID: user.ID, Username: user.Username, Token: token}, nil
}

// Get returns the public projection of a single user, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*UserRef, error) {
	user, err := s.Repo.FindUserByID(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userRef(user), nil
}

// ListPage returns a page of user projections and the total count.
// It applies defaults for invalid page/pageSize.
func (s *UserService) ListPage(ctx context.Context, page, pageSize int) ([]UserRef, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []UserRef{}, 0, nil
	}

	users, err := s.Repo.ListUsersPage(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserRef, 0, len(users))
	for i := range users {
		out = append(out, *userRef(&users[i]))
	}
	return out, total, nil
}

// normalizeUsername trims surrounding whitespace and applies NFC so visually
// identical usernames compare equal regardless of the client's encoder.
func normalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
