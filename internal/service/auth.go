// Package service contains the application service for authentication.
package service

import (
	"context"
	"errors"
	"time"

	pkgcrypto "github.com/and161185/authkit/internal/crypto"
	"github.com/and161185/authkit/internal/errs"
	"github.com/and161185/authkit/internal/model"
	"github.com/and161185/authkit/internal/repository"
	"github.com/and161185/authkit/internal/token"
)

// Default token lifetimes. Policy lives here, not in the codec: every
// issuance names its TTL explicitly.
const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 3200 * time.Minute
)

// AuthService defines registration and token-based authentication operations.
type AuthService interface {
	// Register creates a new user with secure password hashing.
	Register(ctx context.Context, username, password string) (*model.User, error)
	// Login verifies credentials and issues an access/refresh token pair.
	Login(ctx context.Context, username, password string) (model.TokenPair, error)
	// Refresh exchanges a valid refresh token for a fresh token pair.
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	// CurrentUser resolves the user identified by a valid access token.
	CurrentUser(ctx context.Context, accessToken string) (*model.User, error)
}

// Config carries token lifetime policy. Zero fields fall back to the defaults.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthServiceImpl struct {
	users      repository.UserRepository
	codec      *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	dummyHash  string
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, codec *token.Codec, cfg Config) *AuthServiceImpl {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	// Hashed once so unknown-username logins burn the same argon2 work as a
	// real verification and cannot be told apart by timing.
	dummy, _ := pkgcrypto.HashPassword("authkit-dummy-password")
	return &AuthServiceImpl{
		users:      users,
		codec:      codec,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		dummyHash:  dummy,
	}
}

// Register creates a new user record. Uniqueness is left entirely to the
// store: a single insert, conflict reported as errs.ErrAlreadyExists.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("empty username/password")
	}
	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{Username: username, PwdHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates and issues a token pair. Unknown username and wrong
// password collapse to the same errs.ErrUnauthorized.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	u, err := s.authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			return model.TokenPair{}, errs.ErrUnauthorized
		}
		return model.TokenPair{}, err
	}
	return s.issuePair(u.ID)
}

// Refresh validates a refresh token and issues a new pair for its subject.
// There is no revocation store, so the exchanged refresh token stays usable
// until its own expiry; this is an accepted limitation of stateless tokens.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.codec.DecodeAndValidate(refreshToken, token.TypeRefresh)
	if err != nil {
		if isTokenError(err) {
			return model.TokenPair{}, errs.ErrUnauthorized
		}
		return model.TokenPair{}, err
	}
	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenPair{}, errs.ErrUnauthorized
		}
		return model.TokenPair{}, err
	}
	return s.issuePair(claims.UserID)
}

// CurrentUser resolves the subject of an access token. Every token problem
// and a deleted subject look identical from the outside: errs.ErrUnauthorized.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.codec.DecodeAndValidate(accessToken, token.TypeAccess)
	if err != nil {
		if isTokenError(err) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// authenticate checks credentials against the stored hash.
func (s *AuthServiceImpl) authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// burn the same hashing work as the found path
			_, _ = pkgcrypto.VerifyPassword(password, s.dummyHash)
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := pkgcrypto.VerifyPassword(password, u.PwdHash)
	if err != nil {
		// a malformed stored hash is an internal defect, not a bad login
		return nil, err
	}
	if !ok {
		return nil, errs.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthServiceImpl) issuePair(userID int64) (model.TokenPair, error) {
	access, err := s.codec.Issue(userID, token.TypeAccess, s.accessTTL, nil)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := s.codec.Issue(userID, token.TypeRefresh, s.refreshTTL, nil)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.accessTTL),
	}, nil
}

// isTokenError reports whether err is one of the codec's validation
// sentinels, all of which collapse to Unauthorized at this boundary.
func isTokenError(err error) bool {
	return errors.Is(err, errs.ErrBadSignature) ||
		errors.Is(err, errs.ErrExpired) ||
		errors.Is(err, errs.ErrWrongType) ||
		errors.Is(err, errs.ErrMalformed)
}
