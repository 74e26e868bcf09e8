package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/models"
)

// Cookie names
const (
	SessionCookie    = "session_token"
	StateCookie      = "oauth_state"
	ForceLoginCookie = "forceLogin"
)

// DefaultCallbackURL is where a successful sign-in lands without a callbackUrl
const DefaultCallbackURL = "/dashboards"

// StateTTL bounds the time between leaving for Google and coming back
const StateTTL = 10 * time.Minute

// CallbackParams are the query values and cookie presented to the OAuth callback
type CallbackParams struct {
	State       string
	Code        string
	Error       string
	StateCookie string
}

// SignInResult is a completed sign-in
type SignInResult struct {
	Token       string
	Principal   *models.Principal
	CallbackURL string
}

type AuthService struct {
	userRepo   *repository.UserRepository
	provider   Provider
	sessionKey []byte
	stateKey   []byte
	sessionTTL time.Duration
}

// NewAuthService creates the service. provider may be nil when Google
// credentials are not configured; sign-in then fails with Configuration.
func NewAuthService(db *gorm.DB, provider Provider, secret string, sessionTTL time.Duration) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	sessionKey, err := deriveKey([]byte(secret), sessionKeyInfo)
	if err != nil {
		return nil, err
	}
	stateKey, err := deriveKey([]byte(secret), stateKeyInfo)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Session TTL: %s", sessionTTL)
	return &AuthService{
		userRepo:   repository.NewUserRepository(db),
		provider:   provider,
		sessionKey: sessionKey,
		stateKey:   stateKey,
		sessionTTL: sessionTTL,
	}, nil
}

// SessionTTL returns the lifetime of issued sessions
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// BeginSignIn returns the provider URL to redirect to and the signed value
// of the state cookie that must come back with the callback
func (s *AuthService) BeginSignIn(callbackURL string, selectAccount bool) (redirectURL, stateCookie string, err error) {
	if s.provider == nil {
		return "", "", signInError(CodeConfiguration, errors.New("google oauth is not configured"))
	}

	nonce := uuid.NewString()
	now := time.Now()
	stateCookie, err = sign(&stateClaims{
		Nonce:       nonce,
		CallbackURL: SanitizeCallbackURL(callbackURL),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
		},
	}, s.stateKey)
	if err != nil {
		return "", "", signInError(CodeOAuthSignin, err)
	}
	return s.provider.AuthCodeURL(nonce, selectAccount), stateCookie, nil
}

// CompleteSignIn verifies the callback, upserts the user and issues a session
func (s *AuthService) CompleteSignIn(ctx context.Context, params CallbackParams) (*SignInResult, error) {
	if s.provider == nil {
		return nil, signInError(CodeConfiguration, errors.New("google oauth is not configured"))
	}
	if params.Error != "" {
		if params.Error == "access_denied" {
			return nil, signInError(CodeAccessDenied, fmt.Errorf("provider returned %s", params.Error))
		}
		return nil, signInError(CodeOAuthCallback, fmt.Errorf("provider returned %s", params.Error))
	}

	var state stateClaims
	if err := parse(params.StateCookie, &state, s.stateKey); err != nil {
		return nil, signInError(CodeOAuthCallback, fmt.Errorf("invalid state cookie: %w", err))
	}
	if params.State == "" || params.State != state.Nonce {
		return nil, signInError(CodeOAuthCallback, errors.New("state mismatch"))
	}
	if params.Code == "" {
		return nil, signInError(CodeOAuthCallback, errors.New("missing authorization code"))
	}

	profile, err := s.provider.Exchange(ctx, params.Code)
	if err != nil {
		return nil, signInError(CodeOAuthCallback, err)
	}
	if profile.Email == "" || !profile.EmailVerified {
		return nil, signInError(CodeAccessDenied, errors.New("google account has no verified email"))
	}

	user, err := s.userRepo.UpsertFromProfile(ctx, profile)
	if err != nil {
		return nil, signInError(CodeOAuthCreateAccount, err)
	}

	token, principal, err := s.IssueSession(user)
	if err != nil {
		return nil, signInError(CodeCallback, err)
	}

	logrus.WithField("user_id", user.ID).Info("User signed in")
	return &SignInResult{
		Token:       token,
		Principal:   principal,
		CallbackURL: SanitizeCallbackURL(state.CallbackURL),
	}, nil
}

// IssueSession signs a new session token for user
func (s *AuthService) IssueSession(user *models.User) (string, *models.Principal, error) {
	now := time.Now()
	expiresAt := now.Add(s.sessionTTL)
	claims := &models.SessionClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Picture:      user.Picture,
		TokenVersion: user.TokenVersion,
		SessionID:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.ID,
		},
	}

	token, err := sign(claims, s.sessionKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, principalFromClaims(claims), nil
}

// ValidateSession parses a session token and checks it has not been revoked
func (s *AuthService) ValidateSession(ctx context.Context, tokenString string) (*models.Principal, error) {
	if tokenString == "" {
		return nil, ErrAuthRequired
	}

	var claims models.SessionClaims
	if err := parse(tokenString, &claims, s.sessionKey); err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", ErrAuthRequired, err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not found", ErrAuthRequired)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, fmt.Errorf("%w: session revoked", ErrAuthRequired)
	}
	return principalFromClaims(&claims), nil
}

// SignOut revokes every session issued to the user
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	if err := s.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("failed to increment token version: %w", err)
	}
	logrus.WithField("user_id", userID).Info("User signed out")
	return nil
}

// SanitizeCallbackURL accepts same-origin relative paths only
func SanitizeCallbackURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n") {
		return DefaultCallbackURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultCallbackURL
	}
	if u.Path == "/auth" || strings.HasPrefix(u.Path, "/auth/") {
		return DefaultCallbackURL
	}
	return u.RequestURI()
}

func principalFromClaims(claims *models.SessionClaims) *models.Principal {
	principal := &models.Principal{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Picture:   claims.Picture,
		SessionID: claims.SessionID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal
}
