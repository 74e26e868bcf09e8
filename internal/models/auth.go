package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the JWT claims carried by the session cookie
type SessionClaims struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture,omitempty"`
	TokenVersion uint   `json:"token_version"`
	SessionID    string `json:"sid"`
	jwt.RegisteredClaims
}

// Principal is the signed-in identity attached to a request
type Principal struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"image,omitempty"`
	SessionID string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// GoogleProfile is the subset of the Google userinfo response we keep
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// SessionResponse is returned by GET /api/auth/session
type SessionResponse struct {
	User    *Principal `json:"user,omitempty"`
	Expires string     `json:"expires,omitempty"`
}
