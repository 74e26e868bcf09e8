package auth

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	issuer         = "api-key-dashboard"
	sessionKeyInfo = "api-key-dashboard session token"
	stateKeyInfo   = "api-key-dashboard oauth state"
)

// deriveKey expands secret into a 32 byte HMAC key bound to info
func deriveKey(secret []byte, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive %q key: %w", info, err)
	}
	return key, nil
}

// stateClaims is the payload of the OAuth state cookie
type stateClaims struct {
	Nonce       string `json:"nonce"`
	CallbackURL string `json:"callback_url"`
	jwt.RegisteredClaims
}

func sign(claims jwt.Claims, key []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parse(tokenString string, claims jwt.Claims, key []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	return err
}
