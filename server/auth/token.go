// Package auth issues and verifies the bearer tokens used by the editor API.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// AccessTokenDuration is how long an issued token stays valid.
	AccessTokenDuration = 24 * time.Hour

	bearerPrefix = "Bearer "
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingSubject is returned for a valid token that names no user.
	ErrMissingSubject = errors.New("token has no subject")
)

// GenerateAccessToken signs an HS256 token whose subject is the user's email.
func GenerateAccessToken(email string, secret []byte, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return token, nil
}

// ParseAccessToken verifies tokenString and returns its subject.
func ParseAccessToken(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", errors.Wrap(ErrInvalidToken, err.Error())
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header value. ok is false only when the header is not a bearer header; an
// empty token is left for ParseAccessToken to reject.
func ExtractBearerToken(header string) (token string, ok bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	if fields := strings.Fields(header[len(bearerPrefix):]); len(fields) > 0 {
		token = fields[0]
	}
	return token, true
}
