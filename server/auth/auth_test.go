package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("not-a-hash", "hunter2"))
}

func TestAccessToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("ann@example.com", testSecret, time.Now())
	require.NoError(t, err)

	email, err := ParseAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)
}

func TestAccessToken_Rejections(t *testing.T) {
	expired, err := GenerateAccessToken("ann@example.com", testSecret, time.Now().Add(-25*time.Hour))
	require.NoError(t, err)
	otherKey, err := GenerateAccessToken("ann@example.com", []byte("other"), time.Now())
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ann@example.com"}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, ErrInvalidToken},
		{"wrong key", otherKey, ErrInvalidToken},
		{"garbage", "abc.def.ghi", ErrInvalidToken},
		{"no expiry", noExpiry, ErrInvalidToken},
		{"no subject", noSubject, ErrMissingSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.token, testSecret)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer abc extra", "abc", true},
		{"bearer abc", "", false},
		{"Basic abc", "", false},
		{"Bearer ", "", true},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := ExtractBearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestAuthenticator_IssueToken(t *testing.T) {
	a := NewAuthenticator(string(testSecret))
	token, err := a.IssueToken("ann@example.com", time.Now())
	require.NoError(t, err)

	email, err := a.Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)

	stale, err := a.IssueToken("ann@example.com", time.Now().Add(-AccessTokenDuration-time.Minute))
	require.NoError(t, err)
	_, err = a.Authenticate("Bearer " + stale)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	a := NewAuthenticator(string(testSecret))
	valid, err := a.IssueToken("ann@example.com", time.Now())
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	handler := a.Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserEmail(c.Request().Context()))
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "Not authenticated"},
		{"not bearer", "Token " + valid, http.StatusUnauthorized, "Not authenticated"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Invalid or expired token"},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized, "Invalid token"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			err := handler(e.NewContext(req, rec))

			if tt.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, "ann@example.com", rec.Body.String())
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.status, he.Code)
			assert.Equal(t, tt.message, he.Message)
		})
	}
}

func TestGetUserEmail_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	assert.Equal(t, "", GetUserEmail(req.Context()))
}
