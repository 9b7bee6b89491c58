package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type contextKey int

const userEmailContextKey contextKey = iota

// SetUserEmail returns a context carrying the authenticated user's email.
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailContextKey, email)
}

// GetUserEmail returns the authenticated user's email, or "" for anonymous
// requests.
func GetUserEmail(ctx context.Context) string {
	email, _ := ctx.Value(userEmailContextKey).(string)
	return email
}

// Authenticator guards routes that need a signed-in user.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// IssueToken signs an access token for email, valid from now.
func (a *Authenticator) IssueToken(email string, now time.Time) (string, error) {
	return GenerateAccessToken(email, a.secret, now)
}

// Authenticate resolves the email named by an Authorization header value.
// Failures are echo HTTP errors ready to be returned by a handler.
func (a *Authenticator) Authenticate(header string) (string, error) {
	token, ok := ExtractBearerToken(header)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	email, err := ParseAccessToken(token, a.secret)
	if err != nil {
		if errors.Is(err, ErrMissingSubject) {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	return email, nil
}

// Middleware rejects unauthenticated requests and stores the caller's email
// in the request context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, err := a.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			req := c.Request()
			c.SetRequest(req.WithContext(SetUserEmail(req.Context(), email)))
			return next(c)
		}
	}
}
