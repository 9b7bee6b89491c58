package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillzy/quillzy/internal/util"
	"github.com/quillzy/quillzy/server/auth"
	"github.com/quillzy/quillzy/store"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Message     string `json:"message,omitempty"`
}

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Signup registers a user and signs them in.
func (s *APIV1Service) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return badRequest("Email and password required")
	}

	ctx := c.Request().Context()
	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return internalError(err, "Failed to look up user")
	}
	if existing != nil {
		return badRequest("Email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return internalError(err, "Failed to create account")
	}
	if _, err := s.Store.CreateUser(ctx, &store.User{Email: email, Name: req.Name, PasswordHash: hash}); err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, store.ErrUserExists) {
			return badRequest("Email already registered")
		}
		return internalError(err, "Failed to create account")
	}

	token, err := s.Authenticator.IssueToken(email, time.Now())
	if err != nil {
		return internalError(err, "Failed to issue token")
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		Email:       email,
		Name:        req.Name,
		Message:     "Account created successfully",
	})
}

// Login exchanges credentials for an access token.
func (s *APIV1Service) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return badRequest("Email and password required")
	}

	user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{Email: &email})
	if err != nil {
		return internalError(err, "Failed to look up user")
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return badRequest("Invalid email or password")
	}

	token, err := s.Authenticator.IssueToken(email, time.Now())
	if err != nil {
		return internalError(err, "Failed to issue token")
	}
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, Email: email, Name: user.Name})
}

// GetMe returns the signed-in user.
func (s *APIV1Service) GetMe(c echo.Context) error {
	ctx := c.Request().Context()
	email := auth.GetUserEmail(ctx)
	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return internalError(err, "Failed to look up user")
	}
	if user == nil {
		return notFound("User not found")
	}
	return c.JSON(http.StatusOK, userResponse{Email: user.Email, Name: user.Name})
}
