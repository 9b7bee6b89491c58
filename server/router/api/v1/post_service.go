package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillzy/quillzy/internal/util"
	"github.com/quillzy/quillzy/server/auth"
	"github.com/quillzy/quillzy/store"
)

const defaultTitle = "Untitled"

type createPostRequest struct {
	Content   string  `json:"content"`
	PlainText string  `json:"plain_text"`
	Title     *string `json:"title"`
	WordCount int32   `json:"word_count"`
}

type updatePostRequest struct {
	Content   *string `json:"content"`
	PlainText *string `json:"plain_text"`
	Title     *string `json:"title"`
	WordCount *int32  `json:"word_count"`
}

type postMutationResponse struct {
	ID          string `json:"_id"`
	Message     string `json:"message"`
	SavedAt     string `json:"saved_at,omitempty"`
	Status      string `json:"status,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// CreatePost starts a new draft post owned by the caller.
func (s *APIV1Service) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	title := defaultTitle
	if req.Title != nil {
		title = *req.Title
	}

	ctx := c.Request().Context()
	post, err := s.Store.CreatePost(ctx, &store.Post{
		ID:        util.GenUUID(),
		UserEmail: auth.GetUserEmail(ctx),
		Title:     title,
		Content:   req.Content,
		PlainText: req.PlainText,
		WordCount: req.WordCount,
		Status:    store.PostStatusDraft,
	})
	if err != nil {
		return internalError(err, "Failed to create post")
	}
	return c.JSON(http.StatusOK, postMutationResponse{ID: post.ID, Message: "Draft created"})
}

// UpdatePost autosaves the fields present in the body.
func (s *APIV1Service) UpdatePost(c echo.Context) error {
	id := c.Param("id")
	if !util.IsUUID(id) {
		return badRequest("Invalid post ID")
	}
	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}

	ctx := c.Request().Context()
	email := auth.GetUserEmail(ctx)
	now := time.Now().Unix()
	_, err := s.Store.UpdatePost(ctx, &store.UpdatePost{
		ID:        id,
		UserEmail: &email,
		Title:     req.Title,
		Content:   req.Content,
		PlainText: req.PlainText,
		WordCount: req.WordCount,
		UpdatedTs: &now,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Post not found")
		}
		return internalError(err, "Failed to update post")
	}
	return c.JSON(http.StatusOK, postMutationResponse{ID: id, Message: "Updated", SavedAt: formatTs(now)})
}

// PublishPost moves a post from draft to published.
func (s *APIV1Service) PublishPost(c echo.Context) error {
	id := c.Param("id")
	if !util.IsUUID(id) {
		return badRequest("Invalid post ID")
	}

	ctx := c.Request().Context()
	email := auth.GetUserEmail(ctx)
	post, err := s.Store.GetPost(ctx, &store.FindPost{ID: &id, UserEmail: &email})
	if err != nil {
		return internalError(err, "Failed to get post")
	}
	if post == nil {
		return notFound("Post not found")
	}
	if post.Status == store.PostStatusPublished {
		return c.JSON(http.StatusOK, postMutationResponse{
			ID:      id,
			Message: "Already published",
			Status:  store.PostStatusPublished.String(),
		})
	}

	status := store.PostStatusPublished
	now := time.Now().Unix()
	if _, err := s.Store.UpdatePost(ctx, &store.UpdatePost{
		ID:          id,
		UserEmail:   &email,
		Status:      &status,
		PublishedTs: &now,
		UpdatedTs:   &now,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Post not found")
		}
		return internalError(err, "Failed to publish post")
	}
	return c.JSON(http.StatusOK, postMutationResponse{
		ID:          id,
		Message:     "Post published successfully",
		Status:      status.String(),
		PublishedAt: formatTs(now),
	})
}

// ListPosts returns the caller's most recently updated posts.
func (s *APIV1Service) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()
	email := auth.GetUserEmail(ctx)
	limit := listLimit
	posts, err := s.Store.ListPosts(ctx, &store.FindPost{UserEmail: &email, Limit: &limit})
	if err != nil {
		return internalError(err, "Failed to list posts")
	}

	resp := make([]*postResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, convertPost(post))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPost returns one of the caller's posts.
func (s *APIV1Service) GetPost(c echo.Context) error {
	id := c.Param("id")
	if !util.IsUUID(id) {
		return badRequest("Invalid post ID")
	}

	ctx := c.Request().Context()
	email := auth.GetUserEmail(ctx)
	post, err := s.Store.GetPost(ctx, &store.FindPost{ID: &id, UserEmail: &email})
	if err != nil {
		return internalError(err, "Failed to get post")
	}
	if post == nil {
		return notFound("Post not found")
	}
	return c.JSON(http.StatusOK, convertPost(post))
}
