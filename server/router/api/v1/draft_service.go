package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillzy/quillzy/internal/util"
	"github.com/quillzy/quillzy/store"
)

type saveDraftRequest struct {
	DraftID   string  `json:"draft_id"`
	Content   string  `json:"content"`
	PlainText string  `json:"plain_text"`
	Title     *string `json:"title"`
	WordCount int32   `json:"word_count"`
}

type saveDraftResponse struct {
	DraftID string `json:"draft_id"`
	Message string `json:"message"`
	SavedAt string `json:"saved_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// SaveDraft creates a draft, or overwrites the one named by draft_id.
func (s *APIV1Service) SaveDraft(c echo.Context) error {
	var req saveDraftRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	title := defaultTitle
	if req.Title != nil {
		title = *req.Title
	}

	ctx := c.Request().Context()
	now := time.Now().Unix()

	if req.DraftID == "" {
		draft, err := s.Store.CreateDraft(ctx, &store.Draft{
			ID:        util.GenUUID(),
			Title:     title,
			Content:   req.Content,
			PlainText: req.PlainText,
			WordCount: req.WordCount,
			Status:    store.DraftStatusDraft,
			CreatedTs: now,
			UpdatedTs: now,
		})
		if err != nil {
			return internalError(err, "Failed to create draft")
		}
		return c.JSON(http.StatusOK, saveDraftResponse{DraftID: draft.ID, Message: "Draft created", SavedAt: formatTs(now)})
	}

	if !util.IsUUID(req.DraftID) {
		return badRequest("Invalid draft ID")
	}
	if _, err := s.Store.UpdateDraft(ctx, &store.UpdateDraft{
		ID:        req.DraftID,
		Title:     &title,
		Content:   &req.Content,
		PlainText: &req.PlainText,
		WordCount: &req.WordCount,
		UpdatedTs: &now,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Draft not found")
		}
		return internalError(err, "Failed to save draft")
	}
	return c.JSON(http.StatusOK, saveDraftResponse{DraftID: req.DraftID, Message: "Draft saved", SavedAt: formatTs(now)})
}

// GetDraft returns a draft by ID.
func (s *APIV1Service) GetDraft(c echo.Context) error {
	id := c.Param("id")
	if !util.IsUUID(id) {
		return badRequest("Invalid draft ID")
	}

	draft, err := s.Store.GetDraft(c.Request().Context(), &store.FindDraft{ID: &id})
	if err != nil {
		return internalError(err, "Failed to get draft")
	}
	if draft == nil {
		return notFound("Draft not found")
	}
	return c.JSON(http.StatusOK, convertDraft(draft))
}

// ListDrafts returns the most recently updated drafts.
func (s *APIV1Service) ListDrafts(c echo.Context) error {
	status := store.DraftStatusDraft
	limit := listLimit
	drafts, err := s.Store.ListDrafts(c.Request().Context(), &store.FindDraft{Status: &status, Limit: &limit})
	if err != nil {
		return internalError(err, "Failed to list drafts")
	}

	resp := make([]*draftResponse, 0, len(drafts))
	for _, draft := range drafts {
		resp = append(resp, convertDraft(draft))
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteDraft removes a draft by ID.
func (s *APIV1Service) DeleteDraft(c echo.Context) error {
	id := c.Param("id")
	if !util.IsUUID(id) {
		return badRequest("Invalid draft ID")
	}

	if err := s.Store.DeleteDraft(c.Request().Context(), &store.DeleteDraft{ID: id}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Draft not found")
		}
		return internalError(err, "Failed to delete draft")
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Draft deleted"})
}
