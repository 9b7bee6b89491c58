package v1

import (
	"time"

	"github.com/quillzy/quillzy/store"
)

type postResponse struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	PlainText   string `json:"plain_text"`
	WordCount   int32  `json:"word_count"`
	Status      string `json:"status"`
	UserEmail   string `json:"user_email"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	PublishedAt string `json:"published_at,omitempty"`
}

type draftResponse struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	PlainText string `json:"plain_text"`
	WordCount int32  `json:"word_count"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func formatTs(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func convertPost(post *store.Post) *postResponse {
	resp := &postResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		PlainText: post.PlainText,
		WordCount: post.WordCount,
		Status:    post.Status.String(),
		UserEmail: post.UserEmail,
		CreatedAt: formatTs(post.CreatedTs),
		UpdatedAt: formatTs(post.UpdatedTs),
	}
	if post.PublishedTs != nil {
		resp.PublishedAt = formatTs(*post.PublishedTs)
	}
	return resp
}

func convertDraft(draft *store.Draft) *draftResponse {
	return &draftResponse{
		ID:        draft.ID,
		Title:     draft.Title,
		Content:   draft.Content,
		PlainText: draft.PlainText,
		WordCount: draft.WordCount,
		Status:    draft.Status,
		CreatedAt: formatTs(draft.CreatedTs),
		UpdatedAt: formatTs(draft.UpdatedTs),
	}
}
