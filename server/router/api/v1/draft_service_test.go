package v1

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillzy/quillzy/internal/util"
)

func TestSaveDraft_CreateThenUpdate(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/drafts/save", map[string]any{
		"content":    "<p>first</p>",
		"plain_text": "first",
		"word_count": 1,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[saveDraftResponse](t, rec)
	assert.Equal(t, "Draft created", created.Message)
	assert.NotEmpty(t, created.SavedAt)
	require.True(t, util.IsUUID(created.DraftID))

	rec = ts.do(http.MethodPost, "/api/drafts/save", map[string]any{
		"draft_id":   created.DraftID,
		"title":      "Named",
		"content":    "<p>second</p>",
		"plain_text": "second",
		"word_count": 1,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode[saveDraftResponse](t, rec)
	assert.Equal(t, created.DraftID, saved.DraftID)
	assert.Equal(t, "Draft saved", saved.Message)

	rec = ts.do(http.MethodGet, "/api/drafts/"+created.DraftID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	draft := decode[draftResponse](t, rec)
	assert.Equal(t, "Named", draft.Title)
	assert.Equal(t, "<p>second</p>", draft.Content)
	assert.Equal(t, "second", draft.PlainText)
	assert.Equal(t, "draft", draft.Status)
}

func TestSaveDraft_DefaultTitle(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/drafts/save", map[string]any{"content": "x"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[saveDraftResponse](t, rec).DraftID

	rec = ts.do(http.MethodGet, "/api/drafts/"+id, nil, "")
	assert.Equal(t, "Untitled", decode[draftResponse](t, rec).Title)
}

func TestSaveDraft_BadIDs(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/drafts/save", map[string]any{"draft_id": "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid draft ID", detail(t, rec))

	rec = ts.do(http.MethodPost, "/api/drafts/save", map[string]any{"draft_id": util.GenUUID()}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Draft not found", detail(t, rec))
}

func TestListDrafts(t *testing.T) {
	ts := newTestServer(t, nil)
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		rec := ts.do(http.MethodPost, "/api/drafts/save", map[string]any{"title": title}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		ids = append(ids, decode[saveDraftResponse](t, rec).DraftID)
	}

	rec := ts.do(http.MethodGet, "/api/drafts", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	drafts := decode[[]draftResponse](t, rec)
	require.Len(t, drafts, 3)
	assert.Equal(t, ids[2], drafts[0].ID)
	assert.Equal(t, ids[0], drafts[2].ID)
}

func TestDeleteDraft(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(http.MethodPost, "/api/drafts/save", map[string]any{"title": "bye"}, "")
	id := decode[saveDraftResponse](t, rec).DraftID

	rec = ts.do(http.MethodDelete, "/api/drafts/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Draft deleted", decode[messageResponse](t, rec).Message)

	rec = ts.do(http.MethodGet, "/api/drafts/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/drafts/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Draft not found", detail(t, rec))

	rec = ts.do(http.MethodDelete, "/api/drafts/bad-id", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
