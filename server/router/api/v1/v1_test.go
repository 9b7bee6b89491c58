package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/quillzy/quillzy/ai/writing"
	"github.com/quillzy/quillzy/internal/profile"
	"github.com/quillzy/quillzy/store"
	"github.com/quillzy/quillzy/store/db"
)

const testSecret = "test-secret"

type testServer struct {
	t       *testing.T
	echo    *echo.Echo
	service *APIV1Service
}

func newTestServer(t *testing.T, assistant *writing.Assistant) *testServer {
	t.Helper()
	p := &profile.Profile{
		Mode:        "dev",
		Driver:      "sqlite",
		DSN:         filepath.Join(t.TempDir(), "quillzy_test.db"),
		JWTSecret:   testSecret,
		InstanceURL: "https://blog.example.com/",
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	service := NewAPIV1Service(p, s, assistant)
	service.RegisterRoutes(e)
	return &testServer{t: t, echo: e, service: service}
}

func (ts *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

// signup registers email and returns its access token.
func (ts *testServer) signup(email string) string {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": "hunter2",
		"name":     "Writer",
	}, "")
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tokenResponse](ts.t, rec).AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Detail
}
