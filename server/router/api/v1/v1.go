package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/quillzy/quillzy/ai/writing"
	"github.com/quillzy/quillzy/internal/profile"
	"github.com/quillzy/quillzy/server/auth"
	"github.com/quillzy/quillzy/store"
)

const listLimit = 20

// APIV1Service serves the editor's JSON API under /api.
type APIV1Service struct {
	Profile       *profile.Profile
	Store         *store.Store
	Assistant     *writing.Assistant
	Authenticator *auth.Authenticator
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, assistant *writing.Assistant) *APIV1Service {
	if assistant == nil {
		assistant = writing.NewAssistant(nil)
	}
	return &APIV1Service{
		Profile:       profile,
		Store:         store,
		Assistant:     assistant,
		Authenticator: auth.NewAuthenticator(profile.JWTSecret),
	}
}

// RegisterRoutes mounts every API route on e. aiMiddleware wraps the AI
// routes only.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo, aiMiddleware ...echo.MiddlewareFunc) {
	authGroup := e.Group("/api/auth")
	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.GET("/me", s.GetMe, s.Authenticator.Middleware())

	postGroup := e.Group("/api/posts", s.Authenticator.Middleware())
	postGroup.POST("", s.CreatePost)
	postGroup.GET("", s.ListPosts)
	postGroup.GET("/:id", s.GetPost)
	postGroup.PATCH("/:id", s.UpdatePost)
	postGroup.POST("/:id/publish", s.PublishPost)

	draftGroup := e.Group("/api/drafts")
	draftGroup.POST("/save", s.SaveDraft)
	draftGroup.GET("", s.ListDrafts)
	draftGroup.GET("/:id", s.GetDraft)
	draftGroup.DELETE("/:id", s.DeleteDraft)

	aiGroup := e.Group("/api/ai", aiMiddleware...)
	aiGroup.POST("/generate", s.GenerateSummary)
	aiGroup.POST("/fix-grammar", s.FixGrammar)

	e.GET("/api/feed/rss", s.GetRSS)
}
