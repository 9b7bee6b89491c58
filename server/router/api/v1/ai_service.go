package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillzy/quillzy/ai/writing"
)

type aiRequest struct {
	Text string `json:"text"`
}

type aiResponse struct {
	Result string `json:"result"`
	Source string `json:"source"`
}

// GenerateSummary summarizes blog content.
func (s *APIV1Service) GenerateSummary(c echo.Context) error {
	return s.runAssistant(c, s.Assistant.Summarize)
}

// FixGrammar corrects grammar, spelling and punctuation.
func (s *APIV1Service) FixGrammar(c echo.Context) error {
	return s.runAssistant(c, s.Assistant.FixGrammar)
}

func (s *APIV1Service) runAssistant(c echo.Context, action func(context.Context, string) (*writing.Result, error)) error {
	var req aiRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}

	result, err := action(c.Request().Context(), req.Text)
	if err != nil {
		if errors.Is(err, writing.ErrEmptyText) {
			return badRequest("No content provided for AI")
		}
		return internalError(err, "AI generation error")
	}
	return c.JSON(http.StatusOK, aiResponse{Result: result.Text, Source: result.Source})
}
