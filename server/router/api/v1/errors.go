package v1

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ErrorHandler renders errors as {"detail": "..."}. Errors that are not echo
// HTTP errors become opaque 500s and are logged.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		detail = fmt.Sprint(he.Message)
		if he.Internal != nil {
			err = he.Internal
		}
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", code,
			"error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Detail: detail})
	}
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func badRequest(detail string) error {
	return echo.NewHTTPError(http.StatusBadRequest, detail)
}

func notFound(detail string) error {
	return echo.NewHTTPError(http.StatusNotFound, detail)
}

func internalError(err error, detail string) error {
	return echo.NewHTTPError(http.StatusInternalServerError, detail).SetInternal(err)
}
