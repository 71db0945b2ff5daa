package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorPage struct {
	Code    int
	Message string
}

// HTTPErrorHandler renders errors as HTML pages: 404 and 5xx get their own
// templates, other codes a generic one. 5xx errors are logged with the
// internal cause.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok && m != http.StatusText(code) {
			msg = m
		}
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	var rerr error
	switch {
	case code == http.StatusNotFound:
		rerr = c.Render(code, "errors/404.html", msg)
	case code >= http.StatusInternalServerError:
		rerr = c.Render(code, "errors/500.html", nil)
	default:
		if msg == "" {
			msg = http.StatusText(code)
		}
		rerr = c.Render(code, "errors/error.html", errorPage{Code: code, Message: msg})
	}
	if rerr != nil {
		c.Logger().Errorf("render error page: %v", rerr)
		_ = c.String(code, http.StatusText(code))
	}
}
