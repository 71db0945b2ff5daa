package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/utils"
)

// CSRFContextKey is where the token for the page being rendered is stored on
// the echo context.
const CSRFContextKey = "csrf_token"

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	Enabled bool
	Secret  []byte
	TTL     time.Duration
}

// CSRF issues a signed token bound to the session nonce on every request and
// requires it back on POST, PUT, PATCH and DELETE, either as the csrf_token
// form field or the X-CSRF-Token header.
func CSRF(cfg CSRFConfig, store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !cfg.Enabled {
			return next
		}
		return func(c echo.Context) error {
			nonce, err := store.Nonce(c)
			if err != nil {
				return err
			}
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
			default:
				tok := c.FormValue(CSRFContextKey)
				if tok == "" {
					tok = c.Request().Header.Get("X-CSRF-Token")
				}
				if err := utils.VerifyCSRFToken(cfg.Secret, tok, nonce); err != nil {
					c.Logger().Warnf("csrf: rejected %s %s: %v", c.Request().Method, c.Path(), err)
					return echo.NewHTTPError(http.StatusForbidden, "The form has expired, reload the page and try again.")
				}
			}
			// a fresh token for whatever page this request renders
			tok, err := utils.NewCSRFToken(cfg.Secret, nonce, cfg.TTL)
			if err != nil {
				return err
			}
			c.Set(CSRFContextKey, tok)
			return next(c)
		}
	}
}
