package router // router builds the echo instance and registers routes

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/middleware"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/view"
)

// Options carries everything New needs. Redis and Events may be nil; Now
// defaults to time.Now.
type Options struct {
	DB        *sql.DB
	Sessions  *session.Store
	CSRF      middleware.CSRFConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Events    service.EventPublisher
	LogLevel  string
	Now       func() time.Time
}

// New assembles the site: logger, recovery and request logging, renderer,
// validator, error pages, rate limiting, CSRF and all routes.
func New(opts Options) (*echo.Echo, error) {
	if opts.DB == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("router: DB and Sessions are required")
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(ParseLevel(opts.LogLevel))

	renderer, err := view.NewRenderer(opts.Sessions, middleware.CSRFContextKey)
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = form.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Errorf("%s %s -> %d (%s) from %s: %v", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s -> %d (%s) from %s", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP)
			return nil
		},
	}))
	e.Use(middleware.NewTokenBucket(opts.RateLimit, opts.Redis))
	e.Use(middleware.CSRF(opts.CSRF, opts.Sessions))

	h := handler.NewHandler(
		repository.NewVenueRepo(opts.DB),
		repository.NewArtistRepo(opts.DB),
		repository.NewShowRepo(opts.DB),
		opts.Sessions,
		opts.Events,
	)
	if opts.Now != nil {
		h.Now = opts.Now
	}

	RegisterRoutes(e)
	RegisterListings(e, h)
	return e, nil
}

// RegisterRoutes registers routes that are not part of the site pages.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// ParseLevel maps LOG_LEVEL values to gommon levels; unknown values mean
// INFO.
func ParseLevel(s string) log.Lvl {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return log.DEBUG
	case "WARN", "WARNING":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	}
	return log.INFO
}
