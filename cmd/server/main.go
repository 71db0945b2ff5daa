package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/middleware"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/session"
)

func main() {
	logger := log.New("fyyur")

	cfg, err := config.Load() // Load environment config
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(router.ParseLevel(cfg.LogLevel))

	dsn := database.SQLiteDSN(cfg.DBName)
	if cfg.DBDriver == "mysql" {
		dsn = database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		logger.Fatalf("open %s database: %v", cfg.DBDriver, err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
			logger.Fatalf("migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient() // nil disables rate limiting
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.RabbitMQURL)
		consumer := queue.NewConsumer(cfg.RabbitMQURL, "logs")
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("activity consumer stopped: %v", err)
			}
		}()
	}

	e, err := router.New(router.Options{
		DB:       db,
		Sessions: session.NewStore(cfg.SessionSecret, cfg.Production()),
		CSRF: middleware.CSRFConfig{
			Enabled: cfg.CSRFEnabled,
			Secret:  cfg.SessionSecret,
			TTL:     cfg.CSRFTTL,
		},
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
		Events:    events,
		LogLevel:  cfg.LogLevel,
	})
	if err != nil {
		logger.Fatalf("build server: %v", err)
	}

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
