package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/furniture_shop/internal/config"
	pkgdb "github.com/Skotchmaster/furniture_shop/internal/db"
	"github.com/Skotchmaster/furniture_shop/internal/events"
	"github.com/Skotchmaster/furniture_shop/internal/httpserver"
	"github.com/Skotchmaster/furniture_shop/internal/logging"
	"github.com/Skotchmaster/furniture_shop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/furniture_shop/internal/middleware/logging"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/Skotchmaster/furniture_shop/internal/repo/gormrepo"
	"github.com/Skotchmaster/furniture_shop/internal/repo/mongorepo"
	"github.com/Skotchmaster/furniture_shop/internal/revoke"
	"github.com/Skotchmaster/furniture_shop/internal/search"
	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/tokens"
)

func openStore(ctx context.Context, cfg config.Config) (repo.Store, error) {
	switch cfg.StoreDriver {
	case pkgdb.DriverMongo:
		r, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return r, nil
	case pkgdb.DriverPostgres, pkgdb.DriverSQLite:
		r, err := gormrepo.Connect(ctx, cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stdout, level, cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	logger.Info("store_ready", "driver", cfg.StoreDriver)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	var revoked revoke.Store = revoke.Nop{}
	var redisStore *revoke.RedisStore
	if cfg.RedisAddr != "" {
		redisStore = revoke.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
		revoked = redisStore
		logger.Info("redis_enabled", "addr", cfg.RedisAddr)
	} else {
		logger.Warn("redis_disabled", "reason", "REDIS_ADDR not set, logout does not revoke tokens")
	}

	catalog := &service.CatalogService{Repo: store, Events: publisher}
	if cfg.ESURL != "" {
		index, err := search.NewIndex(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("search index: %v", err)
		}
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := index.Ping(pingCtx); err != nil {
			logger.Warn("elasticsearch_unreachable", "error", err)
		}
		pingCancel()
		catalog.Index = index
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewValidator()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(echomw.BodyLimit("1M"))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:        store,
			Tokens:      tokens.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
			Revoked:     revoked,
			Events:      publisher,
			AdminEmails: cfg.AdminEmails,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: store, Events: publisher}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: store, Events: publisher}},
		CardHandler:    &httpserver.CardHTTP{Svc: &service.CardService{Repo: store}},
		Gate:           auth.NewGate(cfg.JWTSecret, revoked),
		Ready:          store.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("store_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
