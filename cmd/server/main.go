package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/freshcart/storefront/internal/config"
	"github.com/freshcart/storefront/internal/db"
	"github.com/freshcart/storefront/internal/es"
	"github.com/freshcart/storefront/internal/event"
	"github.com/freshcart/storefront/internal/httpserver"
	"github.com/freshcart/storefront/internal/logging"
	"github.com/freshcart/storefront/internal/repo"
	"github.com/freshcart/storefront/internal/service"
	"github.com/freshcart/storefront/internal/service/search"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	database, err := db.Open(ctx, configuration.DatabaseDSN())
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(database); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	var cache *redis.Client
	if configuration.REDIS_ADDR != "" {
		cache = redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR})
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, product cache disabled", "error", err)
			cache = nil
		}
	}

	var producer *event.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = event.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	gormRepo := repo.New(database, cache)
	carts := &service.CartService{Repo: gormRepo}
	orders := &service.OrderService{Repo: gormRepo}
	catalog := &service.CatalogService{Repo: gormRepo}

	jwtSecret := []byte(configuration.JWT_SECRET)

	deps := httpserver.Deps{
		CartHandler:  &httpserver.CartHandler{Carts: carts, Producer: producer, JWTSecret: jwtSecret},
		OrderHandler: &httpserver.OrderHandler{Orders: orders, Producer: producer, JWTSecret: jwtSecret},
		ProductHandler: &httpserver.ProductHandler{
			Catalog:   catalog,
			Producer:  producer,
			JWTSecret: jwtSecret,
		},
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		} else {
			deps.SearchHandler = &httpserver.SearchHandler{ES: esClient, Index: "products"}
			deps.ProductHandler.Indexer = &search.Indexer{ES: esClient, Index: "products"}
		}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
