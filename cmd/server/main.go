package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/alwahda/fabricshop/internal/config"
	"github.com/alwahda/fabricshop/internal/events"
	"github.com/alwahda/fabricshop/internal/handlers"
	"github.com/alwahda/fabricshop/internal/handlers/cart"
	"github.com/alwahda/fabricshop/internal/logging"
	middleware "github.com/alwahda/fabricshop/internal/middleware/auth"
	"github.com/alwahda/fabricshop/internal/seed"
	httpserver "github.com/alwahda/fabricshop/internal/transport/http"
)

func main() {
	seedData := flag.Bool("seed", false, "Seed the database with the demo catalog")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if *seedData {
		if err := seed.Run(db); err != nil {
			log.Fatalf("seed error: %v", err)
		}
		logger.Info("seed complete")
	}

	var producer events.Publisher = events.Noop{}
	if cfg.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{cfg.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())

	deps := httpserver.Deps{
		Guard:            &middleware.SessionGuard{DB: db},
		AuthHandler:      &handlers.AuthHandler{DB: db, Producer: producer},
		CatalogHandler:   &handlers.CatalogHandler{DB: db, Producer: producer},
		CartHandler:      &cart.CartHandler{DB: db, Producer: producer},
		OrdersHandler:    &handlers.OrdersHandler{DB: db, Producer: producer},
		CustomersHandler: &handlers.CustomersHandler{DB: db},
		InventoryHandler: &handlers.InventoryHandler{DB: db, Producer: producer},
		AnalyticsHandler: &handlers.AnalyticsHandler{DB: db},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
