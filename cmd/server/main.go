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

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dkotelnikov/sweet-shop/internal/config"
	"github.com/dkotelnikov/sweet-shop/internal/es"
	"github.com/dkotelnikov/sweet-shop/internal/handlers"
	"github.com/dkotelnikov/sweet-shop/internal/logging"
	authmw "github.com/dkotelnikov/sweet-shop/internal/middleware/auth"
	loggingmw "github.com/dkotelnikov/sweet-shop/internal/middleware/logging"
	"github.com/dkotelnikov/sweet-shop/internal/mykafka"
	"github.com/dkotelnikov/sweet-shop/internal/service"
	"github.com/dkotelnikov/sweet-shop/internal/store"
	httpserver "github.com/dkotelnikov/sweet-shop/internal/transport/http"
)

func main() {
	cfg := config.LoadConfig()

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(context.Background(), cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var prod *mykafka.Producer
	if cfg.KafkaAddress != "" {
		prod = mykafka.NewProducer([]string{cfg.KafkaAddress})
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	tokens := service.NewTokenService(cfg.JWTSecret)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{
			Users:    &store.UserStore{DB: db},
			Tokens:   tokens,
			Producer: prod,
		},
		SweetHandler: &handlers.SweetHandler{
			Sweets:   &store.SweetStore{DB: db},
			Producer: prod,
			ES:       esClient,
			ESIndex:  "sweets",
		},
		Guard: &authmw.Guard{Tokens: tokens},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
