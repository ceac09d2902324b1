package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/latavola/ordering/internal/catalog"
	"github.com/latavola/ordering/internal/config"
	"github.com/latavola/ordering/internal/feedback"
	"github.com/latavola/ordering/internal/httpx"
	"github.com/latavola/ordering/internal/identity"
	kafkax "github.com/latavola/ordering/internal/kafka"
	"github.com/latavola/ordering/internal/logging"
	"github.com/latavola/ordering/internal/orders"
	"github.com/latavola/ordering/internal/postgres"
	"github.com/latavola/ordering/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		slog.Error("db migrate", "error", err)
		os.Exit(1)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Stores, engine, handler
	orderRepo := &orders.Repo{DB: db}
	userRepo := &identity.Repo{DB: db}
	catalogRepo := &catalog.Repo{DB: db}
	engine := orders.NewEngine(orderRepo, userRepo, catalogRepo, cfg.PriceCheck)

	router := httpx.NewRouter()
	h := &httpx.Handler{
		Engine:   engine,
		Orders:   orderRepo,
		Catalog:  catalogRepo,
		Users:    userRepo,
		Feedback: &feedback.Repo{DB: db},
		Redis:    rdb,
		Producer: prod,
		Service:  cfg.ServiceName,
	}
	h.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("HTTP listening", "addr", cfg.HTTPAddr, "price_check", string(cfg.PriceCheck))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
