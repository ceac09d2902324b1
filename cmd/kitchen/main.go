package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/latavola/ordering/internal/config"
	kafkax "github.com/latavola/ordering/internal/kafka"
	"github.com/latavola/ordering/internal/kitchen"
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

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Producer for order.confirmed
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderConfirmed, 1024)
	prod.Start(ctx)

	svc := &kitchen.Service{
		Orders:      &orders.Repo{DB: db},
		Redis:       rdb,
		Producer:    prod,
		ServiceName: cfg.ServiceName + "-kitchen",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.KitchenGroup, orders.TopicOrderCreated, cfg.KitchenWorkers)

	go func() {
		slog.Info("kitchen consumer started",
			"group", cfg.KitchenGroup, "topic", orders.TopicOrderCreated, "workers", cfg.KitchenWorkers)
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			slog.Error("consumer exit", "error", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	prod.Close()
	prod.WaitClosed()
}
