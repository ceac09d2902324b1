// Package kitchen consumes order.created events and confirms new orders,
// which is the administrative status path the commit engine never touches.
package kitchen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/latavola/ordering/internal/kafka"
	"github.com/latavola/ordering/internal/orders"
	"github.com/latavola/ordering/internal/redisx"
)

// StatusUpdater is the slice of the order store the kitchen needs.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID int64, to orders.Status) error
}

type Service struct {
	Orders      StatusUpdater
	Redis       *redis.Client
	Producer    *kafkax.Producer // publishes order.confirmed
	ServiceName string
}

// HandleOrderCreated is installed as the consumer handler.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil // ignore
	}

	// Dedup on event id: redeliveries must not re-confirm.
	dkey := fmt.Sprintf(redisx.KeyDedup, "kitchen", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	err = s.Orders.UpdateStatus(ctx, p.OrderID, orders.StatusConfirmed)
	if err != nil {
		// Another consumer (or an admin) already moved the order on.
		var te orders.InvalidTransitionError
		if errors.As(err, &te) {
			slog.Debug("order already past pending", "order_id", p.OrderID, "from", te.From)
			return nil
		}
		if errors.Is(err, orders.ErrOrderNotFound) {
			slog.Warn("order.created for unknown order", "order_id", p.OrderID)
			return nil
		}
		return err
	}

	// The cached receipt still says pending; drop it so the next read
	// repopulates.
	_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderReceipt, p.OrderID)).Err()

	slog.Info("order confirmed", "order_id", p.OrderID, "total", p.TotalAmount)
	return s.publishConfirmed(p.OrderID, env.TraceID)
}

func (s *Service) publishConfirmed(orderID int64, trace string) error {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: fmt.Sprintf("%d", orderID),
		Payload:       kafkax.MustMarshal(orders.OrderConfirmedPayload{OrderID: orderID}),
	}
	s.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderConfirmed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}
