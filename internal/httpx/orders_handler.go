package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/latavola/ordering/internal/catalog"
	"github.com/latavola/ordering/internal/feedback"
	"github.com/latavola/ordering/internal/identity"
	kafkax "github.com/latavola/ordering/internal/kafka"
	"github.com/latavola/ordering/internal/orders"
	"github.com/latavola/ordering/internal/redisx"
)

// OrderPlacer is the commit engine as the handler sees it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req *orders.CreateOrderRequest) (int64, error)
}

// OrderQueries is the order read-back and administration surface.
type OrderQueries interface {
	GetOrder(ctx context.Context, orderID int64) (*orders.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, to orders.Status) error
	CountOrders(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (float64, error)
}

type Handler struct {
	Engine   OrderPlacer
	Orders   OrderQueries
	Catalog  *catalog.Repo
	Users    *identity.Repo
	Feedback *feedback.Repo
	Redis    *redis.Client
	Producer *kafkax.Producer // order.created
	Service  string
}

func (h *Handler) Register(r *chi.Mux) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Get("/categories", h.listCategories)
		r.Get("/menu", h.listMenu)
		r.Get("/menu/item/{itemID}", h.getMenuItem)
		r.Get("/menu/{categoryID}", h.listMenuByCategory)
		r.Post("/orders", h.createOrder)
		r.Get("/orders/{userID}", h.listOrders)
		r.Get("/order/{orderID}", h.getOrder)
		r.Put("/orders/{orderID}/status", h.updateOrderStatus)
		r.Post("/feedback", h.submitFeedback)
		r.Get("/feedback", h.listFeedback)
		r.Get("/popular-items", h.popularItems)
		r.Get("/stats", h.stats)
		r.Get("/health", h.health)
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID, err := h.Engine.PlaceOrder(ctx, &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.publishOrderCreated(r, orderID, &req)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order placed successfully",
		"orderId": orderID,
	})
}

// publishOrderCreated emits the order.created event. The order is already
// committed; a publish failure must not turn a placed order into an error.
func (h *Handler) publishOrderCreated(r *http.Request, orderID int64, req *orders.CreateOrderRequest) {
	if h.Producer == nil {
		return
	}
	items := make([]orders.ItemSnapshot, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orders.ItemSnapshot{ItemID: it.ID, Quantity: it.Quantity, Price: it.Price})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: strconv.FormatInt(orderID, 10),
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:     orderID,
			UserID:      req.UserID,
			Items:       items,
			TotalAmount: orders.ComputeTotal(req.Items),
		}),
	}
	h.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderReceipt, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.Redis != nil {
		if b, err := json.Marshal(order); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLReceiptCache).Err()
		}
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Orders.ListOrders(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Orders.UpdateStatus(ctx, orderID, orders.Status(req.Status)); err != nil {
		writeDomainError(w, err)
		return
	}

	// Cached receipt still carries the old status.
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderReceipt, orderID)).Err()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order status updated successfully",
	})
}
