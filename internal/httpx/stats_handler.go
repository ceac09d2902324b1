package httpx

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.Service,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.CountUsers(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	orderCount, err := h.Orders.CountOrders(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	menuItems, err := h.Catalog.CountMenuItems(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	revenue, err := h.Orders.Revenue(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":        users,
		"orders":       orderCount,
		"menuItems":    menuItems,
		"totalRevenue": revenue,
	})
}
