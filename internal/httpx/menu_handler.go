package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/latavola/ordering/internal/redisx"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.serveCached(ctx, w, redisx.KeyCategories) {
		return
	}
	out, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.cacheAndWrite(ctx, w, redisx.KeyCategories, redisx.TTLMenuCache, out)
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.serveCached(ctx, w, redisx.KeyMenuAll) {
		return
	}
	out, err := h.Catalog.ListMenu(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.cacheAndWrite(ctx, w, redisx.KeyMenuAll, redisx.TTLMenuCache, out)
}

func (h *Handler) listMenuByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyMenuByCategory, categoryID)
	if h.serveCached(ctx, w, key) {
		return
	}
	out, err := h.Catalog.ListMenuByCategory(ctx, categoryID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.cacheAndWrite(ctx, w, key, redisx.TTLMenuCache, out)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	item, err := h.Catalog.GetMenuItem(ctx, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) popularItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.serveCached(ctx, w, redisx.KeyPopularItems) {
		return
	}
	out, err := h.Catalog.PopularItems(ctx, 5)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.cacheAndWrite(ctx, w, redisx.KeyPopularItems, redisx.TTLPopularCache, out)
}

// serveCached writes the cached JSON body for key if present.
func (h *Handler) serveCached(ctx context.Context, w http.ResponseWriter, key string) bool {
	if h.Redis == nil {
		return false
	}
	s, err := h.Redis.Get(ctx, key).Result()
	if err != nil || s == "" {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s))
	return true
}

func (h *Handler) cacheAndWrite(ctx context.Context, w http.ResponseWriter, key string, ttl time.Duration, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, b, ttl).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
