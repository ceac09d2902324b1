package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/latavola/ordering/internal/feedback"
)

type feedbackRequest struct {
	UserID  int64  `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID <= 0 || req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "user id and a rating between 1 and 5 are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Feedback.Submit(ctx, req.UserID, req.Rating, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Feedback submitted successfully",
		"feedbackId": id,
	})
}

func (h *Handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Feedback.List(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if out == nil {
		out = []feedback.Feedback{}
	}
	writeJSON(w, http.StatusOK, out)
}
