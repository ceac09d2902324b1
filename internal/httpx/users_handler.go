package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type loginRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone number are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, registered, err := h.Users.LoginOrRegister(ctx, req.Name, req.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	message := "Login successful"
	if registered {
		message = "Registration successful"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"user":    user,
	})
}
