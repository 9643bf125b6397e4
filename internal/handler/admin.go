package handler

import (
	"log/slog"
	"net/http"
	"time"
)

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.store.Dashboard(time.Now())
	if err != nil {
		slog.Error("failed to build dashboard", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, dash)
}
