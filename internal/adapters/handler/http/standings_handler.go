package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kocchi0218/form/internal/core/ports"
)

type StandingsHandler struct {
	service ports.StandingsService
}

func NewStandingsHandler(service ports.StandingsService) *StandingsHandler {
	return &StandingsHandler{
		service: service,
	}
}

// Get returns the leaderboard. Inactive candidates are included unless
// include_inactive=0 narrows the scope.
func (h *StandingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.Standings(r.Context(), includeInactive(r))
	if err != nil {
		slog.Error("computing standings failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(standings); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func includeInactive(r *http.Request) bool {
	switch r.URL.Query().Get("include_inactive") {
	case "0", "false":
		return false
	}
	return true
}
