package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/ports"
)

type CandidateHandler struct {
	service ports.CandidateService
}

func NewCandidateHandler(service ports.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		service: service,
	}
}

type createCandidateRequest struct {
	Label string `json:"label"`
}

type updateCandidateRequest struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "1"

	cands, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		slog.Error("listing candidates failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cands); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Create adds a candidate, or folds the label into an existing candidate
// when it normalizes to a merge key already in use.
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cand, err := h.service.AddOrMerge(r.Context(), req.Label)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("adding candidate failed", "error", err, "label", req.Label)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(cand); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Update renames a candidate (merging any label collision into it) and sets
// its active flag.
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing candidate id", http.StatusBadRequest)
		return
	}

	var req updateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cand, err := h.service.RenameOrMerge(r.Context(), id, req.Label)
	if err == nil && cand.Active != req.Active {
		err = h.service.SetActive(r.Context(), id, req.Active)
		cand.Active = req.Active
	}
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("updating candidate failed", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cand); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
