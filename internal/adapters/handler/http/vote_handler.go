package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/ports"
)

type VoteHandler struct {
	votes      ports.VoteService
	candidates ports.CandidateService
}

func NewVoteHandler(votes ports.VoteService, candidates ports.CandidateService) *VoteHandler {
	return &VoteHandler{
		votes:      votes,
		candidates: candidates,
	}
}

type castVoteRequest struct {
	VoterName  string `json:"voter_name"`
	EmployeeID string `json:"employee_id"`
	FirstID    string `json:"first_id"`
	SecondID   string `json:"second_id"`
	ThirdID    string `json:"third_id"`
}

// voteRow is a ballot with ids resolved to current labels for display. An id
// no candidate carries anymore is shown as the raw id text.
type voteRow struct {
	VoterName  string `json:"voter_name"`
	EmployeeID string `json:"employee_id"`
	First      string `json:"first"`
	Second     string `json:"second"`
	Third      string `json:"third"`
	Time       string `json:"time"`
}

func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.VoterName) == "" || strings.TrimSpace(req.EmployeeID) == "" {
		http.Error(w, "voter name and employee id are required", http.StatusBadRequest)
		return
	}

	vote, err := h.votes.Cast(r.Context(), ports.CastVoteInput{
		VoterName:  req.VoterName,
		EmployeeID: req.EmployeeID,
		FirstID:    req.FirstID,
		SecondID:   req.SecondID,
		ThirdID:    req.ThirdID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("casting vote failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(vote); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *VoteHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.labeledVotes(r, 0)
	if err != nil {
		slog.Error("listing votes failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Updated reports when the vote store last changed, so a polling admin page
// can detect new ballots without re-fetching the whole listing.
func (h *VoteHandler) Updated(w http.ResponseWriter, r *http.Request) {
	at, err := h.votes.LastModified(r.Context())
	if err != nil {
		slog.Error("reading vote store mtime failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	updated := ""
	if !at.IsZero() {
		updated = at.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"updated_at": updated})
}

func (h *VoteHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.votes.Reset(r.Context()); err != nil {
		slog.Error("resetting votes failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slog.Info("all votes wiped")
	w.WriteHeader(http.StatusNoContent)
}

// labeledVotes joins the raw ballots against the current candidate table.
// pad > 0 left-pads employee ids with zeros to that many digits, display
// only; the stored value never changes.
func (h *VoteHandler) labeledVotes(r *http.Request, pad int) ([]voteRow, error) {
	votes, err := h.votes.List(r.Context())
	if err != nil {
		return nil, err
	}
	cands, err := h.candidates.List(r.Context(), false)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string, len(cands))
	for _, c := range cands {
		labels[c.ID] = c.Label
	}
	resolve := func(id string) string {
		if label, ok := labels[id]; ok {
			return label
		}
		return id
	}

	rows := make([]voteRow, 0, len(votes))
	for _, v := range votes {
		employeeID := v.EmployeeID
		if pad > 0 && len(employeeID) < pad {
			employeeID = strings.Repeat("0", pad-len(employeeID)) + employeeID
		}
		rows = append(rows, voteRow{
			VoterName:  v.VoterName,
			EmployeeID: employeeID,
			First:      resolve(v.FirstID),
			Second:     resolve(v.SecondID),
			Third:      resolve(v.ThirdID),
			Time:       v.Time,
		})
	}
	return rows, nil
}
