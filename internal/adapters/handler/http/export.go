package http

import (
	"bufio"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// ExportCSV streams the leaderboard as result.csv.
func (h *StandingsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.Standings(r.Context(), includeInactive(r))
	if err != nil {
		slog.Error("computing standings failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="result.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"rank", "label", "points", "first", "second", "third"})
	for _, row := range standings {
		cw.Write([]string{
			strconv.Itoa(row.Rank),
			row.Label,
			strconv.Itoa(row.Points),
			strconv.Itoa(row.FirstCount),
			strconv.Itoa(row.SecondCount),
			strconv.Itoa(row.ThirdCount),
		})
	}
	cw.Flush()
}

// ExportCSV streams the labeled ballot listing as votes_labeled.csv. Every
// field is quoted so spreadsheet imports keep employee ids as text; pad=N
// additionally zero-fills employee ids to N digits.
func (h *VoteHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	pad := 0
	if raw := r.URL.Query().Get("pad"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 20 {
			http.Error(w, "pad must be a number between 0 and 20", http.StatusBadRequest)
			return
		}
		pad = n
	}

	rows, err := h.labeledVotes(r, pad)
	if err != nil {
		slog.Error("listing votes failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="votes_labeled.csv"`)

	bw := bufio.NewWriter(w)
	writeQuoted(bw, []string{"voter_name", "employee_id", "first", "second", "third", "time"})
	for _, row := range rows {
		writeQuoted(bw, []string{row.VoterName, row.EmployeeID, row.First, row.Second, row.Third, row.Time})
	}
	bw.Flush()
}

// writeQuoted emits one CSV record with every field double-quoted,
// regardless of content. encoding/csv only quotes when forced to, which lets
// spreadsheets reinterpret bare digit strings as numbers.
func writeQuoted(w *bufio.Writer, record []string) {
	for i, field := range record {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteString("\r\n")
}
