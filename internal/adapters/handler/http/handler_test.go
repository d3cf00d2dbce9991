package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kocchi0218/form/internal/adapters/repository/memory"
	"github.com/kocchi0218/form/internal/core/alias"
	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/services"
)

func newTestHandler(candidates []domain.Candidate, votes []domain.Vote) (http.Handler, *memory.Store) {
	store := memory.NewStore(candidates, votes)
	candidateService := services.NewCandidateService(store.Candidates(), store.Votes(), alias.NewNormalizer())
	voteService := services.NewVoteService(store.Votes())
	standingsService := services.NewStandingsService(store.Candidates(), store.Votes())

	handler := NewHandler(
		NewCandidateHandler(candidateService),
		NewVoteHandler(voteService, candidateService),
		NewStandingsHandler(standingsService),
	)
	return handler, store
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func threeCandidates() []domain.Candidate {
	return []domain.Candidate{
		{ID: "aaaa0001", Label: "候補A", Active: true},
		{ID: "aaaa0002", Label: "候補B", Active: true},
		{ID: "aaaa0003", Label: "候補C", Active: false},
	}
}

func TestCastVoteCreated(t *testing.T) {
	handler, store := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodPost, "/api/votes/", `{
		"voter_name": "山田",
		"employee_id": "00042",
		"first_id": "aaaa0001",
		"second_id": "aaaa0002",
		"third_id": "aaaa0003"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var vote domain.Vote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vote))
	assert.Equal(t, "山田", vote.VoterName)
	assert.Equal(t, "00042", vote.EmployeeID)
	assert.NotEmpty(t, vote.Time)

	votes, err := store.Votes().All(context.Background())
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "00042", votes[0].EmployeeID)
}

func TestCastVoteRejectsMissingVoter(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodPost, "/api/votes/", `{
		"voter_name": "  ",
		"employee_id": "42",
		"first_id": "aaaa0001",
		"second_id": "aaaa0002",
		"third_id": "aaaa0003"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCastVoteRejectsDuplicateRanks(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodPost, "/api/votes/", `{
		"voter_name": "山田",
		"employee_id": "42",
		"first_id": "aaaa0001",
		"second_id": "aaaa0001",
		"third_id": "aaaa0003"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListVotesResolvesLabels(t *testing.T) {
	votes := []domain.Vote{
		{VoterName: "山田", EmployeeID: "42", FirstID: "aaaa0001", SecondID: "aaaa0003", ThirdID: "gone0000", Time: "2026-08-30T10:00:00"},
	}
	handler, _ := newTestHandler(threeCandidates(), votes)

	rec := doJSON(t, handler, http.MethodGet, "/api/votes/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []voteRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "候補A", rows[0].First)
	// inactive candidates still resolve in the listing
	assert.Equal(t, "候補C", rows[0].Second)
	// an orphaned id falls back to the raw id text
	assert.Equal(t, "gone0000", rows[0].Third)
}

func TestExportVotesQuotesEveryField(t *testing.T) {
	votes := []domain.Vote{
		{VoterName: "山田", EmployeeID: "42", FirstID: "aaaa0001", SecondID: "aaaa0002", ThirdID: "aaaa0003", Time: "2026-08-30T10:00:00"},
	}
	handler, _ := newTestHandler(threeCandidates(), votes)

	rec := doJSON(t, handler, http.MethodGet, "/api/votes/export?pad=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "votes_labeled.csv")

	lines := strings.Split(rec.Body.String(), "\r\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, `"voter_name","employee_id","first","second","third","time"`, lines[0])
	assert.Equal(t, `"山田","00042","候補A","候補B","候補C","2026-08-30T10:00:00"`, lines[1])
}

func TestExportVotesRejectsBadPad(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	for _, pad := range []string{"-1", "21", "abc"} {
		rec := doJSON(t, handler, http.MethodGet, "/api/votes/export?pad="+pad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "pad=%s", pad)
	}
}

func TestVotesUpdated(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodGet, "/api/votes/updated", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "", body["updated_at"])

	doJSON(t, handler, http.MethodPost, "/api/votes/", `{
		"voter_name": "山田",
		"employee_id": "42",
		"first_id": "aaaa0001",
		"second_id": "aaaa0002",
		"third_id": "aaaa0003"
	}`)

	rec = doJSON(t, handler, http.MethodGet, "/api/votes/updated", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["updated_at"])
}

func TestResetVotes(t *testing.T) {
	votes := []domain.Vote{{FirstID: "aaaa0001", SecondID: "aaaa0002", ThirdID: "aaaa0003"}}
	handler, store := newTestHandler(threeCandidates(), votes)

	rec := doJSON(t, handler, http.MethodDelete, "/api/votes/", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	remaining, err := store.Votes().All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestListCandidatesActiveFilter(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodGet, "/api/candidates/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []domain.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	rec = doJSON(t, handler, http.MethodGet, "/api/candidates/?active=1", "")
	var active []domain.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Len(t, active, 2)
}

func TestCreateCandidate(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodPost, "/api/candidates/", `{"label": "新候補"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var cand domain.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cand))
	assert.Equal(t, "新候補", cand.Label)
	assert.Len(t, cand.ID, 8)
	assert.True(t, cand.Active)
}

func TestCreateCandidateMergesEquivalentLabel(t *testing.T) {
	handler, store := newTestHandler(threeCandidates(), nil)

	// fullwidth spacing folds into the existing 候補A
	rec := doJSON(t, handler, http.MethodPost, "/api/candidates/", `{"label": "候補　A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var cand domain.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cand))
	assert.Equal(t, "aaaa0001", cand.ID)

	cands, err := store.Candidates().All(context.Background())
	require.NoError(t, err)
	assert.Len(t, cands, 3)
}

func TestCreateCandidateRejectsEmptyLabel(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodPost, "/api/candidates/", `{"label": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCandidate(t *testing.T) {
	handler, store := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodPut, "/api/candidates/aaaa0003", `{"label": "候補C改", "active": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var cand domain.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cand))
	assert.Equal(t, "候補C改", cand.Label)
	assert.True(t, cand.Active)

	cands, err := store.Candidates().All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "候補C改", cands[2].Label)
	assert.True(t, cands[2].Active)
}

func TestUpdateCandidateNotFound(t *testing.T) {
	handler, _ := newTestHandler(threeCandidates(), nil)

	rec := doJSON(t, handler, http.MethodPut, "/api/candidates/ffffffff", `{"label": "x", "active": true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStandings(t *testing.T) {
	votes := []domain.Vote{
		{FirstID: "aaaa0002", SecondID: "aaaa0001", ThirdID: "aaaa0003"},
		{FirstID: "aaaa0002", SecondID: "aaaa0003", ThirdID: "aaaa0001"},
	}
	handler, _ := newTestHandler(threeCandidates(), votes)

	rec := doJSON(t, handler, http.MethodGet, "/api/standings/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var standings []domain.Standing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &standings))
	require.Len(t, standings, 3)
	assert.Equal(t, "候補B", standings[0].Label)
	assert.Equal(t, 6, standings[0].Points)
	assert.Equal(t, 1, standings[0].Rank)

	rec = doJSON(t, handler, http.MethodGet, "/api/standings/?include_inactive=0", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &standings))
	assert.Len(t, standings, 2)
}

func TestStandingsExport(t *testing.T) {
	votes := []domain.Vote{
		{FirstID: "aaaa0001", SecondID: "aaaa0002", ThirdID: "aaaa0003"},
	}
	handler, _ := newTestHandler(threeCandidates(), votes)

	rec := doJSON(t, handler, http.MethodGet, "/api/standings/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "result.csv")

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "rank,label,points,first,second,third", lines[0])
	assert.Equal(t, "1,候補A,3,1,0,0", lines[1])
}
