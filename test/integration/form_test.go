package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	handler "github.com/kocchi0218/form/internal/adapters/handler/http"
	"github.com/kocchi0218/form/internal/adapters/repository/sqlstore"
	"github.com/kocchi0218/form/internal/core/alias"
	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/ports"
	"github.com/kocchi0218/form/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Store       *sqlstore.Store
	Server      *httptest.Server
	Client      *http.Client
	Candidates  ports.CandidateService
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	store := sqlstore.NewStore(db)
	require.NoError(t, store.Init(ctx))

	candidateSvc := services.NewCandidateService(store.Candidates(), store.Votes(), alias.NewNormalizer())
	voteSvc := services.NewVoteService(store.Votes())
	standingsSvc := services.NewStandingsService(store.Candidates(), store.Votes())

	router := handler.NewHandler(
		handler.NewCandidateHandler(candidateSvc),
		handler.NewVoteHandler(voteSvc, candidateSvc),
		handler.NewStandingsHandler(standingsSvc),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Store:       store,
		Server:      server,
		Client:      server.Client(),
		Candidates:  candidateSvc,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) postJSON(t *testing.T, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := app.Client.Post(app.Server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

// TestVoteFlow covers the base lifecycle: Add Candidates -> Cast Votes ->
// Standings over postgres.
func TestVoteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	// Step 1: Add candidates
	var cands []domain.Candidate
	for _, label := range []string{"候補A", "候補B", "候補C"} {
		resp := app.postJSON(t, "/api/candidates", map[string]string{"label": label})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var cand domain.Candidate
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&cand))
		resp.Body.Close()
		cands = append(cands, cand)
	}

	// Step 2: Cast two ballots
	for i, ranks := range [][3]int{{1, 0, 2}, {1, 2, 0}} {
		resp := app.postJSON(t, "/api/votes", map[string]string{
			"voter_name":  fmt.Sprintf("voter-%d", i),
			"employee_id": fmt.Sprintf("%05d", i+1),
			"first_id":    cands[ranks[0]].ID,
			"second_id":   cands[ranks[1]].ID,
			"third_id":    cands[ranks[2]].ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Step 3: Standings put 候補B first with 6 points
	resp, err := app.Client.Get(app.Server.URL + "/api/standings")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var standings []domain.Standing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&standings))
	resp.Body.Close()

	require.Len(t, standings, 3)
	assert.Equal(t, "候補B", standings[0].Label)
	assert.Equal(t, 6, standings[0].Points)
	assert.Equal(t, 1, standings[0].Rank)

	// The employee id survives the database round trip as text
	var employeeID string
	err = app.DB.QueryRow(`SELECT employee_id FROM vote ORDER BY seq LIMIT 1`).Scan(&employeeID)
	require.NoError(t, err)
	assert.Equal(t, "00001", employeeID)
}

// TestMergeRepointsStoredVotes exercises a label collision end to end: votes
// cast for a duplicate candidate must follow the merge into the survivor.
func TestMergeRepointsStoredVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	// Seed two spellings of the same candidate plus fillers, bypassing the
	// merge service, as a legacy import would.
	seed := []domain.Candidate{
		{ID: "aaaa0001", Label: "パッケージ", Active: true},
		{ID: "aaaa0002", Label: "ﾊﾟｯｹｰｼﾞ", Active: true},
		{ID: "aaaa0003", Label: "候補X", Active: true},
		{ID: "aaaa0004", Label: "候補Y", Active: true},
	}
	require.NoError(t, app.Store.Candidates().Save(ctx, seed))
	require.NoError(t, app.Store.Votes().Append(ctx, domain.Vote{
		VoterName: "voter", EmployeeID: "1",
		FirstID: "aaaa0002", SecondID: "aaaa0003", ThirdID: "aaaa0004",
		Time: "2026-08-30T10:00:00",
	}))

	// Re-adding the label folds the halfwidth duplicate into the first match
	resp := app.postJSON(t, "/api/candidates", map[string]string{"label": "パッケージ"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var survivor domain.Candidate
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&survivor))
	resp.Body.Close()
	assert.Equal(t, "aaaa0001", survivor.ID)

	cands, err := app.Store.Candidates().All(ctx)
	require.NoError(t, err)
	require.Len(t, cands, 3)

	// The stored ballot now points at the survivor
	var firstID string
	err = app.DB.QueryRow(`SELECT first_id FROM vote ORDER BY seq LIMIT 1`).Scan(&firstID)
	require.NoError(t, err)
	assert.Equal(t, "aaaa0001", firstID)

	// Standings credit the survivor with the repointed first place
	standings, err := services.NewStandingsService(app.Store.Candidates(), app.Store.Votes()).Standings(ctx, true)
	require.NoError(t, err)
	require.NotEmpty(t, standings)
	assert.Equal(t, "パッケージ", standings[0].Label)
	assert.Equal(t, 3, standings[0].Points)
}
