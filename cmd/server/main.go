package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	handler "github.com/kocchi0218/form/internal/adapters/handler/http"
	"github.com/kocchi0218/form/internal/adapters/repository/csvfile"
	"github.com/kocchi0218/form/internal/adapters/repository/sqlstore"
	"github.com/kocchi0218/form/internal/core/alias"
	"github.com/kocchi0218/form/internal/core/ports"
	"github.com/kocchi0218/form/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var addr, dataDir, backend, dbURL string
	flag.StringVar(&addr, "addr", envOr("FORM_ADDR", "0.0.0.0:8080"), "listen address")
	flag.StringVar(&dataDir, "data-dir", envOr("FORM_DATA_DIR", "."), "directory holding candidates.csv and votes.csv")
	flag.StringVar(&backend, "store", envOr("FORM_STORE", "csv"), "store backend: csv, sqlite or postgres")
	flag.StringVar(&dbURL, "db-url", os.Getenv("FORM_DB_URL"), "database DSN for the sqlite/postgres backends")
	flag.Parse()

	candidates, votes, err := openStore(backend, dataDir, dbURL)
	if err != nil {
		log.Fatal(err)
	}

	norm := alias.NewNormalizer()
	candidateService := services.NewCandidateService(candidates, votes, norm)
	voteService := services.NewVoteService(votes)
	standingsService := services.NewStandingsService(candidates, votes)

	mux := handler.NewHandler(
		handler.NewCandidateHandler(candidateService),
		handler.NewVoteHandler(voteService, candidateService),
		handler.NewStandingsHandler(standingsService),
	)

	server := &stdhttp.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "addr", addr, "store", backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func openStore(backend, dataDir, dbURL string) (ports.CandidateRepository, ports.VoteRepository, error) {
	switch backend {
	case "csv":
		store, err := csvfile.Open(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return store.Candidates(), store.Votes(), nil

	case "sqlite", "postgres":
		db, err := sql.Open(backend, dbURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, nil, err
		}
		store := sqlstore.NewStore(db)
		if err := store.Init(context.Background()); err != nil {
			return nil, nil, err
		}
		return store.Candidates(), store.Votes(), nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", backend)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
