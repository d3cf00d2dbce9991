package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kocchi0218/form/internal/adapters/repository/csvfile"
	"github.com/kocchi0218/form/internal/core/services"
)

// Dumps the current leaderboard as CSV on stdout. Useful for a quick check
// without the server running, or for piping into other tooling.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var dataDir string
	var includeInactive bool
	flag.StringVar(&dataDir, "data-dir", envOr("FORM_DATA_DIR", "."), "directory holding candidates.csv and votes.csv")
	flag.BoolVar(&includeInactive, "include-inactive", true, "include inactive candidates in the scope")
	flag.Parse()

	store, err := csvfile.Open(dataDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cands, err := store.Candidates().All(ctx)
	if err != nil {
		log.Fatal(err)
	}
	votes, err := store.Votes().All(ctx)
	if err != nil {
		log.Fatal(err)
	}

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"rank", "label", "points", "first", "second", "third"})
	for _, row := range services.Aggregate(cands, votes, includeInactive) {
		w.Write([]string{
			strconv.Itoa(row.Rank),
			row.Label,
			strconv.Itoa(row.Points),
			strconv.Itoa(row.FirstCount),
			strconv.Itoa(row.SecondCount),
			strconv.Itoa(row.ThirdCount),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
