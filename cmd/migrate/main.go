package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kocchi0218/form/internal/adapters/repository/csvfile"
	"github.com/kocchi0218/form/internal/adapters/repository/sqlstore"
)

// Opens the CSV store, which upgrades any legacy file layout to the
// canonical one, and optionally copies the migrated data into a sqlite or
// postgres store.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var dataDir, to, dbURL string
	flag.StringVar(&dataDir, "data-dir", envOr("FORM_DATA_DIR", "."), "directory holding candidates.csv and votes.csv")
	flag.StringVar(&to, "to", "", "copy the migrated data into this backend: sqlite or postgres")
	flag.StringVar(&dbURL, "db-url", os.Getenv("FORM_DB_URL"), "database DSN for -to")
	flag.Parse()

	store, err := csvfile.Open(dataDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cands, err := store.Candidates().All(ctx)
	if err != nil {
		log.Fatal(err)
	}
	votes, err := store.Votes().All(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("store canonical: %d candidates, %d votes", len(cands), len(votes))

	if to == "" {
		return
	}
	if to != "sqlite" && to != "postgres" {
		log.Fatalf("unknown backend %q", to)
	}

	db, err := sql.Open(to, dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	dst := sqlstore.NewStore(db)
	if err := dst.Init(ctx); err != nil {
		log.Fatal(err)
	}
	if err := dst.Candidates().Save(ctx, cands); err != nil {
		log.Fatal(err)
	}
	for _, v := range votes {
		if err := dst.Votes().Append(ctx, v); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("copied into %s store", to)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
