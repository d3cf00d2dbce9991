// Package csvfile persists candidates and votes as two flat UTF-8 CSV files
// with header rows. Every mutation rewrites the whole file through a
// write-temp-then-rename replace; legacy column layouts are migrated to the
// canonical shape once, when the store is opened.
package csvfile

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/kocchi0218/form/internal/core/ports"
)

const (
	candidatesFile = "candidates.csv"
	votesFile      = "votes.csv"
)

// DefaultCandidates seeds the candidate file on first run.
var DefaultCandidates = []string{"候補A", "候補B", "候補C", "候補D"}

var (
	candidateColumns = []string{"id", "label", "active"}
	voteColumns      = []string{"voter_name", "employee_id", "first_id", "second_id", "third_id", "time"}
)

// Store owns both files behind a single mutex: the merge flow touches
// candidates and votes together, so overlapping writers must be serialized.
type Store struct {
	mu             sync.Mutex
	candidatesPath string
	votesPath      string
}

// Open migrates any legacy layout in dir to the canonical shape and returns
// the store. Migration happens exactly once: an already-canonical file is not
// rewritten. An absent candidate file is seeded with DefaultCandidates.
func Open(dir string) (*Store, error) {
	s := &Store{
		candidatesPath: filepath.Join(dir, candidatesFile),
		votesPath:      filepath.Join(dir, votesFile),
	}
	cands, err := s.migrateCandidates()
	if err != nil {
		return nil, err
	}
	if err := s.migrateVotes(cands); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Candidates() ports.CandidateRepository { return candidateRepository{s} }
func (s *Store) Votes() ports.VoteRepository           { return voteRepository{s} }

// readTable loads a CSV file as header plus rows. Rows may be ragged; short
// legacy rows are tolerated and indexed defensively via column().
func readTable(path string) (header []string, rows [][]string, exists bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, true, err
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	return header, rows, true, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func hasColumns(idx map[string]int, names ...string) bool {
	for _, name := range names {
		if _, ok := idx[name]; !ok {
			return false
		}
	}
	return true
}

// column returns the named field of a row, or "" when the row is too short
// or the column absent.
func column(idx map[string]int, row []string, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// writeFileAtomic writes header+rows to a temp file in the same directory
// and renames it over path, so readers never observe a half-written store.
func writeFileAtomic(path string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
