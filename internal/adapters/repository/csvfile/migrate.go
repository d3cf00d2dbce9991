package csvfile

import (
	"fmt"
	"strings"

	"github.com/kocchi0218/form/internal/core/domain"
	"github.com/kocchi0218/form/internal/core/services"
)

// migrateCandidates brings candidates.csv to the canonical id,label,active
// layout and returns the parsed set.
//
// Recognized shapes:
//   - canonical {id,label,active}: passed through without a rewrite, active
//     coerced to boolean on read
//   - legacy {name[,active]}: name becomes label, a fresh id is minted per
//     row, missing active defaults to true; rewritten canonically at once
//   - absent file: seeded with DefaultCandidates
func (s *Store) migrateCandidates() ([]domain.Candidate, error) {
	header, rows, exists, err := readTable(s.candidatesPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.candidatesPath, err)
	}

	if !exists {
		cands := make([]domain.Candidate, len(DefaultCandidates))
		for i, label := range DefaultCandidates {
			cands[i] = domain.Candidate{ID: services.NewCandidateID(), Label: label, Active: true}
		}
		if err := writeFileAtomic(s.candidatesPath, candidateColumns, candidateRows(cands)); err != nil {
			return nil, err
		}
		return cands, nil
	}

	idx := columnIndex(header)
	switch {
	case hasColumns(idx, "id", "label", "active"):
		cands := make([]domain.Candidate, 0, len(rows))
		for _, row := range rows {
			cands = append(cands, domain.Candidate{
				ID:     column(idx, row, "id"),
				Label:  column(idx, row, "label"),
				Active: parseBool(column(idx, row, "active")),
			})
		}
		return cands, nil

	case hasColumns(idx, "name"):
		cands := make([]domain.Candidate, 0, len(rows))
		for _, row := range rows {
			active := true
			if _, ok := idx["active"]; ok {
				active = parseBool(column(idx, row, "active"))
			}
			cands = append(cands, domain.Candidate{
				ID:     services.NewCandidateID(),
				Label:  column(idx, row, "name"),
				Active: active,
			})
		}
		if err := writeFileAtomic(s.candidatesPath, candidateColumns, candidateRows(cands)); err != nil {
			return nil, err
		}
		return cands, nil
	}

	return nil, fmt.Errorf("%w: %s has columns %v", domain.ErrSchema, s.candidatesPath, header)
}

// migrateVotes brings votes.csv to the canonical column order.
//
// Recognized shapes:
//   - canonical {..,first_id,second_id,third_id,..}: missing optional columns
//     are filled with "" and the file rewritten in canonical order, unless it
//     already is canonical, in which case it is left untouched
//   - legacy {first,second,third} holding labels: each label resolves to a
//     candidate id through the current table, best effort; a label matching
//     no candidate migrates to the empty string rather than failing
//   - absent file: empty store
func (s *Store) migrateVotes(cands []domain.Candidate) error {
	header, rows, exists, err := readTable(s.votesPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.votesPath, err)
	}
	if !exists || header == nil {
		return nil
	}

	idx := columnIndex(header)
	switch {
	case hasColumns(idx, "first_id", "second_id", "third_id"):
		if canonicalHeader(header) {
			return nil
		}
		out := make([][]string, 0, len(rows))
		for _, row := range rows {
			rec := make([]string, len(voteColumns))
			for i, name := range voteColumns {
				rec[i] = column(idx, row, name)
			}
			out = append(out, rec)
		}
		return writeFileAtomic(s.votesPath, voteColumns, out)

	case hasColumns(idx, "first", "second", "third"):
		labelToID := make(map[string]string, len(cands))
		for _, c := range cands {
			if _, dup := labelToID[c.Label]; !dup {
				labelToID[c.Label] = c.ID
			}
		}
		out := make([][]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, []string{
				column(idx, row, "voter_name"),
				column(idx, row, "employee_id"),
				labelToID[column(idx, row, "first")],
				labelToID[column(idx, row, "second")],
				labelToID[column(idx, row, "third")],
				column(idx, row, "time"),
			})
		}
		return writeFileAtomic(s.votesPath, voteColumns, out)
	}

	return fmt.Errorf("%w: %s has columns %v", domain.ErrSchema, s.votesPath, header)
}

func canonicalHeader(header []string) bool {
	if len(header) != len(voteColumns) {
		return false
	}
	for i, name := range voteColumns {
		if header[i] != name {
			return false
		}
	}
	return true
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true") || s == "1"
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func candidateRows(cands []domain.Candidate) [][]string {
	rows := make([][]string, len(cands))
	for i, c := range cands {
		rows[i] = []string{c.ID, c.Label, formatBool(c.Active)}
	}
	return rows
}

func voteRows(votes []domain.Vote) [][]string {
	rows := make([][]string, len(votes))
	for i, v := range votes {
		rows[i] = []string{v.VoterName, v.EmployeeID, v.FirstID, v.SecondID, v.ThirdID, v.Time}
	}
	return rows
}
