package domain

// Candidate is an item voters can rank. The ID is assigned once at creation
// and stays stable across renames and merges; only the label is display text.
type Candidate struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}
