package domain

// Standing is one leaderboard row. Points follow the 3-2-1 rule: three per
// first place, two per second, one per third. Rank is the 1-based position
// after ordering by points, then first/second/third counts, then label.
type Standing struct {
	Rank        int    `json:"rank"`
	CandidateID string `json:"candidate_id"`
	Label       string `json:"label"`
	Points      int    `json:"points"`
	FirstCount  int    `json:"first_count"`
	SecondCount int    `json:"second_count"`
	ThirdCount  int    `json:"third_count"`
}
