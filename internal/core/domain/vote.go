package domain

// Vote is one cast ballot: three candidate ids in rank order plus the voter's
// identity fields. EmployeeID is opaque text; it must never pass through a
// numeric type or leading zeros are lost. Time is kept as the stored string
// because legacy rows may carry empty or foreign-format timestamps.
type Vote struct {
	VoterName  string `json:"voter_name"`
	EmployeeID string `json:"employee_id"`
	FirstID    string `json:"first_id"`
	SecondID   string `json:"second_id"`
	ThirdID    string `json:"third_id"`
	Time       string `json:"time"`
}

// RankedIDs returns the candidate references in rank order. An empty entry is
// a reference that never resolved during legacy import.
func (v Vote) RankedIDs() [3]string {
	return [3]string{v.FirstID, v.SecondID, v.ThirdID}
}
