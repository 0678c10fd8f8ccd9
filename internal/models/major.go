package models

// MajorInfo is the program requirements text for a major.
type MajorInfo struct {
	Major     string `json:"major"`
	ProgramID int    `json:"programId"`
	Text      string `json:"text"`
	Cached    bool   `json:"-"`
}
