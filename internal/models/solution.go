package models

// SolutionStructure frames a video as a problem solved by ordered steps.
type SolutionStructure struct {
	Problem string         `json:"problem"`
	Steps   []SolutionStep `json:"steps"`
}

// SolutionStep is one timestamped step. URL is filled in at output time.
type SolutionStep struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

func (s SolutionStep) GetTimestamp() string { return s.Timestamp }
