package models

// SummaryOutput is the structured result of summary mode.
type SummaryOutput struct {
	Video   VideoRef    `json:"video"`
	Summary SummaryBody `json:"summary"`
}

type SummaryBody struct {
	Text     string `json:"text"`
	Model    string `json:"model"`
	Length   Length `json:"length"`
	Language string `json:"language"`
}

// ChapterOutput is the structured result of chapter mode.
type ChapterOutput struct {
	Video    VideoRef  `json:"video"`
	Chapters []Chapter `json:"chapters"`
}

// SolutionOutput is the structured result of solution mode.
type SolutionOutput struct {
	Video    VideoRef          `json:"video"`
	Solution SolutionStructure `json:"solution"`
}
