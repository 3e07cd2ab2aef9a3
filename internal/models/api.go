package models

// ProcessRequest is the body accepted by POST /api/v1/process.
type ProcessRequest struct {
	URL    string `json:"url"`
	Mode   string `json:"mode"`
	Model  string `json:"model"`
	Length string `json:"length"`
	Format string `json:"format"`
	Lang   string `json:"lang"`
	Prompt string `json:"prompt"`
}

type TextResponse struct {
	Text string `json:"text"`
}

// API Error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
