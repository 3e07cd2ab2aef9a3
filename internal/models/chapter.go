package models

type Chapter struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

func (c Chapter) GetTimestamp() string { return c.Timestamp }
