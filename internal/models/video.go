package models

import "fmt"

// VideoInfo is the metadata the pipeline needs about one video.
// DurationSeconds == 0 means the length is unknown.
type VideoInfo struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`

	// Transcript holds caption text when transcript context is enabled.
	Transcript string `json:"-"`
}

// WatchURL returns the canonical watch page URL for the video.
func (v *VideoInfo) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// TimestampURL links to the watch page at the given offset.
func (v *VideoInfo) TimestampURL(seconds int) string {
	return fmt.Sprintf("%s&t=%ds", v.WatchURL(), seconds)
}

// DurationKnown reports whether duration-based validation applies.
func (v *VideoInfo) DurationKnown() bool {
	return v.DurationSeconds > 0
}

// VideoRef is the "video" object embedded in structured results.
type VideoRef struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	URL     string `json:"url"`
	VideoID string `json:"video_id"`
}

// OEmbedResponse is the subset of the oEmbed payload we read.
type OEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}
