package parser

import (
	"regexp"
	"strings"

	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/timestamp"
)

var chapterLineRe = regexp.MustCompile(`^\[(\d{1,2}:\d{1,2}:\d{1,2})\]\s+(.+)$`)

// ParseChapters extracts "[H:M:S] description" lines in the order they
// appear. Lines that do not match are ignored.
func ParseChapters(text string) []models.Chapter {
	chapters := []models.Chapter{}
	for _, line := range strings.Split(text, "\n") {
		m := chapterLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		ts, err := timestamp.Normalize(m[1])
		if err != nil {
			continue
		}

		desc := strings.TrimSpace(m[2])
		if desc == "" {
			continue
		}
		chapters = append(chapters, models.Chapter{Timestamp: ts, Description: desc})
	}
	return chapters
}
