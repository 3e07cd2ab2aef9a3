package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/yutawtr1214/youtube-samalizer/internal/timestamp"
)

// Timestamped is anything carrying an HH:MM:SS timestamp.
type Timestamped interface {
	GetTimestamp() string
}

// FilterByDuration drops items whose timestamp lies past the end of the
// video. A zero duration means unknown and disables filtering. If every item
// would be dropped the input is returned as is.
func FilterByDuration[T Timestamped](items []T, durationSeconds int, log logrus.FieldLogger) []T {
	if durationSeconds <= 0 || len(items) == 0 {
		return items
	}

	kept := make([]T, 0, len(items))
	var dropped []T
	for _, item := range items {
		secs, err := timestamp.ToSeconds(item.GetTimestamp())
		if err != nil {
			log.WithError(err).WithField("timestamp", item.GetTimestamp()).Debug("cannot check timestamp against duration, keeping item")
			kept = append(kept, item)
			continue
		}
		if secs > durationSeconds {
			dropped = append(dropped, item)
			continue
		}
		kept = append(kept, item)
	}

	if len(kept) == 0 {
		log.WithFields(logrus.Fields{
			"items":    len(items),
			"duration": timestamp.FromSeconds(durationSeconds),
		}).Warn("every timestamp exceeds the video duration, returning items unvalidated")
		return items
	}

	for _, item := range dropped {
		log.WithFields(logrus.Fields{
			"timestamp": item.GetTimestamp(),
			"duration":  timestamp.FromSeconds(durationSeconds),
		}).Warn("timestamp exceeds the video duration, dropping item")
	}
	return kept
}
