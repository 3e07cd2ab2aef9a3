package parser

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/yutawtr1214/youtube-samalizer/internal/models"
)

func warnings(hook *test.Hook) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			n++
		}
	}
	return n
}

func TestFilterByDuration_DropsOverLimit(t *testing.T) {
	logger, hook := test.NewNullLogger()
	items := []models.Chapter{
		{Timestamp: "00:00:50", Description: "in range"},
		{Timestamp: "00:02:30", Description: "past the end"},
	}

	got := FilterByDuration(items, 100, logger)

	assert.Equal(t, []models.Chapter{{Timestamp: "00:00:50", Description: "in range"}}, got)
	assert.Equal(t, 1, warnings(hook))
	assert.Equal(t, "00:02:30", hook.LastEntry().Data["timestamp"])
}

func TestFilterByDuration_AllFilteredFallback(t *testing.T) {
	logger, hook := test.NewNullLogger()
	items := []models.SolutionStep{
		{Timestamp: "00:00:50", Description: "a"},
		{Timestamp: "00:02:30", Description: "b"},
	}

	got := FilterByDuration(items, 10, logger)

	assert.Equal(t, items, got)
	assert.Equal(t, 1, warnings(hook))
}

func TestFilterByDuration_UnknownDuration(t *testing.T) {
	logger, hook := test.NewNullLogger()
	items := []models.Chapter{
		{Timestamp: "00:00:50", Description: "a"},
		{Timestamp: "99:99:99", Description: "b"},
	}

	got := FilterByDuration(items, 0, logger)

	assert.Equal(t, items, got)
	assert.Empty(t, hook.AllEntries())
}

func TestFilterByDuration_BoundaryIsInclusive(t *testing.T) {
	logger, hook := test.NewNullLogger()
	items := []models.Chapter{{Timestamp: "00:01:40", Description: "exactly at end"}}

	got := FilterByDuration(items, 100, logger)

	assert.Equal(t, items, got)
	assert.Equal(t, 0, warnings(hook))
}

func TestFilterByDuration_Empty(t *testing.T) {
	logger, hook := test.NewNullLogger()

	got := FilterByDuration([]models.Chapter{}, 100, logger)

	assert.Empty(t, got)
	assert.Empty(t, hook.AllEntries())
}
