package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMode("poem")
	require.Error(t, err)
	assert.Equal(t, `unknown mode "poem" (want summary, chapter, solution)`, err.Error())

	_, err = ParseMode("Summary")
	assert.Error(t, err)
}

func TestModeNames(t *testing.T) {
	assert.Equal(t, "summary|chapter|solution", ModeNames("|"))
}
