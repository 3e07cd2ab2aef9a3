package timestamp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSeconds(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{"zero", 0, "00:00:00"},
		{"seconds only", 5, "00:00:05"},
		{"minutes", 85, "00:01:25"},
		{"hours", 3661, "01:01:01"},
		{"over a hundred hours", 100 * 3600, "100:00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FromSeconds(tc.seconds))
		})
	}
}

func TestToSeconds(t *testing.T) {
	got, err := ToSeconds("01:02:03")
	require.NoError(t, err)
	assert.Equal(t, 3723, got)

	got, err = ToSeconds("99:99:99")
	require.NoError(t, err)
	assert.Equal(t, 99*3600+99*60+99, got)
}

func TestToSeconds_Malformed(t *testing.T) {
	inputs := []string{"", "abc", "00:10", "00:00:00:01", "aa:bb:cc", "1::2", "-1:00:00",
		"3000000000000000:0:0", "0:99999999999999999999:0", "2147483648:00:00"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ToSeconds(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestToSeconds_LargestField(t *testing.T) {
	got, err := ToSeconds("0:0:2147483647")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, got)

	got, err = ToSeconds("2147483647:59:59")
	require.NoError(t, err)
	assert.Positive(t, got)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"1:2:3", "01:02:03"},
		{"0:1:5", "00:01:05"},
		{"1:00:00", "01:00:00"},
		{"00:10:30", "00:10:30"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := Normalize("abc")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRoundTrip(t *testing.T) {
	for s := 0; s < 24*3600; s++ {
		got, err := ToSeconds(FromSeconds(s))
		if err != nil {
			t.Fatalf("ToSeconds(FromSeconds(%d)) failed: %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip of %d gave %d", s, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"1:2:3", "00:00:00", "9:59:59", "12:3:45", "99:99:99"}

	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %q", in)
	}
}
