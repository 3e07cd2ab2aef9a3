// Package timestamp converts between "HH:MM:SS" strings and second counts.
package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a timestamp does not have exactly three
// integer fields separated by ':'.
var ErrMalformed = errors.New("malformed timestamp")

// FromSeconds renders seconds as HH:MM:SS. Hours are not capped.
func FromSeconds(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ToSeconds parses an H:M:S timestamp. Minutes and seconds are not range
// checked, so "99:99:99" is accepted.
func ToSeconds(text string) (int, error) {
	h, m, s, err := fields(text)
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + s, nil
}

// Normalize re-renders a loosely formatted timestamp ("1:2:3") in its
// zero-padded form ("01:02:03").
func Normalize(text string) (string, error) {
	h, m, s, err := fields(text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

func fields(text string) (h, m, s int, err error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q: expected 3 fields, got %d", ErrMalformed, text, len(parts))
	}

	var vals [3]int
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p[0] == '+' || p[0] == '-' {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformed, text)
		}
		// Bounding each field keeps h*3600+m*60+s from overflowing.
		n, convErr := strconv.ParseInt(p, 10, 32)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformed, text, convErr)
		}
		vals[i] = int(n)
	}
	return vals[0], vals[1], vals[2], nil
}
