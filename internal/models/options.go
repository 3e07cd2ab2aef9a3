package models

import (
	"fmt"
	"strings"
)

// Mode selects which prompt/parser pair is used.
type Mode string

const (
	ModeSummary  Mode = "summary"
	ModeChapter  Mode = "chapter"
	ModeSolution Mode = "solution"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeSummary, ModeChapter, ModeSolution}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want %s)", s, ModeNames(", "))
}

// ModeNames joins the names in Modes with sep.
func ModeNames(sep string) string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, sep)
}

// Length controls summary verbosity.
type Length string

const (
	LengthShort    Length = "short"
	LengthNormal   Length = "normal"
	LengthDetailed Length = "detailed"
)

func ParseLength(s string) (Length, error) {
	switch l := Length(s); l {
	case LengthShort, LengthNormal, LengthDetailed:
		return l, nil
	}
	return "", fmt.Errorf("unknown summary length %q", s)
}

// OutputFormat selects plain text or structured JSON output.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

const (
	DefaultModel    = "gemini-2.0-flash"
	DefaultLanguage = "ja"
)
