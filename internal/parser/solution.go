package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/yutawtr1214/youtube-samalizer/internal/errors"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/timestamp"
)

var (
	// ErrInvalidJSON means the response text could not be decoded.
	ErrInvalidJSON = errors.New("response is not valid JSON")
	// ErrInvalidSchema means the JSON lacks "problem" or a "steps" array.
	ErrInvalidSchema = errors.New("response JSON has an unexpected structure")
)

var fencedJSONRe = regexp.MustCompile("(?s)```json(.*?)```")

// ParseSolution decodes a {"problem", "steps"} object, optionally wrapped in
// a ```json fence. Steps without a timestamp or description, or with a
// timestamp that does not normalize, are dropped.
func ParseSolution(text string) (*models.SolutionStructure, error) {
	const op = "parser.ParseSolution"

	source := text
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		source = m[1]
	}
	source = strings.TrimSpace(source)

	var raw any
	if err := json.Unmarshal([]byte(source), &raw); err != nil {
		return nil, apperrors.ResponseParse(op, fmt.Errorf("%w: %v", ErrInvalidJSON, err), "failed to parse solution structure")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, apperrors.ResponseParse(op, fmt.Errorf("%w: top level is not an object", ErrInvalidSchema), "failed to parse solution structure")
	}
	problem, hasProblem := obj["problem"]
	rawSteps, isList := obj["steps"].([]any)
	if !hasProblem || !isList {
		return nil, apperrors.ResponseParse(op, fmt.Errorf("%w: want \"problem\" and a \"steps\" array", ErrInvalidSchema), "failed to parse solution structure")
	}

	result := &models.SolutionStructure{
		Problem: stringify(problem),
		Steps:   []models.SolutionStep{},
	}
	for _, item := range rawSteps {
		step, ok := parseStep(item)
		if !ok {
			continue
		}
		result.Steps = append(result.Steps, step)
	}
	return result, nil
}

func parseStep(item any) (models.SolutionStep, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.SolutionStep{}, false
	}
	rawTS, hasTS := obj["timestamp"]
	rawDesc, hasDesc := obj["description"]
	if !hasTS || !hasDesc {
		return models.SolutionStep{}, false
	}

	tsText, ok := rawTS.(string)
	if !ok {
		return models.SolutionStep{}, false
	}
	ts, err := timestamp.Normalize(tsText)
	if err != nil {
		return models.SolutionStep{}, false
	}

	return models.SolutionStep{
		Timestamp:   ts,
		Description: stringify(rawDesc),
	}, true
}

// stringify keeps strings as-is and renders any other JSON value as JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
