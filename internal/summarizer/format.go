package summarizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yutawtr1214/youtube-samalizer/internal/models"
)

// Result is the output of one Process call. Structured is set when the
// request asked for JSON and the result was not streamed.
type Result struct {
	Mode       models.Mode
	Format     models.OutputFormat
	Streamed   bool
	Text       string
	Structured any
}

func newResult(req Request, text string, structured any) *Result {
	res := &Result{Mode: req.Mode, Format: req.Format, Text: text}
	if req.Format == models.FormatJSON {
		res.Structured = structured
	}
	return res
}

// IsStructured reports whether the result carries a JSON document.
func (r *Result) IsStructured() bool {
	return r.Structured != nil
}

// JSON encodes the structured result indented by two spaces with non-ASCII
// characters left as is.
func (r *Result) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Structured); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func formatChapters(chapters []models.Chapter) string {
	lines := make([]string, len(chapters))
	for i, c := range chapters {
		lines[i] = c.Timestamp + " " + c.Description
	}
	return strings.Join(lines, "\n")
}

func formatSolution(sol *models.SolutionStructure) string {
	var b strings.Builder

	b.WriteString("## 解決する課題\n")
	b.WriteString(sol.Problem)
	b.WriteString("\n\n## 解決ステップ\n")
	for i, step := range sol.Steps {
		fmt.Fprintf(&b, "%d. [%s](%s) %s\n", i+1, step.Timestamp, step.URL, step.Description)
	}

	return strings.TrimRight(b.String(), "\n")
}
