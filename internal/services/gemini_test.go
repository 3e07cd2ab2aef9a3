package services

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutawtr1214/youtube-samalizer/internal/models"
)

func sampleInfo() *models.VideoInfo {
	return &models.VideoInfo{
		VideoID:         "dQw4w9WgXcQ",
		Title:           "Go Concurrency Patterns",
		Author:          "Gopher Channel",
		URL:             "https://youtu.be/dQw4w9WgXcQ",
		DurationSeconds: 600,
		DurationText:    "00:10:00",
	}
}

func TestBuildSummaryPrompt_Lengths(t *testing.T) {
	info := sampleInfo()

	tests := []struct {
		length   models.Length
		expected string
	}{
		{models.LengthShort, "重要なポイントのみを箇条書きで簡潔に要約してください。"},
		{models.LengthNormal, "主要なポイントを含む標準的な長さの要約を作成してください。"},
		{models.LengthDetailed, "詳細な内容を含む包括的な要約を作成してください。重要な引用や具体例も含めてください。"},
		{models.Length("bogus"), "主要なポイントを含む標準的な長さの要約を作成してください。"},
	}

	for _, tc := range tests {
		t.Run(string(tc.length), func(t *testing.T) {
			prompt := buildSummaryPrompt(info, tc.length, "")
			assert.True(t, strings.HasPrefix(prompt, "次のYouTube動画を要約してください:\n標題: Go Concurrency Patterns\n作成者: Gopher Channel\n\n"))
			assert.True(t, strings.HasSuffix(prompt, tc.expected))
			assert.NotContains(t, prompt, "追加の要件")
		})
	}
}

func TestBuildSummaryPrompt_ExtraPrompt(t *testing.T) {
	prompt := buildSummaryPrompt(sampleInfo(), models.LengthShort, "技術用語を説明してください")
	assert.True(t, strings.HasSuffix(prompt, "\n\n追加の要件: 技術用語を説明してください"))
}

func TestBuildSummaryPrompt_Transcript(t *testing.T) {
	info := sampleInfo()
	info.Transcript = "hello gophers"

	prompt := buildSummaryPrompt(info, models.LengthNormal, "")
	assert.Contains(t, prompt, "---TRANSCRIPT START---\nhello gophers\n---TRANSCRIPT END---")
}

func TestBuildChapterPrompt(t *testing.T) {
	prompt := buildChapterPrompt(sampleInfo(), "英語で")

	assert.Contains(t, prompt, "[HH:MM:SS]")
	assert.Contains(t, prompt, "動画の長さ: 00:10:00")
	assert.True(t, strings.HasSuffix(prompt, "追加の要件: 英語で"))
}

func TestBuildChapterPrompt_UnknownDuration(t *testing.T) {
	info := sampleInfo()
	info.DurationSeconds = 0
	info.DurationText = "00:00:00"

	assert.NotContains(t, buildChapterPrompt(info, ""), "動画の長さ:")
}

func TestBuildSolutionPrompt(t *testing.T) {
	prompt := buildSolutionPrompt(sampleInfo(), "")

	assert.Contains(t, prompt, `"problem"`)
	assert.Contains(t, prompt, `"steps"`)
	assert.Contains(t, prompt, `"timestamp": "HH:MM:SS"`)
}

func TestVideoParts(t *testing.T) {
	parts := videoParts(sampleInfo(), "prompt")
	require.Len(t, parts, 2)

	file, ok := parts[0].(genai.FileData)
	require.True(t, ok)
	assert.Equal(t, "video/*", file.MIMEType)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", file.URI)
	assert.Equal(t, genai.Text("prompt"), parts[1])
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("[00:00:00] Intro\n"), genai.Blob{MIMEType: "image/png"}}}},
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("[00:01:00] Body")}}},
		},
	}

	assert.Equal(t, "[00:00:00] Intro\n[00:01:00] Body", extractText(resp))
	assert.Equal(t, "", extractText(nil))
	assert.Equal(t, "", extractText(&genai.GenerateContentResponse{}))
}

func TestLogFinishReasons(t *testing.T) {
	logger, hook := test.NewNullLogger()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{FinishReason: genai.FinishReasonStop},
			{FinishReason: genai.FinishReasonUnspecified},
			{FinishReason: genai.FinishReasonMaxTokens},
		},
	}
	logFinishReasons(logger, resp)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["candidate"])
}
