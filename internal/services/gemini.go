package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	apperrors "github.com/yutawtr1214/youtube-samalizer/internal/errors"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
)

const (
	mimeTextPlain = "text/plain"
	mimeJSON      = "application/json"
	mimeVideo     = "video/*"
)

var lengthInstructions = map[models.Length]string{
	models.LengthShort:    "重要なポイントのみを箇条書きで簡潔に要約してください。",
	models.LengthNormal:   "主要なポイントを含む標準的な長さの要約を作成してください。",
	models.LengthDetailed: "詳細な内容を含む包括的な要約を作成してください。重要な引用や具体例も含めてください。",
}

type GeminiService struct {
	client      *genai.Client
	temperature float32
	log         logrus.FieldLogger
}

func NewGeminiService(ctx context.Context, apiKey string, temperature float32, log logrus.FieldLogger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:      client,
		temperature: temperature,
		log:         log,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// GenerateSummary asks the model for a prose summary of the video. With
// stream set, fragments are handed to onChunk as they arrive and the
// concatenation is returned.
func (s *GeminiService) GenerateSummary(ctx context.Context, info *models.VideoInfo, model string, length models.Length, extraPrompt string, stream bool, onChunk func(string)) (string, error) {
	const op = "gemini.GenerateSummary"

	prompt := buildSummaryPrompt(info, length, extraPrompt)
	if stream {
		return s.generateStream(ctx, op, model, mimeTextPlain, videoParts(info, prompt), onChunk)
	}
	return s.generate(ctx, op, model, mimeTextPlain, videoParts(info, prompt))
}

// GenerateChapters returns raw "[HH:MM:SS] description" lines.
func (s *GeminiService) GenerateChapters(ctx context.Context, info *models.VideoInfo, model, extraPrompt string) (string, error) {
	return s.generate(ctx, "gemini.GenerateChapters", model, mimeTextPlain, videoParts(info, buildChapterPrompt(info, extraPrompt)))
}

// GenerateSolutionStructure returns the raw JSON problem/steps document.
func (s *GeminiService) GenerateSolutionStructure(ctx context.Context, info *models.VideoInfo, model, extraPrompt string) (string, error) {
	return s.generate(ctx, "gemini.GenerateSolutionStructure", model, mimeJSON, videoParts(info, buildSolutionPrompt(info, extraPrompt)))
}

func (s *GeminiService) newModel(name, mimeType string) *genai.GenerativeModel {
	m := s.client.GenerativeModel(name)
	m.SetTemperature(s.temperature)
	m.ResponseMIMEType = mimeType
	return m
}

func (s *GeminiService) generate(ctx context.Context, op, model, mimeType string, parts []genai.Part) (string, error) {
	log := s.log.WithFields(logrus.Fields{"op": op, "model": model})
	log.Debug("calling Gemini")

	resp, err := s.newModel(model, mimeType).GenerateContent(ctx, parts...)
	if err != nil {
		return "", apperrors.ModelCall(op, err, "Gemini API error")
	}

	logFinishReasons(log, resp)

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", apperrors.ModelCall(op, nil, "empty response from model")
	}
	return text, nil
}

func (s *GeminiService) generateStream(ctx context.Context, op, model, mimeType string, parts []genai.Part, onChunk func(string)) (string, error) {
	log := s.log.WithFields(logrus.Fields{"op": op, "model": model, "stream": true})
	log.Debug("calling Gemini")

	iter := s.newModel(model, mimeType).GenerateContentStream(ctx, parts...)

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", apperrors.ModelCall(op, err, "Gemini stream error")
		}

		logFinishReasons(log, resp)

		chunk := extractText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	if strings.TrimSpace(full.String()) == "" {
		return "", apperrors.ModelCall(op, nil, "empty response from model")
	}
	return full.String(), nil
}

// Helper functions

func videoParts(info *models.VideoInfo, prompt string) []genai.Part {
	return []genai.Part{
		genai.FileData{MIMEType: mimeVideo, URI: info.URL},
		genai.Text(prompt),
	}
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func logFinishReasons(log logrus.FieldLogger, resp *genai.GenerateContentResponse) {
	if resp == nil {
		return
	}
	for i, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonUnspecified || cand.FinishReason == genai.FinishReasonStop {
			continue
		}
		log.WithFields(logrus.Fields{
			"candidate":     i,
			"finish_reason": cand.FinishReason.String(),
		}).Warn("Gemini stopped early")
	}
}

func writeVideoHeader(b *strings.Builder, lead string, info *models.VideoInfo) {
	b.WriteString(lead)
	b.WriteString(fmt.Sprintf("\n標題: %s\n作成者: %s", info.Title, info.Author))
}

func writeExtras(b *strings.Builder, info *models.VideoInfo, extraPrompt string) {
	if extraPrompt != "" {
		b.WriteString("\n\n追加の要件: ")
		b.WriteString(extraPrompt)
	}
	if info.Transcript != "" {
		b.WriteString("\n\n---TRANSCRIPT START---\n")
		b.WriteString(info.Transcript)
		b.WriteString("\n---TRANSCRIPT END---")
	}
}

func buildSummaryPrompt(info *models.VideoInfo, length models.Length, extraPrompt string) string {
	var b strings.Builder

	writeVideoHeader(&b, "次のYouTube動画を要約してください:", info)

	instruction, ok := lengthInstructions[length]
	if !ok {
		instruction = lengthInstructions[models.LengthNormal]
	}
	b.WriteString("\n\n")
	b.WriteString(instruction)

	writeExtras(&b, info, extraPrompt)
	return b.String()
}

func buildChapterPrompt(info *models.VideoInfo, extraPrompt string) string {
	var b strings.Builder

	writeVideoHeader(&b, "次のYouTube動画のチャプターを作成してください:", info)
	if info.DurationKnown() {
		b.WriteString(fmt.Sprintf("\n動画の長さ: %s", info.DurationText))
	}

	b.WriteString("\n\n各チャプターを次の形式で1行ずつ出力してください:\n")
	b.WriteString("[HH:MM:SS] チャプターの内容\n")
	b.WriteString("タイムスタンプは動画の長さを超えないようにしてください。チャプター以外の文章は出力しないでください。")

	writeExtras(&b, info, extraPrompt)
	return b.String()
}

func buildSolutionPrompt(info *models.VideoInfo, extraPrompt string) string {
	var b strings.Builder

	writeVideoHeader(&b, "次のYouTube動画で扱っている課題と、その解決手順を抽出してください:", info)
	if info.DurationKnown() {
		b.WriteString(fmt.Sprintf("\n動画の長さ: %s", info.DurationText))
	}

	b.WriteString("\n\n次のJSON形式のみで出力してください:\n")
	b.WriteString(`{"problem": "解決する課題", "steps": [{"timestamp": "HH:MM:SS", "description": "ステップの説明"}]}`)
	b.WriteString("\nstepsは動画内で説明される順に並べ、timestampはそのステップが説明される位置にしてください。")

	writeExtras(&b, info, extraPrompt)
	return b.String()
}
