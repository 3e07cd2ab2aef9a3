// Package summarizer routes a video through metadata lookup, the model, the
// matching parser and the output formatter for one of the processing modes.
package summarizer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	apperrors "github.com/yutawtr1214/youtube-samalizer/internal/errors"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/parser"
	"github.com/yutawtr1214/youtube-samalizer/internal/timestamp"
)

// VideoSource resolves a URL into video metadata.
type VideoSource interface {
	ExtractVideoID(url string) (string, error)
	GetVideoInfo(ctx context.Context, url string) (*models.VideoInfo, error)
}

// ModelClient produces raw model output for each mode.
type ModelClient interface {
	GenerateSummary(ctx context.Context, info *models.VideoInfo, model string, length models.Length, extraPrompt string, stream bool, onChunk func(string)) (string, error)
	GenerateChapters(ctx context.Context, info *models.VideoInfo, model, extraPrompt string) (string, error)
	GenerateSolutionStructure(ctx context.Context, info *models.VideoInfo, model, extraPrompt string) (string, error)
}

type Request struct {
	URL         string
	Mode        models.Mode
	Model       string
	Length      models.Length
	Format      models.OutputFormat
	Lang        string
	ExtraPrompt string

	// Stream applies to summary mode only. OnChunk, if set, receives each
	// fragment as it arrives.
	Stream  bool
	OnChunk func(string)
}

type Processor struct {
	videos VideoSource
	model  ModelClient
	log    logrus.FieldLogger
}

func NewProcessor(videos VideoSource, model ModelClient, log logrus.FieldLogger) *Processor {
	return &Processor{videos: videos, model: model, log: log}
}

// Process runs one request end to end. Every returned error is an
// *errors.Error whose Kind tells the caller what went wrong.
func (p *Processor) Process(ctx context.Context, req Request) (*Result, error) {
	const op = "summarizer.Process"

	req, err := normalize(op, req)
	if err != nil {
		return nil, apperrors.Processing(op, err)
	}

	if _, err := p.videos.ExtractVideoID(req.URL); err != nil {
		if !apperrors.Is(err, apperrors.KindInvalidURL) {
			err = apperrors.InvalidURL(op, req.URL)
		}
		return nil, apperrors.Processing(op, err)
	}

	log := p.log.WithFields(logrus.Fields{"mode": req.Mode, "url": req.URL, "model": req.Model})

	info, err := p.videos.GetVideoInfo(ctx, req.URL)
	if err != nil {
		return nil, apperrors.Processing(op, err)
	}
	log.WithField("duration", info.DurationText).Debug("video info fetched")

	var res *Result
	switch req.Mode {
	case models.ModeSummary:
		res, err = p.summary(ctx, req, info)
	case models.ModeChapter:
		res, err = p.chapters(ctx, req, info, log)
	case models.ModeSolution:
		res, err = p.solution(ctx, req, info, log)
	}
	if err != nil {
		return nil, apperrors.Processing(op, err)
	}

	log.Debug("request processed")
	return res, nil
}

func normalize(op string, req Request) (Request, error) {
	if _, err := models.ParseMode(string(req.Mode)); err != nil {
		return req, apperrors.InvalidMode(op, string(req.Mode))
	}

	if req.Length == "" {
		req.Length = models.LengthNormal
	}
	if _, err := models.ParseLength(string(req.Length)); err != nil {
		return req, apperrors.InvalidOption(op, err)
	}

	if req.Format == "" {
		req.Format = models.FormatText
	}
	if _, err := models.ParseFormat(string(req.Format)); err != nil {
		return req, apperrors.InvalidOption(op, err)
	}

	if req.Lang == "" {
		req.Lang = models.DefaultLanguage
	}
	if req.Model == "" {
		req.Model = models.DefaultModel
	}
	return req, nil
}

func summaryPrompt(lang, extraPrompt string) string {
	if lang == models.DefaultLanguage {
		return extraPrompt
	}
	prompt := fmt.Sprintf("以下の要約を%sで生成してください。", lang)
	if extraPrompt != "" {
		prompt += "\n" + extraPrompt
	}
	return prompt
}

func (p *Processor) summary(ctx context.Context, req Request, info *models.VideoInfo) (*Result, error) {
	text, err := p.model.GenerateSummary(ctx, info, req.Model, req.Length, summaryPrompt(req.Lang, req.ExtraPrompt), req.Stream, req.OnChunk)
	if err != nil {
		return nil, err
	}

	if req.Stream {
		return &Result{Mode: req.Mode, Format: models.FormatText, Streamed: true, Text: text}, nil
	}

	return newResult(req, text, &models.SummaryOutput{
		Video: videoRef(info),
		Summary: models.SummaryBody{
			Text:     text,
			Model:    req.Model,
			Length:   req.Length,
			Language: req.Lang,
		},
	}), nil
}

func (p *Processor) chapters(ctx context.Context, req Request, info *models.VideoInfo, log logrus.FieldLogger) (*Result, error) {
	const op = "summarizer.chapters"

	raw, err := p.model.GenerateChapters(ctx, info, req.Model, req.ExtraPrompt)
	if err != nil {
		return nil, err
	}

	chapters := parser.ParseChapters(raw)
	if len(chapters) == 0 {
		return nil, apperrors.ResponseParse(op, nil, "no chapters found in model response")
	}
	chapters = parser.FilterByDuration(chapters, info.DurationSeconds, log)

	return newResult(req, formatChapters(chapters), &models.ChapterOutput{
		Video:    videoRef(info),
		Chapters: chapters,
	}), nil
}

func (p *Processor) solution(ctx context.Context, req Request, info *models.VideoInfo, log logrus.FieldLogger) (*Result, error) {
	raw, err := p.model.GenerateSolutionStructure(ctx, info, req.Model, req.ExtraPrompt)
	if err != nil {
		return nil, err
	}

	sol, err := parser.ParseSolution(raw)
	if err != nil {
		return nil, err
	}

	steps := parser.FilterByDuration(sol.Steps, info.DurationSeconds, log)
	linked := make([]models.SolutionStep, len(steps))
	for i, step := range steps {
		if secs, err := timestamp.ToSeconds(step.Timestamp); err == nil {
			step.URL = info.TimestampURL(secs)
		}
		linked[i] = step
	}
	sol.Steps = linked

	return newResult(req, formatSolution(sol), &models.SolutionOutput{
		Video:    videoRef(info),
		Solution: *sol,
	}), nil
}

func videoRef(info *models.VideoInfo) models.VideoRef {
	return models.VideoRef{
		Title:   info.Title,
		Author:  info.Author,
		URL:     info.URL,
		VideoID: info.VideoID,
	}
}
