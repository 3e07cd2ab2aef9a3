// Package cli wires configuration, logging and the processor behind the
// samalizer command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yutawtr1214/youtube-samalizer/internal/config"
	apperrors "github.com/yutawtr1214/youtube-samalizer/internal/errors"
	"github.com/yutawtr1214/youtube-samalizer/internal/handlers"
	"github.com/yutawtr1214/youtube-samalizer/internal/logging"
	"github.com/yutawtr1214/youtube-samalizer/internal/models"
	"github.com/yutawtr1214/youtube-samalizer/internal/render"
	"github.com/yutawtr1214/youtube-samalizer/internal/services"
	"github.com/yutawtr1214/youtube-samalizer/internal/summarizer"
)

// ProcessorFactory builds the processor for one run. The returned func
// releases its clients.
type ProcessorFactory func(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (handlers.Processor, func(), error)

type App struct {
	Config       *config.Config
	NewProcessor ProcessorFactory
	Version      string
}

type runOptions struct {
	mode       string
	model      string
	length     string
	format     string
	lang       string
	prompt     string
	stream     bool
	render     bool
	transcript bool
	debug      bool
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	app := &App{
		Config:       config.Load(),
		NewProcessor: DefaultProcessorFactory,
		Version:      version,
	}

	if err := NewRootCommand(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func NewRootCommand(app *App) *cobra.Command {
	cfg := app.Config
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "samalizer <url>",
		Short: "Summarize YouTube videos with Gemini",
		Long: `Summarize a YouTube video, split it into timestamped chapters, or
extract the problem it solves and the steps it walks through.`,
		Args:          cobra.ExactArgs(1),
		Version:       app.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, opts, args[0])
		},
	}
	cmd.SetVersionTemplate("YouTube-Samalizer version {{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&opts.mode, "mode", string(models.ModeSummary), "processing mode: "+models.ModeNames(", "))
	f.StringVar(&opts.model, "model", cfg.DefaultModel, "Gemini model to use")
	f.StringVar(&opts.length, "length", cfg.DefaultLength, "summary length: short, normal or detailed (summary mode only)")
	f.StringVar(&opts.format, "format", cfg.DefaultFormat, "output format: text or json")
	f.StringVar(&opts.lang, "lang", cfg.DefaultLanguage, "summary language (summary mode only)")
	f.StringVar(&opts.prompt, "prompt", "", "additional instructions for the model")
	f.BoolVar(&opts.stream, "stream", false, "stream the summary as it is generated (summary mode only)")
	f.BoolVar(&opts.render, "render", false, "render text output as terminal markdown")
	f.BoolVar(&opts.transcript, "transcript", cfg.IncludeTranscript, "send the video captions along with the prompt")
	f.BoolVar(&opts.debug, "debug", cfg.Debug, "print parameters and debug logs to stderr")

	cmd.AddCommand(newServeCommand(app))
	return cmd
}

func (o *runOptions) validate() (models.Mode, error) {
	mode, err := models.ParseMode(o.mode)
	if err != nil {
		return "", fmt.Errorf("invalid --mode: %w", err)
	}
	if _, err := models.ParseLength(o.length); err != nil {
		return "", fmt.Errorf("invalid --length: %w", err)
	}
	if _, err := models.ParseFormat(o.format); err != nil {
		return "", fmt.Errorf("invalid --format: %w", err)
	}
	return mode, nil
}

func run(cmd *cobra.Command, app *App, opts *runOptions, url string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg := *app.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	mode, err := opts.validate()
	if err != nil {
		return err
	}
	if !services.ValidateURL(url) {
		return apperrors.InvalidURL("cli.run", url)
	}

	if opts.debug {
		printParams(stderr, opts, mode, url)
	}

	if opts.stream && mode != models.ModeSummary {
		fmt.Fprintf(stderr, "Warning: streaming is not supported in %s mode, disabling it.\n", mode)
		opts.stream = false
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Debug: opts.debug, File: cfg.LogFile, Output: stderr})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	log := logging.WithRequestID(logger)

	cfg.IncludeTranscript = opts.transcript

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()

	processor, closeFn, err := app.NewProcessor(ctx, &cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	req := summarizer.Request{
		URL:         url,
		Mode:        mode,
		Model:       opts.model,
		Length:      models.Length(opts.length),
		Format:      models.OutputFormat(opts.format),
		Lang:        opts.lang,
		ExtraPrompt: opts.prompt,
		Stream:      opts.stream,
	}

	started := false
	if req.Stream {
		req.OnChunk = func(chunk string) {
			if !started {
				fmt.Fprint(stdout, "\n=== 要約を生成中... ===\n\n")
				started = true
			}
			fmt.Fprint(stdout, chunk)
		}
	}

	res, err := processor.Process(ctx, req)
	if err != nil {
		return err
	}

	return writeResult(stdout, stderr, res, opts.render, started)
}

func writeResult(stdout, stderr io.Writer, res *summarizer.Result, renderMarkdown, streamed bool) error {
	if res.Streamed {
		if !streamed {
			fmt.Fprint(stdout, "\n=== 要約を生成中... ===\n\n")
			fmt.Fprint(stdout, res.Text)
		}
		fmt.Fprint(stdout, "\n\n===============\n")
		return nil
	}

	if res.IsStructured() {
		out, err := res.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(out))
		return nil
	}

	text := res.Text
	if renderMarkdown {
		renderFn := render.Markdown
		if !render.IsTerminal(stdout) {
			renderFn = render.Plain
		}
		rendered, err := renderFn(text, 0)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: %v, printing plain text.\n", err)
		} else {
			text = strings.TrimRight(rendered, "\n")
		}
	}

	fmt.Fprintf(stdout, "\n=== %s 結果 ===\n\n%s\n\n====================\n", modeTitle(res.Mode), text)
	return nil
}

func printParams(w io.Writer, opts *runOptions, mode models.Mode, url string) {
	fmt.Fprintln(w, "Debug mode: enabled")
	fmt.Fprintln(w, "Parameters:")
	fmt.Fprintf(w, "  URL: %s\n", url)
	fmt.Fprintf(w, "  Mode: %s\n", mode)
	fmt.Fprintf(w, "  Model: %s\n", opts.model)
	if mode == models.ModeSummary {
		fmt.Fprintf(w, "  Length: %s\n", opts.length)
		fmt.Fprintf(w, "  Language: %s\n", opts.lang)
		fmt.Fprintf(w, "  Stream: %t\n", opts.stream)
	}
	fmt.Fprintf(w, "  Format: %s\n", opts.format)
	if opts.prompt != "" {
		fmt.Fprintf(w, "  Prompt: %s\n", opts.prompt)
	}
}

func modeTitle(mode models.Mode) string {
	s := string(mode)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DefaultProcessorFactory connects the processor to Gemini and YouTube.
func DefaultProcessorFactory(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (handlers.Processor, func(), error) {
	gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiTemperature, log)
	if err != nil {
		return nil, nil, err
	}

	youtube, err := services.NewYouTubeService(ctx, services.YouTubeOptions{
		APIKey:            cfg.YouTubeAPIKey,
		ScrapeDuration:    cfg.ScrapeDuration,
		IncludeTranscript: cfg.IncludeTranscript,
		HTTPTimeout:       cfg.HTTPTimeout,
	}, log)
	if err != nil {
		gemini.Close()
		return nil, nil, err
	}

	return summarizer.NewProcessor(youtube, gemini, log), gemini.Close, nil
}
